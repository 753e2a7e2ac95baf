package watchdog

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRun_CompletesInTime(t *testing.T) {
	var ticks int32
	cfg := Config{
		Primary: 50 * time.Millisecond,
		Margin:  50 * time.Millisecond,
		Poll:    5 * time.Millisecond,
		OnStatus: func(elapsed, remaining time.Duration) {
			atomic.AddInt32(&ticks, 1)
			if remaining < 0 {
				t.Errorf("negative remaining before deadline: %v", remaining)
			}
		},
	}
	got, err := Run(context.Background(), cfg, func(ctx context.Context) (string, error) {
		time.Sleep(30 * time.Millisecond)
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q", got)
	}
	if atomic.LoadInt32(&ticks) == 0 {
		t.Errorf("expected at least one status tick")
	}
}

func TestRun_Hung(t *testing.T) {
	cfg := Config{
		Primary: 10 * time.Millisecond,
		Margin:  10 * time.Millisecond,
		Poll:    5 * time.Millisecond,
	}
	cancelled := make(chan struct{})
	_, err := Run(context.Background(), cfg, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		close(cancelled)
		return 0, ctx.Err()
	})
	if !errors.Is(err, ErrHung) {
		t.Fatalf("expected ErrHung, got %v", err)
	}
	select {
	case <-cancelled:
	case <-time.After(time.Second):
		t.Errorf("operation context was not cancelled after ErrHung")
	}
}

func TestRun_OperationErrorSurfaces(t *testing.T) {
	boom := errors.New("boom")
	cfg := Config{Primary: 100 * time.Millisecond, Poll: 5 * time.Millisecond}
	_, err := Run(context.Background(), cfg, func(ctx context.Context) (int, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected op error, got %v", err)
	}
}

func TestRun_CallerCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	cfg := Config{Primary: time.Hour, Poll: 5 * time.Millisecond}
	_, err := Run(ctx, cfg, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
