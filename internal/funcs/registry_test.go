package funcs

import (
	"errors"
	"fmt"
	"testing"
)

func TestCallUnknownFunction(t *testing.T) {
	r := NewRegistry()

	res, err := r.Call("unknown_fn", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res["error"]; got != "Unknown function: unknown_fn" {
		t.Errorf("got %q", got)
	}
}

func TestCallAbsorbsHandlerError(t *testing.T) {
	r := NewRegistry()
	r.Register("boom", "always fails", nil, func(map[string]any) (map[string]any, error) {
		return nil, fmt.Errorf("it broke")
	})

	res, err := r.Call("boom", nil)
	if err != nil {
		t.Fatalf("handler error should not propagate, got %v", err)
	}
	if res["error"] != "it broke" {
		t.Errorf("got %v", res["error"])
	}
}

func TestCallRecoversPanic(t *testing.T) {
	r := NewRegistry()
	r.Register("panics", "", nil, func(map[string]any) (map[string]any, error) {
		panic("nope")
	})

	res, err := r.Call("panics", nil)
	if err != nil {
		t.Fatalf("panic should not propagate as error, got %v", err)
	}
	if res["error"] != "panics: nope" {
		t.Errorf("got %v", res["error"])
	}
}

func TestCallPropagatesControlSignals(t *testing.T) {
	r := NewRegistry()
	r.Register("sleepy", "", nil, func(map[string]any) (map[string]any, error) {
		return nil, ErrSleep
	})
	r.Register("bye", "", nil, func(map[string]any) (map[string]any, error) {
		return nil, ErrShutdown
	})

	res, err := r.Call("sleepy", nil)
	if !errors.Is(err, ErrSleep) {
		t.Errorf("want ErrSleep, got %v", err)
	}
	if res != nil {
		t.Errorf("want nil result with control signal, got %v", res)
	}

	if _, err := r.Call("bye", nil); !errors.Is(err, ErrShutdown) {
		t.Errorf("want ErrShutdown, got %v", err)
	}
}

func TestCallNilResultBecomesEmptyMap(t *testing.T) {
	r := NewRegistry()
	r.Register("quiet", "", nil, func(map[string]any) (map[string]any, error) {
		return nil, nil
	})

	res, err := r.Call("quiet", nil)
	if err != nil {
		t.Fatal(err)
	}
	if res == nil || len(res) != 0 {
		t.Errorf("want empty map, got %v", res)
	}
}

func TestCallNilArgsBecomeEmptyMap(t *testing.T) {
	r := NewRegistry()
	r.Register("echo", "", nil, func(args map[string]any) (map[string]any, error) {
		if args == nil {
			t.Error("handler saw nil args")
		}
		return map[string]any{}, nil
	})
	if _, err := r.Call("echo", nil); err != nil {
		t.Fatal(err)
	}
}

func TestPromptDescriptionOrder(t *testing.T) {
	r := NewRegistry()
	r.Register("get_time", "Get the current time", nil, nil)
	r.Register("set_timer", "Set a timer",
		[]Param{
			{"seconds", "number", "How long"},
			{"label", "string", "What for"},
		}, nil)

	want := "- get_time(): Get the current time\n" +
		"- set_timer(seconds (number): How long, label (string): What for): Set a timer"
	if got := r.PromptDescription(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRegisterDuplicateKeepsPosition(t *testing.T) {
	r := NewRegistry()
	r.Register("a", "first", nil, func(map[string]any) (map[string]any, error) {
		return map[string]any{"v": 1}, nil
	})
	r.Register("b", "", nil, nil)
	r.Register("a", "replaced", nil, func(map[string]any) (map[string]any, error) {
		return map[string]any{"v": 2}, nil
	})

	names := r.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Errorf("names = %v", names)
	}
	res, err := r.Call("a", nil)
	if err != nil {
		t.Fatal(err)
	}
	if res["v"] != 2 {
		t.Errorf("replacement handler not installed, got %v", res)
	}
}
