package conv

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestIdleCounterTripsOnce(t *testing.T) {
	c := NewController(3)

	if c.RecordIdle() || c.RecordIdle() {
		t.Fatal("tripped early")
	}
	if !c.RecordIdle() {
		t.Fatal("did not trip at threshold")
	}
	if c.IdleCount() != 0 {
		t.Errorf("counter not reset after tripping, got %d", c.IdleCount())
	}
	if c.RecordIdle() {
		t.Error("tripped again immediately after reset")
	}
}

func TestResetIdle(t *testing.T) {
	c := NewController(2)
	c.RecordIdle()
	c.ResetIdle()
	if c.RecordIdle() {
		t.Error("reset did not clear the count")
	}
}

func TestPassiveBuffer(t *testing.T) {
	c := NewController(25)
	c.StartPassive()

	if n := c.BufferPassive("the sky is blue"); n != 1 {
		t.Errorf("count = %d", n)
	}
	c.BufferPassive("birds exist")

	buf := c.DrainPassive()
	if len(buf) != 2 || buf[0] != "the sky is blue" {
		t.Errorf("drained %v", buf)
	}
	if got := c.DrainPassive(); len(got) != 0 {
		t.Errorf("buffer not cleared: %v", got)
	}
}

func TestPassiveAndDictationAreExclusive(t *testing.T) {
	c := NewController(25)
	fs := afero.NewMemMapFs()

	tr, err := OpenTranscript(fs, "/dictation", nil)
	if err != nil {
		t.Fatal(err)
	}
	c.StartDictation(tr)
	if !c.Dictating() || c.Passive() {
		t.Fatal("dictation entry state wrong")
	}

	c.StartPassive()
	if c.Dictating() {
		t.Error("passive entry left dictation on")
	}
	if c.Transcript() != nil {
		t.Error("transcript not closed on passive entry")
	}

	tr, err = OpenTranscript(fs, "/dictation", nil)
	if err != nil {
		t.Fatal(err)
	}
	c.StartDictation(tr)
	if c.Passive() {
		t.Error("dictation entry left passive on")
	}
}

func TestSleepSuspendsSubStates(t *testing.T) {
	c := NewController(25)
	c.StartPassive()
	c.BufferPassive("overheard")
	c.SetMuted(true)

	c.Sleep()
	if !c.Sleeping() || c.Passive() {
		t.Error("sleep did not suspend passive")
	}
	if len(c.DrainPassive()) != 0 {
		t.Error("passive buffer survived sleep")
	}
	if !c.Muted() {
		t.Error("mute should survive sleep")
	}

	c.Wake()
	if c.Sleeping() {
		t.Error("wake did not clear sleeping")
	}
}

// closeCountFs counts Close calls on every file it opens.
type closeCountFs struct {
	afero.Fs
	closed int
}

func (f *closeCountFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	file, err := f.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &closeCountFile{File: file, fs: f}, nil
}

type closeCountFile struct {
	afero.File
	fs *closeCountFs
}

func (f *closeCountFile) Close() error {
	f.fs.closed++
	return f.File.Close()
}

func TestStartDictationClosesPreviousTranscript(t *testing.T) {
	c := NewController(25)
	fs := &closeCountFs{Fs: afero.NewMemMapFs()}
	at := func(sec int) func() time.Time {
		return func() time.Time { return time.Date(2026, 8, 30, 12, 0, sec, 0, time.UTC) }
	}

	t1, err := OpenTranscript(fs, "/dictation", at(1))
	if err != nil {
		t.Fatal(err)
	}
	c.StartDictation(t1)

	t2, err := OpenTranscript(fs, "/dictation", at(2))
	if err != nil {
		t.Fatal(err)
	}
	c.StartDictation(t2)

	if fs.closed != 1 {
		t.Errorf("closes after restart = %d, want 1 (the first transcript)", fs.closed)
	}
	if c.Transcript() != t2 {
		t.Error("controller not on the new transcript")
	}
	if !c.Dictating() {
		t.Error("restart left dictation off")
	}

	c.StopDictation()
	if fs.closed != 2 {
		t.Errorf("closes after stop = %d, want 2", fs.closed)
	}
}

func TestTranscriptAppend(t *testing.T) {
	fs := afero.NewMemMapFs()
	now := time.Date(2026, 8, 30, 9, 30, 0, 0, time.UTC)

	tr, err := OpenTranscript(fs, "/dictation", func() time.Time { return now })
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	if err := tr.Append("first line"); err != nil {
		t.Fatal(err)
	}
	now = now.Add(time.Minute)
	if err := tr.Append("second line"); err != nil {
		t.Fatal(err)
	}

	data, err := afero.ReadFile(fs, tr.Path())
	if err != nil {
		t.Fatal(err)
	}
	want := "[09:30:00] first line\n[09:31:00] second line\n"
	if string(data) != want {
		t.Errorf("transcript:\n%q\nwant:\n%q", data, want)
	}

	recent := tr.Recent()
	if len(recent) != 2 || recent[0] != "first line" {
		t.Errorf("recent = %v", recent)
	}
	if tr.Lines() != 2 {
		t.Errorf("lines = %d", tr.Lines())
	}
}

func TestTranscriptRecentIsBounded(t *testing.T) {
	fs := afero.NewMemMapFs()
	tr, err := OpenTranscript(fs, "/dictation", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer tr.Close()

	for i := 0; i < recentLines+5; i++ {
		if err := tr.Append("line"); err != nil {
			t.Fatal(err)
		}
	}
	if got := len(tr.Recent()); got != recentLines {
		t.Errorf("recent holds %d lines, want %d", got, recentLines)
	}
	if tr.Lines() != recentLines+5 {
		t.Errorf("total lines = %d", tr.Lines())
	}
}
