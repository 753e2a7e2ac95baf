package conv

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// recentLines is how much trailing context a wake-word turn carries.
const recentLines = 10

// Transcript is an append-only dictation file. Lines are timestamped and
// never reordered or truncated while dictation is active; a small tail is
// kept in memory so a wake-word turn can hand the backend recent context.
type Transcript struct {
	file   afero.File
	path   string
	now    func() time.Time
	recent []string
	lines  int
}

// OpenTranscript creates or appends to a dictation file named after the
// current time under dir.
func OpenTranscript(fs afero.Fs, dir string, now func() time.Time) (*Transcript, error) {
	if now == nil {
		now = time.Now
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("dictation dir: %w", err)
	}
	path := filepath.Join(dir, "dictation_"+now().Format("20060102_150405")+".txt")
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	return &Transcript{file: f, path: path, now: now}, nil
}

// Append writes one timestamped line and remembers it as recent context.
func (t *Transcript) Append(text string) error {
	line := fmt.Sprintf("[%s] %s\n", t.now().Format("15:04:05"), text)
	if _, err := t.file.WriteString(line); err != nil {
		return fmt.Errorf("append transcript: %w", err)
	}
	t.recent = append(t.recent, text)
	if len(t.recent) > recentLines {
		t.recent = t.recent[len(t.recent)-recentLines:]
	}
	t.lines++
	return nil
}

// Lines reports how many lines have been dictated in total.
func (t *Transcript) Lines() int { return t.lines }

// Recent returns up to the last few dictated lines, oldest first.
func (t *Transcript) Recent() []string {
	out := make([]string, len(t.recent))
	copy(out, t.recent)
	return out
}

// Path reports where the transcript is being written.
func (t *Transcript) Path() string { return t.path }

func (t *Transcript) Close() {
	if t.file != nil {
		t.file.Close()
		t.file = nil
	}
}
