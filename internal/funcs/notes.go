package funcs

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const noteStampFormat = "20060102_150405"

// noteStore keeps each note as its own timestamped file so notes survive
// restarts and a corrupted write can only lose one entry.
type noteStore struct {
	fs  afero.Fs
	dir string
	now func() time.Time
}

func (n *noteStore) save(text string) (map[string]any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("save_note needs some text")
	}
	if err := n.fs.MkdirAll(n.dir, 0o755); err != nil {
		return nil, fmt.Errorf("notes dir: %w", err)
	}
	name := n.now().Format(noteStampFormat) + ".txt"
	if err := afero.WriteFile(n.fs, filepath.Join(n.dir, name), []byte(text), 0o644); err != nil {
		return nil, fmt.Errorf("write note: %w", err)
	}
	return map[string]any{"status": "saved", "note": text}, nil
}

func (n *noteStore) list() (map[string]any, error) {
	exists, err := afero.DirExists(n.fs, n.dir)
	if err != nil {
		return nil, err
	}
	if !exists {
		return map[string]any{"notes": []map[string]any{}}, nil
	}

	infos, err := afero.ReadDir(n.fs, n.dir)
	if err != nil {
		return nil, fmt.Errorf("read notes dir: %w", err)
	}

	var names []string
	for _, info := range infos {
		if !info.IsDir() && strings.HasSuffix(info.Name(), ".txt") {
			names = append(names, info.Name())
		}
	}
	sort.Strings(names)

	now := n.now()
	notes := make([]map[string]any, 0, len(names))
	for _, name := range names {
		stem := strings.TrimSuffix(name, ".txt")
		created, err := time.ParseInLocation(noteStampFormat, stem, now.Location())
		if err != nil {
			continue
		}
		body, err := afero.ReadFile(n.fs, filepath.Join(n.dir, name))
		if err != nil {
			continue
		}
		notes = append(notes, map[string]any{
			"timestamp": stem,
			"ago":       ago(now.Sub(created)),
			"text":      string(body),
		})
	}
	return map[string]any{"notes": notes}, nil
}

// ago renders a duration the way people say it: "2 days ago", "just now".
func ago(d time.Duration) string {
	switch {
	case d >= 24*time.Hour:
		return plural(int(d.Hours())/24, "day")
	case d >= time.Hour:
		return plural(int(d.Hours()), "hour")
	case d >= time.Minute:
		return plural(int(d.Minutes()), "minute")
	default:
		return "just now"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
