package funcs

import (
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestNoteStoreSaveAndList(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	now := base
	store := &noteStore{
		fs:  afero.NewMemMapFs(),
		dir: "/notes",
		now: func() time.Time { return now },
	}

	if _, err := store.save("buy milk"); err != nil {
		t.Fatal(err)
	}
	now = base.Add(time.Minute)
	if _, err := store.save("call mom"); err != nil {
		t.Fatal(err)
	}

	now = base.Add(2 * time.Hour)
	res, err := store.list()
	if err != nil {
		t.Fatal(err)
	}
	notes := res["notes"].([]map[string]any)
	if len(notes) != 2 {
		t.Fatalf("got %d notes", len(notes))
	}
	if notes[0]["text"] != "buy milk" || notes[1]["text"] != "call mom" {
		t.Errorf("notes out of order: %v", notes)
	}
	if got := notes[0]["ago"]; got != "2 hours ago" {
		t.Errorf("ago = %v", got)
	}
}

func TestNoteStoreRejectsEmpty(t *testing.T) {
	store := &noteStore{fs: afero.NewMemMapFs(), dir: "/notes", now: time.Now}
	if _, err := store.save("  "); err == nil {
		t.Error("blank note should fail")
	}
}

func TestNoteStoreListMissingDir(t *testing.T) {
	store := &noteStore{fs: afero.NewMemMapFs(), dir: "/nowhere", now: time.Now}
	res, err := store.list()
	if err != nil {
		t.Fatal(err)
	}
	if notes := res["notes"].([]map[string]any); len(notes) != 0 {
		t.Errorf("expected no notes, got %v", notes)
	}
}

func TestAgo(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{time.Minute, "1 minute ago"},
		{45 * time.Minute, "45 minutes ago"},
		{time.Hour, "1 hour ago"},
		{26 * time.Hour, "1 day ago"},
		{72 * time.Hour, "3 days ago"},
	}
	for _, tc := range cases {
		if got := ago(tc.d); got != tc.want {
			t.Errorf("ago(%v) = %q, want %q", tc.d, got, tc.want)
		}
	}
}
