package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestSaveToNotesNewFile(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveToNotes(dir, "meeting", "first entry")
	if err != nil {
		t.Fatalf("SaveToNotes failed: %v", err)
	}
	if filepath.Base(path) != "meeting.md" {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	if !strings.HasPrefix(content, "# meeting\n\n") {
		t.Errorf("missing heading: %q", content)
	}
	if !strings.Contains(content, "first entry\n") {
		t.Errorf("missing entry text: %q", content)
	}
	if !strings.Contains(content, "<!-- ") {
		t.Errorf("missing timestamp comment: %q", content)
	}
}

func TestSaveToNotesAppends(t *testing.T) {
	dir := t.TempDir()

	if _, err := SaveToNotes(dir, "log", "one"); err != nil {
		t.Fatal(err)
	}
	path, err := SaveToNotes(dir, "log", "two")
	if err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	content := string(data)
	if strings.Count(content, "# log") != 1 {
		t.Errorf("heading written more than once: %q", content)
	}
	if !strings.Contains(content, "one") || !strings.Contains(content, "two") {
		t.Errorf("entries missing: %q", content)
	}
	if strings.Index(content, "one") > strings.Index(content, "two") {
		t.Errorf("entries out of order: %q", content)
	}
}

func TestSaveToNotesDatedDefault(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveToNotes(dir, "", "dated entry")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Now().Format("2006-01-02") + ".md"
	if filepath.Base(path) != want {
		t.Errorf("path = %q, want basename %q", path, want)
	}
}

func TestSaveToNotesStripsExtension(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveToNotes(dir, "todo.md", "x")
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "todo.md" {
		t.Errorf("path = %q", path)
	}
}

func TestSaveToNotesCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "notes")
	if _, err := SaveToNotes(dir, "n", "x"); err != nil {
		t.Fatalf("SaveToNotes did not create the directory: %v", err)
	}
}
