package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kirivoice/kiri/internal/gitsync"
)

// SaveToNotes appends transcribed text to a markdown file in notesDir
// and returns the file's path. An empty name targets today's dated file
// (2006-01-02.md). New files get a heading; every entry gets a timestamp
// comment. If the notes dir is a git repository the change is
// auto-committed.
func SaveToNotes(notesDir, name, text string) (string, error) {
	if err := os.MkdirAll(notesDir, 0o755); err != nil {
		return "", fmt.Errorf("create notes directory: %w", err)
	}

	if name == "" {
		name = time.Now().Format("2006-01-02")
	}
	name = strings.TrimSuffix(name, ".md")
	path := filepath.Join(notesDir, name+".md")

	_, statErr := os.Stat(path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open notes file: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintf(f, "# %s\n\n", name); err != nil {
			return "", fmt.Errorf("write notes heading: %w", err)
		}
	}
	timestamp := time.Now().Format("15:04")
	if _, err := fmt.Fprintf(f, "<!-- %s -->\n%s\n\n", timestamp, text); err != nil {
		return "", fmt.Errorf("write notes entry: %w", err)
	}

	if gitsync.IsRepo(notesDir) {
		// Best-effort: a failed commit must not lose the transcription.
		gitsync.Commit(notesDir, "")
	}

	return path, nil
}
