// Package gitsync keeps the notes directory in a git repository:
// auto-commit after each transcription, push on demand.
package gitsync

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// git runs one git command inside dir and returns its stdout.
func git(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stdout.String(), fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// IsRepo reports whether dir is a git repository.
func IsRepo(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

// Init initializes dir as a git repository on branch main with the given
// remote, creating an initial commit. Re-running updates the remote.
func Init(dir, remoteURL string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create notes directory: %w", err)
	}

	if IsRepo(dir) {
		if _, err := git(dir, "remote", "get-url", "origin"); err != nil {
			if _, err := git(dir, "remote", "add", "origin", remoteURL); err != nil {
				return err
			}
		} else if _, err := git(dir, "remote", "set-url", "origin", remoteURL); err != nil {
			return err
		}
		return nil
	}

	if _, err := git(dir, "init"); err != nil {
		return err
	}
	git(dir, "branch", "-m", "main")
	if _, err := git(dir, "remote", "add", "origin", remoteURL); err != nil {
		return err
	}

	gitignore := filepath.Join(dir, ".gitignore")
	if _, err := os.Stat(gitignore); os.IsNotExist(err) {
		os.WriteFile(gitignore, []byte("*.swp\n*.swo\n.DS_Store\n"), 0o644)
	}

	if _, err := git(dir, "add", "-A"); err != nil {
		return err
	}
	if _, err := git(dir, "commit", "--allow-empty", "-m", "Initial commit from kiri"); err != nil {
		return err
	}
	return nil
}

// Commit stages everything and commits. Returns true if a commit was
// made, false when the tree was clean or dir is not a repository.
func Commit(dir, message string) (bool, error) {
	if !IsRepo(dir) {
		return false, nil
	}

	if _, err := git(dir, "add", "-A"); err != nil {
		return false, err
	}
	// Exit status 0 means nothing staged.
	if _, err := git(dir, "diff", "--cached", "--quiet"); err == nil {
		return false, nil
	}

	if message == "" {
		message = fmt.Sprintf("kiri: notes update %s", time.Now().Format("2006-01-02 15:04"))
	}
	if _, err := git(dir, "commit", "-m", message); err != nil {
		return false, err
	}
	return true, nil
}

// Push pushes the notes branch to origin.
func Push(dir string) error {
	if !IsRepo(dir) {
		return fmt.Errorf("not a git repository: %s (run: kiri-sync --init <url>)", dir)
	}
	if _, err := git(dir, "remote", "get-url", "origin"); err != nil {
		return fmt.Errorf("no remote configured (run: kiri-sync --init <url>)")
	}
	if _, err := git(dir, "push", "-u", "origin", "main"); err != nil {
		return err
	}
	return nil
}

// Status returns a human-readable sync summary for the notes repo.
func Status(dir string) string {
	if !IsRepo(dir) {
		return fmt.Sprintf("Not a git repo: %s", dir)
	}

	lines := []string{fmt.Sprintf("Notes dir: %s", dir)}

	if out, err := git(dir, "remote", "get-url", "origin"); err == nil {
		lines = append(lines, "Remote: "+strings.TrimSpace(out))
	} else {
		lines = append(lines, "Remote: (none)")
	}

	if out, err := git(dir, "log", "--oneline", "-5"); err == nil && strings.TrimSpace(out) != "" {
		lines = append(lines, "Recent commits:\n"+strings.TrimSpace(out))
	}

	if out, _ := git(dir, "status", "--short"); strings.TrimSpace(out) != "" {
		lines = append(lines, "Uncommitted:\n"+strings.TrimSpace(out))
	} else {
		lines = append(lines, "Working tree clean.")
	}

	return strings.Join(lines, "\n")
}
