// Package output delivers transcribed text to the user: clipboard,
// typing into the focused window, or a notes file.
package output

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/go-vgo/robotgo"
)

// CopyToClipboard puts text on the system clipboard. robotgo handles the
// common case; on Wayland/X11 setups where it cannot reach the display
// server it falls back to wl-copy, then xclip.
func CopyToClipboard(text string) error {
	if err := robotgo.WriteAll(text); err == nil {
		return nil
	}

	if path, err := exec.LookPath("wl-copy"); err == nil {
		cmd := exec.Command(path)
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err == nil {
			return nil
		}
	}

	if path, err := exec.LookPath("xclip"); err == nil {
		cmd := exec.Command(path, "-selection", "clipboard")
		cmd.Stdin = strings.NewReader(text)
		if err := cmd.Run(); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no clipboard backend available (install wl-clipboard or xclip)")
}

// ReadClipboard returns the current clipboard content.
func ReadClipboard() (string, error) {
	content, err := robotgo.ReadAll()
	if err != nil {
		return "", fmt.Errorf("read clipboard: %w", err)
	}
	return content, nil
}
