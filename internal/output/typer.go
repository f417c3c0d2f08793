package output

import (
	"fmt"
	"time"

	"github.com/go-vgo/robotgo"
)

// TypeText types text into the focused application via the virtual
// keyboard. The short delay gives the window manager time to settle
// focus after a hotkey release.
func TypeText(text string) error {
	if text == "" {
		return nil
	}
	time.Sleep(100 * time.Millisecond)
	robotgo.TypeStr(text)
	return nil
}

// PasteText copies text to the clipboard and sends the paste chord.
// Faster than typing for long transcriptions, at the cost of clobbering
// the clipboard.
func PasteText(text string) error {
	if err := CopyToClipboard(text); err != nil {
		return fmt.Errorf("paste: %w", err)
	}
	time.Sleep(50 * time.Millisecond)
	robotgo.KeyTap("v", "ctrl")
	return nil
}
