package workflow

import "github.com/atotto/clipboard"

// Clipboard abstracts the system clipboard so panel actions stay
// testable.
type Clipboard interface {
	WriteText(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}
