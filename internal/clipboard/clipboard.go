// Package clipboard reads plain text from the system clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when no clipboard utility is available,
// e.g. on a headless server without xclip, xsel or wl-clipboard.
var ErrUnsupported = errors.New("no clipboard utility available")

// System reads from the OS clipboard.
type System struct{}

// ReadText returns the clipboard contents.
func (System) ReadText() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnsupported
	}
	return clipboard.ReadAll()
}

// Static serves fixed text. Used for --stdin input and request bodies so
// they share the clipboard import path.
type Static string

func (s Static) ReadText() (string, error) {
	return string(s), nil
}
