// Package clipboard copies generated documents to the system clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

var errClipboardUnavailable = errors.New("system clipboard is not available")

// Copier copies textual data to a clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier on top of github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a clipboard Service.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return errClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}

var _ Copier = (*Service)(nil)
