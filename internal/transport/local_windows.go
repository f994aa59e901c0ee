//go:build windows

package transport

import (
	"context"
	"net/url"

	"github.com/pkg/errors"
)

// Local is not available on Windows.
type Local struct {
	link
}

// NewLocal returns a transport whose Connect always fails.
func NewLocal(Options) *Local {
	return &Local{}
}

func (l *Local) Connect(context.Context, *url.URL, Credentials) error {
	return errors.New("local: pseudo-terminals are not supported on windows")
}

func (l *Local) Send([]byte) error { return ErrNotConnected }

func (l *Local) SetWindowSize(_, _, _, _ int) error { return nil }
