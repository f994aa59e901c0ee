//go:build !windows

package transport

import (
	"context"
	"io"
	"net/url"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/creack/pty"
	"github.com/pkg/errors"

	"git2.jad.ru/MeterRS485/vtconnect/internal/log"
)

// Local runs a program on a pseudo-terminal (local:///bin/bash?arg=-l).
// Without a path it runs $SHELL, falling back to /bin/sh.
type Local struct {
	link
	opts Options

	mu   sync.Mutex
	cmd  *exec.Cmd
	ptmx *os.File
	cols int
	rows int
}

// NewLocal returns a local pseudo-terminal transport.
func NewLocal(opts Options) *Local {
	opts = opts.withDefaults()
	l := &Local{opts: opts, cols: opts.Columns, rows: opts.Rows}
	l.log = log.For("local")
	return l
}

func program(dest *url.URL) (string, []string) {
	path := dest.Path
	if path == "" {
		path = dest.Opaque
	}
	if path == "" {
		path = os.Getenv("SHELL")
	}
	if path == "" {
		path = "/bin/sh"
	}
	return path, dest.Query()["arg"]
}

// Connect starts the program. Credentials are not used.
func (l *Local) Connect(ctx context.Context, dest *url.URL, _ Credentials) error {
	if l.IsConnected() {
		return ErrAlreadyConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path, args := program(dest)
	cmd := exec.Command(path, args...)
	cmd.Env = append(os.Environ(), "TERM=xterm")
	cmd.Env = append(cmd.Env, l.opts.Env...)

	l.mu.Lock()
	size := winsize(l.cols, l.rows, 0, 0)
	l.mu.Unlock()

	ptmx, err := pty.StartWithSize(cmd, size)
	if err != nil {
		return errors.Wrapf(err, "start %s", path)
	}

	l.mu.Lock()
	l.cmd, l.ptmx = cmd, ptmx
	l.mu.Unlock()
	l.log.Infof("started %s (pid %d)", path, cmd.Process.Pid)

	done := make(chan struct{})
	gen := l.attach(func() error {
		err := ptmx.Close()
		select {
		case <-done:
		default:
			_ = cmd.Process.Signal(syscall.SIGHUP)
		}
		return err
	})

	go func() {
		l.readLoop(gen, eioReader{ptmx}, l.deliverCopy)
		_ = cmd.Wait()
		close(done)
	}()
	return nil
}

// eioReader turns the EIO a pty master reports after the child exits into
// io.EOF.
type eioReader struct{ r io.Reader }

func (e eioReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if errors.Is(err, syscall.EIO) {
		err = io.EOF
	}
	return n, err
}

// Send writes to the program's terminal.
func (l *Local) Send(p []byte) error {
	l.mu.Lock()
	ptmx := l.ptmx
	l.mu.Unlock()
	if ptmx == nil {
		return ErrNotConnected
	}
	return l.write(ptmx, p)
}

// SetWindowSize resizes the pseudo-terminal.
func (l *Local) SetWindowSize(columns, rows, pixelWidth, pixelHeight int) error {
	l.mu.Lock()
	l.cols, l.rows = columns, rows
	ptmx := l.ptmx
	l.mu.Unlock()

	if ptmx == nil || !l.IsConnected() {
		return nil
	}
	return pty.Setsize(ptmx, winsize(columns, rows, pixelWidth, pixelHeight))
}

// winsize clamps each dimension to the 16-bit range of the pty ioctl.
func winsize(columns, rows, pixelWidth, pixelHeight int) *pty.Winsize {
	clamp := func(v int) uint16 {
		switch {
		case v < 0:
			return 0
		case v > 0xffff:
			return 0xffff
		}
		return uint16(v)
	}
	return &pty.Winsize{Cols: clamp(columns), Rows: clamp(rows), X: clamp(pixelWidth), Y: clamp(pixelHeight)}
}
