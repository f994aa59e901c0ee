// Package transport attaches a terminal to a byte stream: a Telnet socket,
// an SSH channel, a serial port or a local pseudo-terminal. All transports
// share one contract; the selector maps URI schemes to constructors.
package transport

import (
	"context"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotConnected           = errors.New("transport: not connected")
	ErrAlreadyConnected       = errors.New("transport: already connected")
	ErrUnsupportedCredentials = errors.New("transport: unsupported credential type")
	ErrUnknownScheme          = errors.New("transport: unknown scheme")
	ErrHostKeyRejected        = errors.New("transport: host key rejected")
)

// Transport is a connection to a remote or local terminal host.
//
// Inbound data is pushed to the OnData handler from the transport's read
// loop, one call per received run, in order. Connection state changes are
// published to every subscriber. Handlers run on the read loop and must not
// block it for long; Disconnect may be called from them.
type Transport interface {
	Connect(ctx context.Context, dest *url.URL, creds Credentials) error
	Send(p []byte) error
	SetWindowSize(columns, rows, pixelWidth, pixelHeight int) error
	Disconnect() error
	IsConnected() bool

	OnData(fn func([]byte))
	Subscribe(fn func(StateChange)) (cancel func())
}

// Credentials carries authentication material.
type Credentials interface {
	Kind() string
}

// Password is username/password authentication.
type Password struct {
	Username string
	Password string
}

// Kind implements Credentials.
func (Password) Kind() string { return "password" }

// StateChange is published when a transport connects or disconnects. Err
// is set when the connection ended because of a failure.
type StateChange struct {
	Connected bool
	Err       error
}

// Options configures a transport. Zero values select defaults.
type Options struct {
	Columns int
	Rows    int

	TerminalType  string
	TerminalSpeed string

	ConnectTimeout time.Duration

	// TCP keepalive for socket transports.
	KeepAlive         bool
	KeepAliveIdle     time.Duration
	KeepAliveInterval time.Duration
	KeepAliveCount    int

	// NOPInterval sends IAC NOP on an idle Telnet connection.
	NOPInterval time.Duration

	// ProxyProtocol writes a PROXY protocol header (version 1 or 2) after
	// dialing a Telnet server. Zero disables it.
	ProxyProtocol int

	// OnHostKey is offered the SSH server's host name and key fingerprint.
	// Returning false rejects the key. Nil accepts every key.
	OnHostKey func(host, fingerprint string) bool

	// Env is added to the environment of local programs.
	Env []string
}

func (o Options) withDefaults() Options {
	if o.Columns <= 0 {
		o.Columns = 80
	}
	if o.Rows <= 0 {
		o.Rows = 25
	}
	if o.ConnectTimeout <= 0 {
		o.ConnectTimeout = 15 * time.Second
	}
	if o.KeepAliveIdle <= 0 {
		o.KeepAliveIdle = 30 * time.Second
	}
	if o.KeepAliveInterval <= 0 {
		o.KeepAliveInterval = 10 * time.Second
	}
	if o.KeepAliveCount <= 0 {
		o.KeepAliveCount = 3
	}
	return o
}

// notifier holds the data handler and state subscribers.
type notifier struct {
	mu     sync.Mutex
	onData func([]byte)
	subs   map[int]func(StateChange)
	nextID int
}

func (n *notifier) OnData(fn func([]byte)) {
	n.mu.Lock()
	n.onData = fn
	n.mu.Unlock()
}

func (n *notifier) Subscribe(fn func(StateChange)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]func(StateChange))
	}
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

func (n *notifier) deliver(p []byte) {
	n.mu.Lock()
	fn := n.onData
	n.mu.Unlock()
	if fn != nil && len(p) > 0 {
		fn(p)
	}
}

func (n *notifier) publish(sc StateChange) {
	n.mu.Lock()
	subs := make([]func(StateChange), 0, len(n.subs))
	for id := 0; id < n.nextID; id++ {
		if fn, ok := n.subs[id]; ok {
			subs = append(subs, fn)
		}
	}
	n.mu.Unlock()
	for _, fn := range subs {
		fn(sc)
	}
}

// link is the lifecycle shared by all transports: a connected flag, the
// function that releases the connection, and a write lock. Each connection
// gets a generation number so that a read loop left over from an earlier
// connection cannot tear down or feed a later one.
type link struct {
	notifier

	stateMu   sync.Mutex
	connected bool
	gen       uint64
	release   func() error

	writeMu sync.Mutex

	log *logrus.Entry
}

func (l *link) IsConnected() bool {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()
	return l.connected
}

// attach makes a new connection current and returns its generation.
func (l *link) attach(release func() error) uint64 {
	l.stateMu.Lock()
	l.gen++
	gen := l.gen
	l.connected = true
	l.release = release
	l.stateMu.Unlock()
	l.publish(StateChange{Connected: true})
	return gen
}

// current reports whether gen is the live connection.
func (l *link) current(gen uint64) bool {
	l.stateMu.Lock()
	defer l.stateMu.Unlock()
	return l.connected && l.gen == gen
}

// Disconnect closes the connection. Calling it again, or on a transport that
// never connected, does nothing.
func (l *link) Disconnect() error {
	return l.teardown(0, nil)
}

// teardown closes connection gen, or whatever is connected when gen is 0.
func (l *link) teardown(gen uint64, cause error) error {
	l.stateMu.Lock()
	if !l.connected || (gen != 0 && gen != l.gen) {
		l.stateMu.Unlock()
		return nil
	}
	l.connected = false
	release := l.release
	l.release = nil
	l.stateMu.Unlock()

	var err error
	if release != nil {
		err = release()
	}
	if cause != nil {
		l.log.WithError(cause).Warn("connection lost")
	} else {
		l.log.Debug("disconnected")
	}
	l.publish(StateChange{Connected: false, Err: cause})
	return err
}

func (l *link) write(w io.Writer, p []byte) error {
	if !l.IsConnected() {
		return ErrNotConnected
	}
	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	if _, err := w.Write(p); err != nil {
		return errors.Wrap(err, "write")
	}
	return nil
}

// readLoop reads connection gen until it fails, handing each chunk to
// handle. It stops without side effects once gen is no longer current.
// The chunk buffer is reused; handle must copy what it keeps.
func (l *link) readLoop(gen uint64, r io.Reader, handle func([]byte) error) {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if !l.current(gen) {
				return
			}
			if herr := handle(buf[:n]); herr != nil {
				l.teardown(gen, herr)
				return
			}
		}
		if err != nil {
			if err == io.EOF {
				l.teardown(gen, nil)
			} else if l.current(gen) {
				l.teardown(gen, errors.Wrap(err, "read"))
			}
			return
		}
	}
}

// deliverCopy passes a copy of p to the data handler.
func (l *link) deliverCopy(p []byte) error {
	l.deliver(append([]byte(nil), p...))
	return nil
}
