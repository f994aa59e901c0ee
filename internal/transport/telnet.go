package transport

import (
	"context"
	"encoding/hex"
	"net"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pires/go-proxyproto"
	"github.com/pkg/errors"

	"git2.jad.ru/MeterRS485/vtconnect/internal/log"
	"git2.jad.ru/MeterRS485/vtconnect/internal/telnet"
)

// Telnet is a Telnet client transport. Negotiation is handled by a
// telnet.Engine; OnData receives application payload only.
type Telnet struct {
	link
	opts    Options
	comPort bool

	mu     sync.Mutex // guards engine, nc, cols, rows
	engine *telnet.Engine
	nc     net.Conn
	cols   int
	rows   int

	lastTx atomic.Int64
}

// NewTelnet returns a Telnet transport (telnet://host[:23]).
func NewTelnet(opts Options) *Telnet {
	opts = opts.withDefaults()
	t := &Telnet{opts: opts, cols: opts.Columns, rows: opts.Rows}
	t.log = log.For("telnet")
	return t
}

// NewRFC2217 returns a Telnet transport that also negotiates COM port
// settings (rfc2217://host:port?baud=9600&mode=8N1).
func NewRFC2217(opts Options) *Telnet {
	t := NewTelnet(opts)
	t.comPort = true
	t.log = log.For("rfc2217")
	return t
}

// Connect dials the server and sends the initial capability announcement.
// Credentials are not used by Telnet.
func (t *Telnet) Connect(ctx context.Context, dest *url.URL, _ Credentials) error {
	if t.IsConnected() {
		return ErrAlreadyConnected
	}

	cfg := telnet.Config{
		TerminalType:  t.opts.TerminalType,
		TerminalSpeed: t.opts.TerminalSpeed,
	}
	if t.comPort {
		q := dest.Query()
		settings, err := telnet.ParseComPortSettings(q.Get("baud"), q.Get("mode"))
		if err != nil {
			return err
		}
		cfg.ComPort = &settings
	}

	addr := hostPort(dest)
	dialer := net.Dialer{Timeout: t.opts.ConnectTimeout}
	nc, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "dial %s", addr)
	}

	if t.opts.KeepAlive {
		if err := SetTCPKeepalive(nc, t.opts.KeepAliveIdle, t.opts.KeepAliveInterval, t.opts.KeepAliveCount); err != nil {
			t.log.WithError(err).Warn("failed to set keepalive")
		}
	}

	if v := t.opts.ProxyProtocol; v > 0 {
		header := proxyproto.HeaderProxyFromAddrs(byte(v), nc.LocalAddr(), nc.RemoteAddr())
		if _, err := header.WriteTo(nc); err != nil {
			nc.Close()
			return errors.Wrap(err, "write proxy header")
		}
	}

	t.mu.Lock()
	cfg.Columns, cfg.Rows = t.cols, t.rows
	engine := telnet.NewEngine(cfg)
	t.engine = engine
	t.nc = nc
	handshake := engine.Handshake()
	t.mu.Unlock()

	if _, err := nc.Write(handshake); err != nil {
		nc.Close()
		return errors.Wrap(err, "write handshake")
	}
	t.lastTx.Store(time.Now().UnixNano())
	t.log.Infof("connected to %s", addr)

	stop := make(chan struct{})
	gen := t.attach(func() error {
		close(stop)
		return nc.Close()
	})

	go t.readLoop(gen, nc, func(chunk []byte) error {
		return t.handle(engine, nc, chunk)
	})
	if t.opts.NOPInterval > 0 {
		go t.keepalive(nc, stop)
	}
	return nil
}

// handle runs chunk through the engine of the connection it was read from.
func (t *Telnet) handle(engine *telnet.Engine, nc net.Conn, chunk []byte) error {
	t.mu.Lock()
	res, err := engine.Process(chunk)
	t.mu.Unlock()

	if len(res.Replies) > 0 {
		t.log.Debugf("negotiation reply: %s", hex.EncodeToString(res.Replies))
		if werr := t.write(nc, res.Replies); werr != nil {
			return werr
		}
		t.lastTx.Store(time.Now().UnixNano())
	}
	for _, p := range res.Payload {
		t.deliver(p)
	}
	return err
}

// keepalive sends IAC NOP when nothing was written for NOPInterval.
func (t *Telnet) keepalive(nc net.Conn, stop <-chan struct{}) {
	ticker := time.NewTicker(t.opts.NOPInterval)
	defer ticker.Stop()

	nop := []byte{telnet.IAC, telnet.NOP}
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			idle := time.Since(time.Unix(0, t.lastTx.Load()))
			if idle < t.opts.NOPInterval {
				continue
			}
			if err := t.write(nc, nop); err != nil {
				t.log.WithError(err).Debug("keepalive NOP failed")
				return
			}
			t.lastTx.Store(time.Now().UnixNano())
		}
	}
}

// Send writes payload, escaping IAC bytes.
func (t *Telnet) Send(p []byte) error {
	t.mu.Lock()
	nc := t.nc
	t.mu.Unlock()
	if nc == nil {
		return ErrNotConnected
	}
	if err := t.write(nc, telnet.Escape(p)); err != nil {
		return err
	}
	t.lastTx.Store(time.Now().UnixNano())
	return nil
}

// SetWindowSize stores the size and reports it if the server asked for
// NAWS. Pixel dimensions are not carried by Telnet.
func (t *Telnet) SetWindowSize(columns, rows, _, _ int) error {
	t.mu.Lock()
	t.cols, t.rows = columns, rows
	var report []byte
	if t.engine != nil {
		report = t.engine.WindowSize(columns, rows)
	}
	nc := t.nc
	t.mu.Unlock()

	if report == nil || !t.IsConnected() {
		return nil
	}
	return t.write(nc, report)
}

// Option returns the negotiated state of an option on both sides.
func (t *Telnet) Option(opt byte) (local, remote telnet.OptionState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.engine == nil {
		return telnet.StateUnknown, telnet.StateUnknown
	}
	return t.engine.Local(opt), t.engine.Remote(opt)
}

// ComPortStatus returns the COM port acknowledgements received so far.
func (t *Telnet) ComPortStatus() []telnet.ComPortCommand {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.engine == nil {
		return nil
	}
	return t.engine.ComPortStatus()
}

// hostPort returns host:port for dest, using the scheme's default port.
func hostPort(dest *url.URL) string {
	port := dest.Port()
	if port == "" {
		port = DefaultPort(strings.ToLower(dest.Scheme))
	}
	return net.JoinHostPort(dest.Hostname(), port)
}
