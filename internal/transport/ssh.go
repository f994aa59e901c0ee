package transport

import (
	"context"
	"io"
	"net"
	"net/url"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"

	"git2.jad.ru/MeterRS485/vtconnect/internal/log"
)

// SSH is an interactive shell over SSH with a "xterm" pseudo-terminal.
type SSH struct {
	link
	opts Options

	mu      sync.Mutex
	client  *ssh.Client
	session *ssh.Session
	stdin   io.WriteCloser
	cols    int
	rows    int
}

// NewSSH returns an SSH transport (ssh://[user@]host[:22]).
func NewSSH(opts Options) *SSH {
	opts = opts.withDefaults()
	s := &SSH{opts: opts, cols: opts.Columns, rows: opts.Rows}
	s.log = log.For("ssh")
	return s
}

// Connect authenticates with password credentials and starts a shell.
// Any other credential kind fails with ErrUnsupportedCredentials.
func (s *SSH) Connect(ctx context.Context, dest *url.URL, creds Credentials) error {
	if s.IsConnected() {
		return ErrAlreadyConnected
	}

	var pw Password
	switch c := creds.(type) {
	case Password:
		pw = c
	case *Password:
		if c == nil {
			return errors.Wrap(ErrUnsupportedCredentials, "no credentials")
		}
		pw = *c
	default:
		kind := "none"
		if creds != nil {
			kind = creds.Kind()
		}
		return errors.Wrapf(ErrUnsupportedCredentials, "ssh accepts password credentials, got %s", kind)
	}
	if pw.Username == "" && dest.User != nil {
		pw.Username = dest.User.Username()
	}

	addr := hostPort(dest)
	cfg := &ssh.ClientConfig{
		User: pw.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(pw.Password),
			ssh.KeyboardInteractive(func(_, _ string, questions []string, _ []bool) ([]string, error) {
				answers := make([]string, len(questions))
				for i := range answers {
					answers[i] = pw.Password
				}
				return answers, nil
			}),
		},
		HostKeyCallback: s.checkHostKey,
		Timeout:         s.opts.ConnectTimeout,
	}

	dialer := net.Dialer{Timeout: s.opts.ConnectTimeout}
	nc, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "dial %s", addr)
	}
	if s.opts.KeepAlive {
		if err := SetTCPKeepalive(nc, s.opts.KeepAliveIdle, s.opts.KeepAliveInterval, s.opts.KeepAliveCount); err != nil {
			s.log.WithError(err).Warn("failed to set keepalive")
		}
	}

	conn, chans, reqs, err := ssh.NewClientConn(nc, addr, cfg)
	if err != nil {
		nc.Close()
		return errors.Wrapf(err, "ssh handshake with %s", addr)
	}
	client := ssh.NewClient(conn, chans, reqs)

	session, stdin, stdout, err := s.startShell(client)
	if err != nil {
		client.Close()
		return err
	}

	s.mu.Lock()
	s.client, s.session, s.stdin = client, session, stdin
	s.mu.Unlock()
	s.log.Infof("connected to %s as %s", addr, pw.Username)

	gen := s.attach(func() error {
		session.Close()
		return client.Close()
	})
	go s.readLoop(gen, stdout, s.deliverCopy)
	return nil
}

func (s *SSH) startShell(client *ssh.Client) (*ssh.Session, io.WriteCloser, io.Reader, error) {
	session, err := client.NewSession()
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "open session")
	}

	s.mu.Lock()
	cols, rows := s.cols, s.rows
	s.mu.Unlock()

	modes := ssh.TerminalModes{
		ssh.ECHO:          1,
		ssh.TTY_OP_ISPEED: 38400,
		ssh.TTY_OP_OSPEED: 38400,
	}
	if err := session.RequestPty("xterm", rows, cols, modes); err != nil {
		session.Close()
		return nil, nil, nil, errors.Wrap(err, "request pty")
	}
	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		return nil, nil, nil, errors.Wrap(err, "stdin")
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		return nil, nil, nil, errors.Wrap(err, "stdout")
	}
	if err := session.Shell(); err != nil {
		session.Close()
		return nil, nil, nil, errors.Wrap(err, "start shell")
	}
	return session, stdin, stdout, nil
}

func (s *SSH) checkHostKey(host string, _ net.Addr, key ssh.PublicKey) error {
	fp := ssh.FingerprintSHA256(key)
	s.log.Infof("host key for %s: %s %s", host, key.Type(), fp)
	if s.opts.OnHostKey != nil && !s.opts.OnHostKey(host, fp) {
		return errors.Wrapf(ErrHostKeyRejected, "%s for %s", fp, host)
	}
	return nil
}

// Send writes to the shell's standard input.
func (s *SSH) Send(p []byte) error {
	s.mu.Lock()
	stdin := s.stdin
	s.mu.Unlock()
	if stdin == nil {
		return ErrNotConnected
	}
	return s.write(stdin, p)
}

// SetWindowSize sends a window-change request.
func (s *SSH) SetWindowSize(columns, rows, _, _ int) error {
	s.mu.Lock()
	s.cols, s.rows = columns, rows
	session := s.session
	s.mu.Unlock()

	if session == nil || !s.IsConnected() {
		return nil
	}
	return errors.Wrap(session.WindowChange(rows, columns), "window change")
}
