package session

import (
	"context"
	"io"
	"net/url"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"git2.jad.ru/MeterRS485/vtconnect/internal/controller"
	"git2.jad.ru/MeterRS485/vtconnect/internal/escape"
	"git2.jad.ru/MeterRS485/vtconnect/internal/log"
	"git2.jad.ru/MeterRS485/vtconnect/internal/transport"
)

// Manager manages active sessions
type Manager struct {
	sessions sync.Map // map[string]*Session
	total    uint64
	debug    bool
	utf8     bool
	output   io.Writer
	onCmd    func(escape.Sequence)
	onStart  func(*Session)
	onEnd    func(*Session)
}

// NewManager creates a new session manager. utf8 selects the decoder's
// character mode for new sessions.
func NewManager(debug, utf8 bool) *Manager {
	return &Manager{debug: debug, utf8: utf8}
}

// SetCallbacks sets session lifecycle callbacks
func (m *Manager) SetCallbacks(onStart, onEnd func(*Session)) {
	m.onStart = onStart
	m.onEnd = onEnd
}

// SetOutput makes new sessions copy their raw payload to w before decoding
// it, for a local terminal that renders the stream itself.
func (m *Manager) SetOutput(w io.Writer) {
	m.output = w
}

// SetCommandHook installs fn as OnCommand of new sessions.
func (m *Manager) SetCommandHook(fn func(escape.Sequence)) {
	m.onCmd = fn
}

// Create registers a session for an unconnected transport t. Payload is
// dispatched to c; the session ends when t reports a disconnect.
func (m *Manager) Create(dest *url.URL, t transport.Transport, c controller.Controller) *Session {
	return m.create(log.L, dest, t, c)
}

func (m *Manager) create(logger *logrus.Entry, dest *url.URL, t transport.Transport, c controller.Controller) *Session {
	id := uuid.NewString()
	sess := &Session{
		ID:          id,
		Destination: dest,
		StartedAt:   time.Now(),
		Debug:       m.debug,
		transport:   t,
		dispatcher:  controller.NewDispatcher(c),
		output:      m.output,
		OnCommand:   m.onCmd,
		decoder:     escape.NewDecoder(m.utf8),
		done:        make(chan struct{}),
		log:         logger.WithFields(logrus.Fields{"component": "session", "session": id}),
	}
	sess.touch()
	sess.dispatcher.OnUnhandled = func(seq escape.Sequence) {
		sess.log.Debugf("unhandled %s", seq)
	}

	t.OnData(sess.receive)
	sess.unsub = t.Subscribe(func(sc transport.StateChange) {
		if !sc.Connected {
			m.End(id)
		}
	})

	m.sessions.Store(id, sess)
	atomic.AddUint64(&m.total, 1)

	if m.onStart != nil {
		m.onStart(sess)
	}
	return sess
}

// Dial selects a transport for rawURL, registers a session for it and
// connects. The session logs through the logger carried by ctx. On failure
// the session is ended and the error returned.
func (m *Manager) Dial(ctx context.Context, rawURL string, creds transport.Credentials, opts transport.Options, c controller.Controller) (*Session, error) {
	t, dest, err := transport.Select(rawURL, opts)
	if err != nil {
		return nil, err
	}

	sess := m.create(log.G(ctx), dest, t, c)
	sess.log.Debugf("connecting to %s", dest.Redacted())
	if err := t.Connect(ctx, dest, creds); err != nil {
		m.End(sess.ID)
		return nil, errors.Wrapf(err, "connect %s", dest.Redacted())
	}
	return sess, nil
}

// End ends a session
func (m *Manager) End(sessionID string) {
	val, ok := m.sessions.LoadAndDelete(sessionID)
	if !ok {
		return
	}

	sess := val.(*Session)
	sess.endOnce.Do(func() {
		sess.unsub()
		close(sess.done)
	})

	if m.onEnd != nil {
		m.onEnd(sess)
	}
}

// Terminate disconnects a session's transport, which ends the session.
func (m *Manager) Terminate(sessionID string) bool {
	val, ok := m.sessions.Load(sessionID)
	if !ok {
		return false
	}

	sess := val.(*Session)
	if err := sess.Close(); err != nil {
		sess.log.WithError(err).Warn("disconnect failed")
	}
	// A transport that never connected publishes nothing.
	m.End(sessionID)
	return true
}

// Get returns a session by ID
func (m *Manager) Get(sessionID string) (*Session, bool) {
	val, ok := m.sessions.Load(sessionID)
	if !ok {
		return nil, false
	}
	return val.(*Session), true
}

// List returns all active sessions, oldest first.
func (m *Manager) List() []*Session {
	var sessions []*Session
	m.sessions.Range(func(key, value any) bool {
		sessions = append(sessions, value.(*Session))
		return true
	})
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.Before(sessions[j].StartedAt)
	})
	return sessions
}

// Count returns number of active sessions
func (m *Manager) Count() int {
	count := 0
	m.sessions.Range(func(key, value any) bool {
		count++
		return true
	})
	return count
}

// Total returns the number of sessions created since start.
func (m *Manager) Total() uint64 {
	return atomic.LoadUint64(&m.total)
}

// ListInfo returns session info for API
func (m *Manager) ListInfo() []SessionInfo {
	var infos []SessionInfo
	for _, sess := range m.List() {
		infos = append(infos, sess.Info())
	}
	return infos
}
