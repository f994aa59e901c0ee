package session

import (
	"encoding/hex"
	"io"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"git2.jad.ru/MeterRS485/vtconnect/internal/controller"
	"git2.jad.ru/MeterRS485/vtconnect/internal/escape"
	"git2.jad.ru/MeterRS485/vtconnect/internal/transport"
)

// Session binds one transport to one decoder and one dispatcher: payload
// from the transport is decoded and every command is applied in order.
type Session struct {
	ID          string
	Destination *url.URL
	StartedAt   time.Time

	BytesIn      int64 // bytes from the transport
	BytesOut     int64 // bytes sent to the transport
	Commands     int64 // decoded commands
	DecodeErrors int64
	Debug        bool

	// OnCommand, if set, sees every decoded command before it is dispatched.
	// It runs on the transport's read goroutine and must be set before the
	// transport connects.
	OnCommand func(escape.Sequence)

	transport  transport.Transport
	dispatcher *controller.Dispatcher
	output     io.Writer

	mu      sync.Mutex // guards decoder
	decoder *escape.Decoder

	lastActive int64 // unix nanos of the last transfer in either direction
	done       chan struct{}
	endOnce    sync.Once
	unsub      func()
	log        *logrus.Entry
}

// Transport returns the session's transport.
func (s *Session) Transport() transport.Transport {
	return s.transport
}

// Done is closed when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Idle returns the time since the last transfer.
func (s *Session) Idle() time.Duration {
	return time.Since(time.Unix(0, atomic.LoadInt64(&s.lastActive)))
}

// Send writes input (keystrokes, reports) to the transport.
func (s *Session) Send(p []byte) error {
	if err := s.transport.Send(p); err != nil {
		return err
	}
	atomic.AddInt64(&s.BytesOut, int64(len(p)))
	s.touch()
	return nil
}

// Resize reports a new window size to the transport.
func (s *Session) Resize(columns, rows, pixelWidth, pixelHeight int) error {
	return errors.Wrap(s.transport.SetWindowSize(columns, rows, pixelWidth, pixelHeight), "resize")
}

// Close disconnects the transport; the session ends once the transport
// reports the disconnect.
func (s *Session) Close() error {
	return s.transport.Disconnect()
}

func (s *Session) touch() {
	atomic.StoreInt64(&s.lastActive, time.Now().UnixNano())
}

// receive is the transport's data handler.
func (s *Session) receive(p []byte) {
	atomic.AddInt64(&s.BytesIn, int64(len(p)))
	s.touch()
	if s.Debug {
		s.log.Debugf("%d bytes in\n%s", len(p), hex.Dump(p))
	}
	if s.output != nil {
		if _, err := s.output.Write(p); err != nil {
			s.log.WithError(err).Debug("output write failed")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.decoder.Feed(p)
	for {
		seq, err := s.decoder.Next()
		if err == escape.ErrIncomplete {
			return
		}
		if err != nil {
			atomic.AddInt64(&s.DecodeErrors, 1)
			s.log.WithError(err).Warn("decode error")
			continue
		}
		atomic.AddInt64(&s.Commands, 1)
		if s.OnCommand != nil {
			s.OnCommand(seq)
		}
		s.dispatcher.Dispatch(seq)
		if seq.Kind == escape.KindUnicode && (seq.Command == "G" || seq.Command == "@") {
			// ESC % G selects UTF-8, ESC % @ the default 8-bit set.
			s.decoder.SetUTF8(seq.Command == "G")
		}
	}
}

// Info is a snapshot for the status API.
func (s *Session) Info() SessionInfo {
	return SessionInfo{
		ID:           s.ID,
		Scheme:       s.Destination.Scheme,
		Destination:  s.Destination.Redacted(),
		Connected:    s.transport.IsConnected(),
		StartedAt:    s.StartedAt,
		DurationSecs: time.Since(s.StartedAt).Seconds(),
		IdleSecs:     s.Idle().Seconds(),
		BytesIn:      atomic.LoadInt64(&s.BytesIn),
		BytesOut:     atomic.LoadInt64(&s.BytesOut),
		Commands:     atomic.LoadInt64(&s.Commands),
		DecodeErrors: atomic.LoadInt64(&s.DecodeErrors),
	}
}

// SessionInfo is used for API responses
type SessionInfo struct {
	ID           string    `json:"id"`
	Scheme       string    `json:"scheme"`
	Destination  string    `json:"destination"`
	Connected    bool      `json:"connected"`
	StartedAt    time.Time `json:"started_at"`
	DurationSecs float64   `json:"duration_secs"`
	IdleSecs     float64   `json:"idle_secs"`
	BytesIn      int64     `json:"bytes_in"`
	BytesOut     int64     `json:"bytes_out"`
	Commands     int64     `json:"commands"`
	DecodeErrors int64     `json:"decode_errors"`
}
