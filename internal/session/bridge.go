package session

import (
	"io"
	"sync/atomic"
)

// Pump copies src (typically the local terminal) into the session until src
// ends, a send fails or the session ends. It returns the bytes sent.
func (s *Session) Pump(src io.Reader) (int64, error) {
	buf := make([]byte, 4096)
	var total int64

	for {
		select {
		case <-s.done:
			return total, nil
		default:
		}

		n, readErr := src.Read(buf)
		if n > 0 {
			if err := s.Send(buf[:n]); err != nil {
				s.log.WithError(err).Debug("input dropped")
				return total, err
			}
			total += int64(n)
		}
		if readErr != nil {
			if readErr == io.EOF {
				readErr = nil
			}
			s.log.Debugf("input closed after %d bytes (in=%d, out=%d)",
				total, atomic.LoadInt64(&s.BytesIn), atomic.LoadInt64(&s.BytesOut))
			return total, readErr
		}
	}
}
