package transport

import (
	"net"
	"time"

	"github.com/pkg/errors"
)

// SetTCPKeepalive enables keepalive probes on a TCP connection: the first
// after idle, then every interval, giving up after count unanswered probes.
// Other connection types are left alone.
func SetTCPKeepalive(conn net.Conn, idle, interval time.Duration, count int) error {
	tcpConn, ok := conn.(*net.TCPConn)
	if !ok {
		return nil
	}

	err := tcpConn.SetKeepAliveConfig(net.KeepAliveConfig{
		Enable:   true,
		Idle:     idle,
		Interval: interval,
		Count:    count,
	})
	if err != nil {
		return errors.Wrap(err, "keepalive")
	}
	return setUserTimeout(tcpConn, idle+interval*time.Duration(count))
}
