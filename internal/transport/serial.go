package transport

import (
	"context"
	"net/url"
	"runtime"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.bug.st/serial"

	"git2.jad.ru/MeterRS485/vtconnect/internal/log"
	"git2.jad.ru/MeterRS485/vtconnect/internal/telnet"
)

// Serial is a local serial port (serial://ttyUSB0?baud=115200&mode=8N1).
// The line settings default to 9600 8N1.
type Serial struct {
	link
	opts Options

	mu   sync.Mutex
	port serial.Port
}

// NewSerial returns a serial transport.
func NewSerial(opts Options) *Serial {
	s := &Serial{opts: opts.withDefaults()}
	s.log = log.For("serial")
	return s
}

var serialParity = map[byte]serial.Parity{
	telnet.ParityNone:  serial.NoParity,
	telnet.ParityOdd:   serial.OddParity,
	telnet.ParityEven:  serial.EvenParity,
	telnet.ParityMark:  serial.MarkParity,
	telnet.ParitySpace: serial.SpaceParity,
}

var serialStopBits = map[byte]serial.StopBits{
	telnet.StopBits1:   serial.OneStopBit,
	telnet.StopBits1_5: serial.OnePointFiveStopBits,
	telnet.StopBits2:   serial.TwoStopBits,
}

// serialMode parses the baud and mode query parameters.
func serialMode(q url.Values) (*serial.Mode, error) {
	settings, err := telnet.ParseComPortSettings(q.Get("baud"), q.Get("mode"))
	if err != nil {
		return nil, err
	}
	return &serial.Mode{
		BaudRate: int(settings.BaudRate),
		DataBits: int(settings.DataBits),
		Parity:   serialParity[settings.Parity],
		StopBits: serialStopBits[settings.StopBits],
	}, nil
}

// portName takes the device from the URI host, or from the path when the
// host is empty (serial:///dev/ttyS0). Bare names get /dev/ outside Windows.
func portName(dest *url.URL) string {
	name := dest.Host + dest.Path
	if dest.Opaque != "" {
		name = dest.Opaque
	}
	if name == "" {
		return ""
	}
	if runtime.GOOS != "windows" && !strings.HasPrefix(name, "/") {
		name = "/dev/" + name
	}
	return name
}

// Connect opens the port. Credentials are not used.
func (s *Serial) Connect(ctx context.Context, dest *url.URL, _ Credentials) error {
	if s.IsConnected() {
		return ErrAlreadyConnected
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	name := portName(dest)
	if name == "" {
		return errors.New("serial: missing port name")
	}
	mode, err := serialMode(dest.Query())
	if err != nil {
		return err
	}

	port, err := serial.Open(name, mode)
	if err != nil {
		return errors.Wrapf(err, "open %s", name)
	}
	s.mu.Lock()
	s.port = port
	s.mu.Unlock()
	s.log.Infof("opened %s at %d baud", name, mode.BaudRate)

	gen := s.attach(port.Close)
	go s.readLoop(gen, port, s.deliverCopy)
	return nil
}

// Send writes to the port.
func (s *Serial) Send(p []byte) error {
	s.mu.Lock()
	port := s.port
	s.mu.Unlock()
	if port == nil {
		return ErrNotConnected
	}
	return s.write(port, p)
}

// SetWindowSize does nothing; a serial line has no window size channel.
func (s *Serial) SetWindowSize(_, _, _, _ int) error {
	return nil
}
