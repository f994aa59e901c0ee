// Package telnet separates a Telnet byte stream into application payload and
// option negotiation, and produces the replies a terminal client owes the
// server. The Engine is synchronous: the caller feeds it each chunk read from
// the socket and writes back whatever replies it returns.
package telnet

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"

	"github.com/sirupsen/logrus"

	"git2.jad.ru/MeterRS485/vtconnect/internal/log"
)

// maxCarry bounds an unterminated subnegotiation held across reads.
const maxCarry = 16 << 10

// Config controls what the engine reports about the terminal.
type Config struct {
	TerminalType  string // default "XTERM"
	TerminalSpeed string // default "38400,38400"
	Columns       int    // default 80
	Rows          int    // default 25

	// ComPort enables COM-PORT-OPTION negotiation (RFC-2217).
	ComPort *ComPortSettings
}

// Result is the outcome of processing one chunk.
type Result struct {
	// Payload holds contiguous runs of application data in arrival order.
	Payload [][]byte
	// Replies are bytes to send back to the server.
	Replies []byte
}

// Engine is a Telnet client negotiation engine. It is not safe for
// concurrent use; a transport owns one per connection.
type Engine struct {
	cfg   Config
	opts  OptionTable
	carry []byte
	cols  int
	rows  int

	comPortAcks map[byte]ComPortCommand

	log *logrus.Entry
}

// NewEngine creates an engine, filling unset Config fields with defaults.
func NewEngine(cfg Config) *Engine {
	if cfg.TerminalType == "" {
		cfg.TerminalType = "XTERM"
	}
	if cfg.TerminalSpeed == "" {
		cfg.TerminalSpeed = "38400,38400"
	}
	if cfg.Columns <= 0 {
		cfg.Columns = 80
	}
	if cfg.Rows <= 0 {
		cfg.Rows = 25
	}
	return &Engine{
		cfg:         cfg,
		cols:        cfg.Columns,
		rows:        cfg.Rows,
		comPortAcks: make(map[byte]ComPortCommand),
		log:         log.For("telnet"),
	}
}

// Handshake returns the capabilities announced right after connecting.
func (e *Engine) Handshake() []byte {
	var out []byte
	for _, opt := range []byte{OptWindowSize, OptTerminalSpeed, OptTerminalType, OptNewEnviron} {
		out = append(out, IAC, WILL, opt)
	}
	out = append(out, IAC, DO, OptEcho)
	out = append(out, IAC, WILL, OptSuppressGoAhead)
	out = append(out, IAC, DO, OptSuppressGoAhead)
	if e.cfg.ComPort != nil {
		out = append(out, IAC, WILL, OptComPort)
	}
	return out
}

// Local returns the negotiated state of an option we perform.
func (e *Engine) Local(opt byte) OptionState { return e.opts.Local(opt) }

// Remote returns the negotiated state of an option the server performs.
func (e *Engine) Remote(opt byte) OptionState { return e.opts.Remote(opt) }

// Pending returns the number of carried-over bytes.
func (e *Engine) Pending() int { return len(e.carry) }

// Reset discards negotiation state and any partial frame.
func (e *Engine) Reset() {
	e.opts.reset()
	e.carry = nil
	e.comPortAcks = make(map[byte]ComPortCommand)
}

// ComPortStatus returns the last acknowledgement received per COM-PORT
// command, in command order.
func (e *Engine) ComPortStatus() []ComPortCommand {
	var out []ComPortCommand
	for code := ComServerOffset; code <= ComServerOffset+ComPurgeData; code++ {
		if c, ok := e.comPortAcks[code]; ok {
			out = append(out, c)
		}
	}
	return out
}

// WindowSize records the terminal size and returns the NAWS report to send,
// or nil if the server has not asked for window size reports.
func (e *Engine) WindowSize(cols, rows int) []byte {
	e.cols, e.rows = cols, rows
	if e.opts.Local(OptWindowSize) != StateEnabled {
		return nil
	}
	return e.windowSizeReport()
}

func (e *Engine) windowSizeReport() []byte {
	var data [4]byte
	binary.BigEndian.PutUint16(data[0:], clamp16(e.cols))
	binary.BigEndian.PutUint16(data[2:], clamp16(e.rows))
	return Subnegotiation(OptWindowSize, data[:]...)
}

func clamp16(v int) uint16 {
	switch {
	case v < 0:
		return 0
	case v > 0xffff:
		return 0xffff
	}
	return uint16(v)
}

// Process classifies a chunk read from the socket. Frames cut off at the
// end of the chunk are kept and completed by the next call. A
// *ProtocolError stops processing; the Result then holds what was decoded
// before it.
func (e *Engine) Process(chunk []byte) (Result, error) {
	data := make([]byte, 0, len(e.carry)+len(chunk))
	data = append(data, e.carry...)
	data = append(data, chunk...)
	e.carry = nil

	var res Result
	var replies bytes.Buffer
	flush := func(from, to int) {
		if to > from {
			res.Payload = append(res.Payload, data[from:to])
		}
	}

	start := 0
	i := 0
	for i < len(data) {
		if data[i] != IAC {
			i++
			continue
		}
		flush(start, i)
		start = i

		if i+1 >= len(data) {
			e.carry = append(e.carry, data[i:]...)
			start = len(data)
			break
		}

		cmd := data[i+1]
		switch cmd {
		case DO, DONT, WILL, WONT:
			if i+2 >= len(data) {
				e.carry = append(e.carry, data[i:]...)
				break
			}
			e.negotiate(cmd, data[i+2], &replies)
			i += 3
			start = i
			continue

		case SB:
			block, end, ok := subnegotiationBlock(data, i+2)
			if !ok {
				e.carry = append(e.carry, data[i:]...)
				if len(e.carry) > maxCarry {
					e.carry = nil
					res.Replies = replies.Bytes()
					return res, &ProtocolError{Option: data[i+2], Reason: "subnegotiation too long"}
				}
				break
			}
			if err := e.subnegotiate(block, &replies); err != nil {
				res.Replies = replies.Bytes()
				return res, err
			}
			i = end
			start = i
			continue

		case IAC:
			// Escaped 0xFF: the second IAC starts the next payload run.
			start = i + 1
			i += 2
			continue

		default:
			e.log.Debugf("ignoring command %s", CommandName(cmd))
			i += 2
			start = i
			continue
		}
		// A frame was carried over.
		start = len(data)
		i = len(data)
	}
	flush(start, len(data))

	res.Replies = replies.Bytes()
	return res, nil
}

// subnegotiationBlock finds IAC SE starting at from and returns the
// unescaped bytes between SB and the terminating IAC, and the index just
// past SE.
func subnegotiationBlock(data []byte, from int) ([]byte, int, bool) {
	var block []byte
	for j := from; j < len(data); j++ {
		if data[j] != IAC {
			block = append(block, data[j])
			continue
		}
		if j+1 >= len(data) {
			return nil, 0, false
		}
		switch data[j+1] {
		case SE:
			return block, j + 2, true
		case IAC:
			block = append(block, IAC)
			j++
		default:
			block = append(block, data[j])
		}
	}
	return nil, 0, false
}

func (e *Engine) negotiate(cmd, opt byte, out *bytes.Buffer) {
	e.log.Debugf("received %s %s", CommandName(cmd), OptionName(opt))

	switch cmd {
	case DO:
		switch {
		case opt == OptWindowSize:
			e.opts.setLocal(opt, true)
			out.Write(e.windowSizeReport())
		case opt == OptTerminalSpeed, opt == OptTerminalType, opt == OptNewEnviron, opt == OptSuppressGoAhead:
			// Already announced with WILL.
			e.opts.setLocal(opt, true)
		case opt == OptComPort && e.cfg.ComPort != nil:
			e.opts.setLocal(opt, true)
			for _, c := range e.cfg.ComPort.Commands() {
				e.log.Debugf("request %s", c)
				out.Write(c.Bytes())
			}
		default:
			e.opts.setLocal(opt, false)
			out.Write(Command(WONT, opt))
		}

	case DONT:
		if e.opts.Local(opt) != StateDisabled {
			out.Write(Command(WONT, opt))
		}
		e.opts.setLocal(opt, false)

	case WILL:
		e.opts.setRemote(opt, true)

	case WONT:
		e.opts.setRemote(opt, false)
	}
}

func (e *Engine) subnegotiate(block []byte, out *bytes.Buffer) error {
	if len(block) < 2 {
		e.log.Debugf("short subnegotiation: %s", hex.EncodeToString(block))
		return nil
	}
	opt := block[0]

	if opt == OptComPort && e.cfg.ComPort != nil && block[1] >= ComServerOffset {
		c := ComPortCommand{Command: block[1], Data: append([]byte(nil), block[2:]...)}
		e.comPortAcks[c.Command] = c
		e.log.Debugf("server %s", c)
		return nil
	}

	if block[1] != SEND {
		e.log.Debugf("ignoring subnegotiation %s: %s", OptionName(opt), hex.EncodeToString(block[1:]))
		return nil
	}

	switch opt {
	case OptTerminalType:
		out.Write(Subnegotiation(opt, append([]byte{IS}, e.cfg.TerminalType...)...))
	case OptTerminalSpeed:
		out.Write(Subnegotiation(opt, append([]byte{IS}, e.cfg.TerminalSpeed...)...))
	case OptNewEnviron:
		out.Write(Subnegotiation(opt, IS))
	case OptBinary:
		return &ProtocolError{Option: opt, Reason: "binary transmission is not implemented"}
	default:
		return &ProtocolError{Option: opt, Reason: "unsupported subnegotiation"}
	}
	return nil
}
