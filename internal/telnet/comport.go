package telnet

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// RFC-2217 subnegotiation commands (client to server)
const (
	ComSignature        byte = 0
	ComSetBaudrate      byte = 1
	ComSetDatasize      byte = 2
	ComSetParity        byte = 3
	ComSetStopsize      byte = 4
	ComSetControl       byte = 5
	ComNotifyLinestate  byte = 6
	ComNotifyModemstate byte = 7
	ComFlowControlSusp  byte = 8
	ComFlowControlRes   byte = 9
	ComSetLinestateMask byte = 10
	ComSetModemMask     byte = 11
	ComPurgeData        byte = 12

	// Server responses use command code + 100
	ComServerOffset byte = 100
)

// Parity values
const (
	ParityNone  byte = 1
	ParityOdd   byte = 2
	ParityEven  byte = 3
	ParityMark  byte = 4
	ParitySpace byte = 5
)

// Stop bits values
const (
	StopBits1   byte = 1
	StopBits2   byte = 2
	StopBits1_5 byte = 3
)

// ComPortSettings is the serial line configuration requested from an
// RFC-2217 access server.
type ComPortSettings struct {
	BaudRate uint32
	DataBits byte
	Parity   byte
	StopBits byte
}

// DefaultComPort is 9600 8N1.
var DefaultComPort = ComPortSettings{BaudRate: 9600, DataBits: 8, Parity: ParityNone, StopBits: StopBits1}

var parityLetters = map[byte]byte{'N': ParityNone, 'O': ParityOdd, 'E': ParityEven, 'M': ParityMark, 'S': ParitySpace}

// ParseComPortSettings parses a baud rate and a mode like "8N1" or "7E1.5".
// Empty strings keep the defaults.
func ParseComPortSettings(baud, mode string) (ComPortSettings, error) {
	s := DefaultComPort
	if baud != "" {
		v, err := strconv.ParseUint(baud, 10, 32)
		if err != nil || v == 0 {
			return s, errors.Errorf("invalid baud rate %q", baud)
		}
		s.BaudRate = uint32(v)
	}
	if mode == "" {
		return s, nil
	}

	mode = strings.ToUpper(mode)
	if len(mode) < 3 || mode[0] < '5' || mode[0] > '8' {
		return s, errors.Errorf("invalid line mode %q", mode)
	}
	parity, ok := parityLetters[mode[1]]
	if !ok {
		return s, errors.Errorf("invalid parity in line mode %q", mode)
	}
	s.DataBits = mode[0] - '0'
	s.Parity = parity
	switch mode[2:] {
	case "1":
		s.StopBits = StopBits1
	case "2":
		s.StopBits = StopBits2
	case "1.5":
		s.StopBits = StopBits1_5
	default:
		return s, errors.Errorf("invalid stop bits in line mode %q", mode)
	}
	return s, nil
}

// Commands returns the SET-* requests for these settings.
func (s ComPortSettings) Commands() []ComPortCommand {
	baud := make([]byte, 4)
	binary.BigEndian.PutUint32(baud, s.BaudRate)
	return []ComPortCommand{
		{Command: ComSetBaudrate, Data: baud},
		{Command: ComSetDatasize, Data: []byte{s.DataBits}},
		{Command: ComSetParity, Data: []byte{s.Parity}},
		{Command: ComSetStopsize, Data: []byte{s.StopBits}},
	}
}

// ComPortCommand is one COM-PORT-OPTION subnegotiation.
type ComPortCommand struct {
	Command byte
	Data    []byte
}

// Bytes encodes the command as IAC SB COM-PORT cmd data IAC SE.
func (c ComPortCommand) Bytes() []byte {
	return Subnegotiation(OptComPort, append([]byte{c.Command}, c.Data...)...)
}

// IsResponse reports whether the command came from the server.
func (c ComPortCommand) IsResponse() bool {
	return c.Command >= ComServerOffset
}

// String returns human-readable description of the command
func (c ComPortCommand) String() string {
	code := c.Command
	prefix := ""
	if c.IsResponse() {
		code -= ComServerOffset
		prefix = "ACK "
	}

	switch code {
	case ComSetBaudrate:
		if len(c.Data) >= 4 {
			return fmt.Sprintf("%sSET-BAUDRATE: %d", prefix, binary.BigEndian.Uint32(c.Data[:4]))
		}
		return prefix + "SET-BAUDRATE: <invalid>"
	case ComSetDatasize:
		if len(c.Data) >= 1 {
			return fmt.Sprintf("%sSET-DATASIZE: %d bits", prefix, c.Data[0])
		}
		return prefix + "SET-DATASIZE: <invalid>"
	case ComSetParity:
		if len(c.Data) >= 1 {
			parity := []string{"REQUEST", "NONE", "ODD", "EVEN", "MARK", "SPACE"}
			if p := int(c.Data[0]); p < len(parity) {
				return fmt.Sprintf("%sSET-PARITY: %s", prefix, parity[p])
			}
			return fmt.Sprintf("%sSET-PARITY: %d", prefix, c.Data[0])
		}
		return prefix + "SET-PARITY: <invalid>"
	case ComSetStopsize:
		if len(c.Data) >= 1 {
			stop := []string{"1", "2", "1.5"}
			if s := int(c.Data[0]); s > 0 && s <= len(stop) {
				return fmt.Sprintf("%sSET-STOPSIZE: %s", prefix, stop[s-1])
			}
			return fmt.Sprintf("%sSET-STOPSIZE: %d", prefix, c.Data[0])
		}
		return prefix + "SET-STOPSIZE: <invalid>"
	case ComNotifyLinestate:
		return fmt.Sprintf("%sNOTIFY-LINESTATE: %s", prefix, hex.EncodeToString(c.Data))
	case ComNotifyModemstate:
		return fmt.Sprintf("%sNOTIFY-MODEMSTATE: %s", prefix, hex.EncodeToString(c.Data))
	case ComSignature:
		return fmt.Sprintf("%sSIGNATURE: %q", prefix, c.Data)
	default:
		return fmt.Sprintf("%sUNKNOWN-%d: %s", prefix, code, hex.EncodeToString(c.Data))
	}
}
