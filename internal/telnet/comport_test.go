package telnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComPortHandshake(t *testing.T) {
	settings := DefaultComPort
	e := NewEngine(Config{ComPort: &settings})
	hs := e.Handshake()
	assert.Equal(t, hexDecode(t, "fffb2c"), hs[len(hs)-3:])
}

func TestComPortNegotiation(t *testing.T) {
	settings := ComPortSettings{BaudRate: 2400, DataBits: 8, Parity: ParityNone, StopBits: StopBits1}
	e := NewEngine(Config{ComPort: &settings})

	res, err := e.Process(hexDecode(t, "fffd2c"))
	require.NoError(t, err)
	// SET-BAUDRATE 2400, SET-DATASIZE 8, SET-PARITY NONE, SET-STOPSIZE 1
	want := hexDecode(t, "fffa2c0100000960fff0fffa2c0208fff0fffa2c0301fff0fffa2c0401fff0")
	assert.Equal(t, want, res.Replies)

	res, err = e.Process(hexDecode(t, "fffa2c6500000960fff0fffa2c6608fff0"))
	require.NoError(t, err)
	assert.Empty(t, res.Replies)

	status := e.ComPortStatus()
	require.Len(t, status, 2)
	assert.Equal(t, "ACK SET-BAUDRATE: 2400", status[0].String())
	assert.Equal(t, "ACK SET-DATASIZE: 8 bits", status[1].String())
}

func TestComPortWithoutSettingsRefused(t *testing.T) {
	e := NewEngine(Config{})
	res, err := e.Process(hexDecode(t, "fffd2c"))
	require.NoError(t, err)
	assert.Equal(t, hexDecode(t, "fffc2c"), res.Replies)
}

func TestParseComPortSettings(t *testing.T) {
	tests := []struct {
		baud, mode string
		want       ComPortSettings
		wantErr    bool
	}{
		{"", "", DefaultComPort, false},
		{"115200", "", ComPortSettings{BaudRate: 115200, DataBits: 8, Parity: ParityNone, StopBits: StopBits1}, false},
		{"", "7e2", ComPortSettings{BaudRate: 9600, DataBits: 7, Parity: ParityEven, StopBits: StopBits2}, false},
		{"", "8O1.5", ComPortSettings{BaudRate: 9600, DataBits: 8, Parity: ParityOdd, StopBits: StopBits1_5}, false},
		{"fast", "", ComPortSettings{}, true},
		{"", "9N1", ComPortSettings{}, true},
		{"", "8X1", ComPortSettings{}, true},
		{"", "8N3", ComPortSettings{}, true},
	}
	for _, tt := range tests {
		got, err := ParseComPortSettings(tt.baud, tt.mode)
		if tt.wantErr {
			assert.Error(t, err, "%s/%s", tt.baud, tt.mode)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestComPortCommandString(t *testing.T) {
	tests := []struct {
		cmd  ComPortCommand
		want string
	}{
		{ComPortCommand{Command: ComSetBaudrate, Data: []byte{0, 0, 0x25, 0x80}}, "SET-BAUDRATE: 9600"},
		{ComPortCommand{Command: ComSetParity, Data: []byte{ParityEven}}, "SET-PARITY: EVEN"},
		{ComPortCommand{Command: ComSetStopsize, Data: []byte{StopBits1_5}}, "SET-STOPSIZE: 1.5"},
		{ComPortCommand{Command: ComSetBaudrate}, "SET-BAUDRATE: <invalid>"},
		{ComPortCommand{Command: ComServerOffset + ComNotifyLinestate, Data: []byte{0x60}}, "ACK NOTIFY-LINESTATE: 60"},
		{ComPortCommand{Command: 42, Data: []byte{1}}, "UNKNOWN-42: 01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.cmd.String())
	}
}
