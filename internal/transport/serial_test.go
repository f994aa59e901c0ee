package transport

import (
	"context"
	"net/url"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"
)

func TestPortName(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("device paths differ on windows")
	}
	cases := map[string]string{
		"serial://ttyUSB0?baud=115200": "/dev/ttyUSB0",
		"serial:///dev/ttyS1":          "/dev/ttyS1",
		"serial:ttyACM0":               "/dev/ttyACM0",
		"serial://":                    "",
	}
	for raw, want := range cases {
		dest, err := url.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, want, portName(dest), raw)
	}
}

func TestSerialMode(t *testing.T) {
	mode, err := serialMode(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, &serial.Mode{BaudRate: 9600, DataBits: 8, Parity: serial.NoParity, StopBits: serial.OneStopBit}, mode)

	mode, err = serialMode(url.Values{"baud": {"115200"}, "mode": {"7E2"}})
	require.NoError(t, err)
	assert.Equal(t, &serial.Mode{BaudRate: 115200, DataBits: 7, Parity: serial.EvenParity, StopBits: serial.TwoStopBits}, mode)

	_, err = serialMode(url.Values{"mode": {"9Z1"}})
	assert.Error(t, err)
	_, err = serialMode(url.Values{"baud": {"fast"}})
	assert.Error(t, err)
}

func TestSerialOpenFailure(t *testing.T) {
	tr := NewSerial(Options{})
	var got collector
	got.attach(tr)

	err := tr.Connect(context.Background(), &url.URL{Scheme: "serial", Path: "/dev/vtconnect-missing"}, nil)
	assert.Error(t, err)
	assert.False(t, tr.IsConnected())
	assert.Empty(t, got.States())
	assert.ErrorIs(t, tr.Send([]byte("x")), ErrNotConnected)

	err = tr.Connect(context.Background(), &url.URL{Scheme: "serial"}, nil)
	assert.Error(t, err)
}
