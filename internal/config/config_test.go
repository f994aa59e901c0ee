package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git2.jad.ru/MeterRS485/vtconnect/internal/transport"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, 80, cfg.Columns)
	assert.Equal(t, 25, cfg.Rows)
	assert.Equal(t, "XTERM", cfg.TerminalType)
	assert.Equal(t, "38400,38400", cfg.TerminalSpeed)
	assert.True(t, cfg.UTF8)
	assert.Equal(t, 10*time.Second, cfg.ConnectTimeout)
	assert.True(t, cfg.KeepAlive)
	assert.Zero(t, cfg.NOPInterval)
	assert.Zero(t, cfg.ProxyProtocol)
	assert.Empty(t, cfg.StatusAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Nil(t, cfg.Credentials())
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("VTCONNECT_COLS", "132")
	t.Setenv("VTCONNECT_NOP_INTERVAL", "45s")
	t.Setenv("VTCONNECT_PROXY_PROTOCOL", "2")
	t.Setenv("VTCONNECT_USER", "meter")
	t.Setenv("VTCONNECT_DEBUG", "true")

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, 132, cfg.Columns)
	assert.Equal(t, 45*time.Second, cfg.NOPInterval)
	assert.Equal(t, 2, cfg.ProxyProtocol)
	assert.True(t, cfg.Debug)
	assert.Equal(t, transport.Password{Username: "meter"}, cfg.Credentials())
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("VTCONNECT_ROWS", "50")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int(KeyRows, 25, "")
	fs.String(KeyTerminalType, "XTERM", "")
	require.NoError(t, fs.Parse([]string{"--rows=60"}))

	v := New()
	require.NoError(t, BindFlags(v, fs))
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Rows)
	assert.Equal(t, "XTERM", cfg.TerminalType)
}

func TestLoadInvalid(t *testing.T) {
	v := New()
	v.Set(KeyColumns, 0)
	_, err := Load(v)
	assert.Error(t, err)

	v = New()
	v.Set(KeyProxyProtocol, 3)
	_, err = Load(v)
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vtconnect.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cols: 100\nterm: VT100\nstatus-addr: 127.0.0.1:9090\n"), 0o600))

	v := New()
	require.NoError(t, ReadFile(v, path))
	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Columns)
	assert.Equal(t, "VT100", cfg.TerminalType)
	assert.Equal(t, "127.0.0.1:9090", cfg.StatusAddr)

	assert.Error(t, ReadFile(New(), filepath.Join(dir, "missing.yaml")))

	t.Setenv("HOME", dir)
	assert.NoError(t, ReadFile(New(), ""))
}

func TestTransportOptions(t *testing.T) {
	cfg := &Config{Columns: 90, Rows: 30, TerminalType: "VT220", KeepAlive: true, KeepAliveIdle: time.Minute, ProxyProtocol: 1}
	opts := cfg.TransportOptions()
	assert.Equal(t, 90, opts.Columns)
	assert.Equal(t, 30, opts.Rows)
	assert.Equal(t, "VT220", opts.TerminalType)
	assert.True(t, opts.KeepAlive)
	assert.Equal(t, time.Minute, opts.KeepAliveIdle)
	assert.Equal(t, 1, opts.ProxyProtocol)
}
