package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"git2.jad.ru/MeterRS485/vtconnect/internal/transport"
)

// EnvPrefix prefixes every environment variable: VTCONNECT_COLS, ...
const EnvPrefix = "VTCONNECT"

// Keys, shared by flags, environment and the config file.
const (
	KeyUser           = "user"
	KeyPassword       = "password"
	KeyColumns        = "cols"
	KeyRows           = "rows"
	KeyTerminalType   = "term"
	KeyTerminalSpeed  = "speed"
	KeyUTF8           = "utf8"
	KeyConnectTimeout = "connect-timeout"
	KeyKeepAlive      = "keepalive"
	KeyKeepAliveIdle  = "keepalive-idle"
	KeyNOPInterval    = "nop-interval"
	KeyProxyProtocol  = "proxy-protocol"
	KeyStatusAddr     = "status-addr"
	KeyStatusUser     = "status-user"
	KeyStatusPass     = "status-pass"
	KeyLogLevel       = "log-level"
	KeyDebug          = "debug"
	KeyTrace          = "trace"
)

type Config struct {
	User           string
	Password       string
	Columns        int
	Rows           int
	TerminalType   string
	TerminalSpeed  string
	UTF8           bool
	ConnectTimeout time.Duration
	KeepAlive      bool
	KeepAliveIdle  time.Duration
	NOPInterval    time.Duration // Telnet NOP when the link is idle; 0 disables
	ProxyProtocol  int           // PROXY header version sent after dial; 0 disables
	StatusAddr     string        // status API listen address; empty disables
	StatusUser     string
	StatusPass     string
	LogLevel       string
	Debug          bool
	Trace          bool
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyColumns, 80)
	v.SetDefault(KeyRows, 25)
	v.SetDefault(KeyTerminalType, "XTERM")
	v.SetDefault(KeyTerminalSpeed, "38400,38400")
	v.SetDefault(KeyUTF8, true)
	v.SetDefault(KeyConnectTimeout, 10*time.Second)
	v.SetDefault(KeyKeepAlive, true)
	v.SetDefault(KeyKeepAliveIdle, 30*time.Second)
	v.SetDefault(KeyNOPInterval, time.Duration(0))
	v.SetDefault(KeyProxyProtocol, 0)
	v.SetDefault(KeyStatusUser, "admin")
	v.SetDefault(KeyStatusPass, "admin")
	v.SetDefault(KeyLogLevel, "info")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags makes set flags override the environment and config file.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	return errors.Wrap(v.BindPFlags(fs), "bind flags")
}

// ReadFile reads file, or $HOME/.vtconnect.yaml when file is empty. A
// missing default file is not an error.
func ReadFile(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
		return errors.Wrapf(v.ReadInConfig(), "read config %s", file)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	path := filepath.Join(home, ".vtconnect.yaml")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	v.SetConfigFile(path)
	return errors.Wrapf(v.ReadInConfig(), "read config %s", path)
}

func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		User:           v.GetString(KeyUser),
		Password:       v.GetString(KeyPassword),
		Columns:        v.GetInt(KeyColumns),
		Rows:           v.GetInt(KeyRows),
		TerminalType:   v.GetString(KeyTerminalType),
		TerminalSpeed:  v.GetString(KeyTerminalSpeed),
		UTF8:           v.GetBool(KeyUTF8),
		ConnectTimeout: v.GetDuration(KeyConnectTimeout),
		KeepAlive:      v.GetBool(KeyKeepAlive),
		KeepAliveIdle:  v.GetDuration(KeyKeepAliveIdle),
		NOPInterval:    v.GetDuration(KeyNOPInterval),
		ProxyProtocol:  v.GetInt(KeyProxyProtocol),
		StatusAddr:     v.GetString(KeyStatusAddr),
		StatusUser:     v.GetString(KeyStatusUser),
		StatusPass:     v.GetString(KeyStatusPass),
		LogLevel:       v.GetString(KeyLogLevel),
		Debug:          v.GetBool(KeyDebug),
		Trace:          v.GetBool(KeyTrace),
	}
	if cfg.Columns <= 0 || cfg.Rows <= 0 {
		return nil, errors.Errorf("invalid window size %dx%d", cfg.Columns, cfg.Rows)
	}
	switch cfg.ProxyProtocol {
	case 0, 1, 2:
	default:
		return nil, errors.Errorf("invalid proxy protocol version %d", cfg.ProxyProtocol)
	}
	return cfg, nil
}

// TransportOptions maps the configuration onto transport options.
func (c *Config) TransportOptions() transport.Options {
	return transport.Options{
		Columns:        c.Columns,
		Rows:           c.Rows,
		TerminalType:   c.TerminalType,
		TerminalSpeed:  c.TerminalSpeed,
		ConnectTimeout: c.ConnectTimeout,
		KeepAlive:      c.KeepAlive,
		KeepAliveIdle:  c.KeepAliveIdle,
		NOPInterval:    c.NOPInterval,
		ProxyProtocol:  c.ProxyProtocol,
	}
}

// Credentials returns password credentials, or nil when no user is set.
func (c *Config) Credentials() transport.Credentials {
	if c.User == "" && c.Password == "" {
		return nil
	}
	return transport.Password{Username: c.User, Password: c.Password}
}
