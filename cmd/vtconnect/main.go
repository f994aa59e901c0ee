package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"git2.jad.ru/MeterRS485/vtconnect/internal/api"
	"git2.jad.ru/MeterRS485/vtconnect/internal/config"
	"git2.jad.ru/MeterRS485/vtconnect/internal/escape"
	"git2.jad.ru/MeterRS485/vtconnect/internal/log"
	"git2.jad.ru/MeterRS485/vtconnect/internal/session"
	"git2.jad.ru/MeterRS485/vtconnect/internal/transport"
)

// Build-time variables (set via ldflags)
var (
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "vtconnect:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := config.New()
	var configFile string

	cmd := &cobra.Command{
		Use:   "vtconnect [flags] <uri>",
		Short: "vtconnect attaches the local terminal to a remote or local shell.",
		Long: `vtconnect connects the local terminal to a destination and decodes the
terminal stream it receives. Supported destinations:

  telnet://host[:23]
  rfc2217://host[:23]?baud=9600&mode=8N1
  ssh://[user@]host[:22]
  serial://ttyUSB0?baud=115200&mode=8N1
  local:///bin/bash?arg=-l`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit %s)", BuildDate, GitCommit),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ReadFile(v, configFile); err != nil {
				return err
			}
			return config.BindFlags(v, cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v)
			if err != nil {
				return err
			}
			if err := log.Setup(cfg.LogLevel, cfg.Debug); err != nil {
				return err
			}
			fixed := cmd.Flags().Changed(config.KeyColumns) || cmd.Flags().Changed(config.KeyRows) ||
				os.Getenv(config.EnvPrefix+"_COLS") != "" || os.Getenv(config.EnvPrefix+"_ROWS") != ""
			return run(cmd.Context(), cfg, fixed, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configFile, "config", "", "config file (default $HOME/.vtconnect.yaml)")
	flags.StringP(config.KeyUser, "u", "", "user name for ssh")
	flags.StringP(config.KeyPassword, "p", "", "password for ssh (prompted when empty)")
	flags.Int(config.KeyColumns, 80, "window columns when stdin is not a terminal")
	flags.Int(config.KeyRows, 25, "window rows when stdin is not a terminal")
	flags.String(config.KeyTerminalType, "XTERM", "terminal type sent to telnet servers")
	flags.String(config.KeyTerminalSpeed, "38400,38400", "terminal speed sent to telnet servers")
	flags.Bool(config.KeyUTF8, true, "decode the stream as UTF-8")
	flags.Duration(config.KeyConnectTimeout, 10*time.Second, "connect timeout")
	flags.Bool(config.KeyKeepAlive, true, "enable TCP keepalive")
	flags.Duration(config.KeyKeepAliveIdle, 30*time.Second, "TCP keepalive idle time")
	flags.Duration(config.KeyNOPInterval, 0, "send telnet NOP after this much idle time")
	flags.Int(config.KeyProxyProtocol, 0, "send a PROXY protocol header (1 or 2) to telnet servers")
	flags.String(config.KeyStatusAddr, "", "serve the status API on this address")
	flags.String(config.KeyStatusUser, "admin", "status API user")
	flags.String(config.KeyStatusPass, "admin", "status API password")
	flags.String(config.KeyLogLevel, "info", "log level")
	flags.Bool(config.KeyDebug, false, "dump traffic")
	flags.Bool(config.KeyTrace, false, "log every decoded command")
	return cmd
}

// run connects to uri and bridges the local terminal until either side ends.
// fixedSize keeps the configured window size instead of the terminal's.
func run(ctx context.Context, cfg *config.Config, fixedSize bool, uri string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := log.For("main")
	ctx = log.WithLogger(ctx, log.L.WithField("pid", os.Getpid()))
	logger.Debugf("vtconnect starting (build: %s, commit: %s)", BuildDate, GitCommit)

	stdin := int(os.Stdin.Fd())
	interactive := term.IsTerminal(stdin)
	if interactive && !fixedSize {
		if cols, rows, err := term.GetSize(stdin); err == nil {
			cfg.Columns, cfg.Rows = cols, rows
		}
	}

	creds := cfg.Credentials()
	if strings.HasPrefix(strings.ToLower(uri), "ssh:") && cfg.Password == "" && interactive {
		pw, err := readPassword()
		if err != nil {
			return err
		}
		creds = transport.Password{Username: cfg.User, Password: pw}
	}

	sessions := session.NewManager(cfg.Debug, cfg.UTF8)
	sessions.SetOutput(os.Stdout)
	sessions.SetCallbacks(
		func(s *session.Session) {
			logger.Debugf("session started: id=%s destination=%s", s.ID, s.Destination.Redacted())
		},
		func(s *session.Session) {
			logger.Debugf("session ended: id=%s bytes_in=%d bytes_out=%d commands=%d",
				s.ID, s.BytesIn, s.BytesOut, s.Commands)
		},
	)

	if cfg.Trace {
		trace := log.For("trace")
		sessions.SetCommandHook(func(seq escape.Sequence) {
			trace.Info(seq.String())
		})
	}

	if cfg.StatusAddr != "" {
		srv := api.NewServer(cfg, sessions)
		go func() {
			if err := srv.Start(ctx); err != nil {
				logger.WithError(err).Error("status API stopped")
			}
		}()
	}

	opts := cfg.TransportOptions()
	opts.OnHostKey = func(host, fp string) bool {
		logger.Infof("accepting host key %s for %s", fp, host)
		return true
	}

	screen := newTitleTracker()
	sess, err := sessions.Dial(ctx, uri, creds, opts, screen)
	if err != nil {
		return err
	}
	defer sess.Close()

	if interactive {
		state, err := term.MakeRaw(stdin)
		if err != nil {
			return errors.Wrap(err, "raw mode")
		}
		defer term.Restore(stdin, state)
		stopResize := watchResize(stdin, sess)
		defer stopResize()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	pumpErr := make(chan error, 1)
	go func() {
		_, err := sess.Pump(os.Stdin)
		pumpErr <- err
	}()

	defer func() {
		if title := screen.Title(); title != "" {
			logger.Debugf("last window title %q", title)
		}
	}()

	for {
		select {
		case <-sess.Done():
			return nil
		case err := <-pumpErr:
			// Input ended; keep showing output until the peer hangs up.
			pumpErr = nil
			if err != nil && sess.Transport().IsConnected() {
				return err
			}
		case sig := <-sigCh:
			logger.Debugf("received signal %v, disconnecting", sig)
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "read password")
	}
	return string(pw), nil
}
