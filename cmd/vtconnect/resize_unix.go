//go:build unix

package main

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"

	"git2.jad.ru/MeterRS485/vtconnect/internal/log"
	"git2.jad.ru/MeterRS485/vtconnect/internal/session"
)

// watchResize forwards SIGWINCH to the session as a window size change.
func watchResize(fd int, sess *session.Session) (stop func()) {
	sigCh := make(chan os.Signal, 1)
	doneCh := make(chan struct{})
	signal.Notify(sigCh, syscall.SIGWINCH)

	go func() {
		for {
			select {
			case <-doneCh:
				return
			case <-sigCh:
				ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
				if err != nil || ws.Col == 0 || ws.Row == 0 {
					continue
				}
				if err := sess.Resize(int(ws.Col), int(ws.Row), int(ws.Xpixel), int(ws.Ypixel)); err != nil {
					log.For("main").WithError(err).Debug("resize failed")
				}
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(doneCh)
	}
}
