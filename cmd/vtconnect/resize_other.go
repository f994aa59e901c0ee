//go:build !unix

package main

import "git2.jad.ru/MeterRS485/vtconnect/internal/session"

func watchResize(int, *session.Session) func() {
	return func() {}
}
