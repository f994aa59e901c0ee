package main

import (
	"sync"

	"git2.jad.ru/MeterRS485/vtconnect/internal/controller"
	"git2.jad.ru/MeterRS485/vtconnect/internal/log"
)

// titleTracker is the controller behind the pass-through client: the local
// terminal renders the raw stream, so only the title stack is kept.
type titleTracker struct {
	controller.Nop

	mu     sync.Mutex
	title  string
	stack  []string
	useUTF bool
}

func newTitleTracker() *titleTracker {
	return &titleTracker{useUTF: true}
}

func (t *titleTracker) SetWindowTitle(title string) {
	t.mu.Lock()
	t.title = title
	t.mu.Unlock()
	log.For("title").Debugf("window title %q", title)
}

func (t *titleTracker) PushXTermWindowTitle() {
	t.mu.Lock()
	t.stack = append(t.stack, t.title)
	t.mu.Unlock()
}

func (t *titleTracker) PopXTermWindowTitle() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n := len(t.stack); n > 0 {
		t.title = t.stack[n-1]
		t.stack = t.stack[:n-1]
	}
}

func (t *titleTracker) SetUTF8() {
	t.mu.Lock()
	t.useUTF = true
	t.mu.Unlock()
}

func (t *titleTracker) SetLatin1() {
	t.mu.Lock()
	t.useUTF = false
	t.mu.Unlock()
}

func (t *titleTracker) IsUTF8() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.useUTF
}

func (t *titleTracker) Title() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.title
}
