package transport

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git2.jad.ru/MeterRS485/vtconnect/internal/log"
)

// pipeConn attaches one io.Pipe connection to l and starts its read loop.
func pipeConn(l *link) (gen uint64, w *io.PipeWriter, done <-chan struct{}) {
	pr, pw := io.Pipe()
	gen = l.attach(pr.Close)
	ch := make(chan struct{})
	go func() {
		l.readLoop(gen, pr, l.deliverCopy)
		close(ch)
	}()
	return gen, pw, ch
}

func TestLinkReconnectIgnoresStaleReadLoop(t *testing.T) {
	l := &link{log: log.For("test")}
	var mu sync.Mutex
	var states []StateChange
	l.Subscribe(func(sc StateChange) {
		mu.Lock()
		states = append(states, sc)
		mu.Unlock()
	})

	first, _, firstDone := pipeConn(l)
	require.NoError(t, l.Disconnect())
	second, w, _ := pipeConn(l)
	assert.NotEqual(t, first, second)

	select {
	case <-firstDone:
	case <-time.After(2 * time.Second):
		t.Fatal("first read loop did not exit")
	}
	assert.True(t, l.IsConnected())
	assert.True(t, l.current(second))
	assert.False(t, l.current(first))

	// A teardown for the old generation is ignored too.
	require.NoError(t, l.teardown(first, io.ErrUnexpectedEOF))
	assert.True(t, l.IsConnected())

	mu.Lock()
	require.Len(t, states, 3)
	for i, want := range []bool{true, false, true} {
		assert.Equal(t, want, states[i].Connected, i)
		assert.NoError(t, states[i].Err, i)
	}
	mu.Unlock()

	w.Close()
	require.Eventually(t, func() bool { return !l.IsConnected() }, 2*time.Second, 10*time.Millisecond)
}

func TestLinkStaleReadLoopDeliversNothing(t *testing.T) {
	l := &link{log: log.For("test")}
	data := make(chan string, 4)
	l.OnData(func(p []byte) { data <- string(p) })

	// The release func leaves the pipe open, so the old loop is still
	// reading when the next connection attaches.
	pr, pw := io.Pipe()
	gen := l.attach(func() error { return nil })
	done := make(chan struct{})
	go func() {
		l.readLoop(gen, pr, l.deliverCopy)
		close(done)
	}()

	_, err := pw.Write([]byte("one"))
	require.NoError(t, err)
	assert.Equal(t, "one", <-data)

	require.NoError(t, l.Disconnect())
	l.attach(func() error { return nil })

	_, err = pw.Write([]byte("two"))
	require.NoError(t, err)
	<-done
	assert.Empty(t, data)
	assert.True(t, l.IsConnected())
}
