package api

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git2.jad.ru/MeterRS485/vtconnect/internal/config"
	"git2.jad.ru/MeterRS485/vtconnect/internal/controller"
	"git2.jad.ru/MeterRS485/vtconnect/internal/session"
	"git2.jad.ru/MeterRS485/vtconnect/internal/transport"
)

func testServer(t *testing.T) (*Server, *session.Manager) {
	t.Helper()
	cfg := &config.Config{StatusUser: "admin", StatusPass: "s3cret"}
	sessions := session.NewManager(false, true)
	return NewServer(cfg, sessions), sessions
}

func addSession(t *testing.T, m *session.Manager, raw string) *session.Session {
	t.Helper()
	dest, err := url.Parse(raw)
	require.NoError(t, err)
	return m.Create(dest, transport.NewTelnet(transport.Options{}), controller.Nop{})
}

func do(t *testing.T, h http.Handler, method, path string, auth bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if auth {
		req.SetBasicAuth("admin", "s3cret")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/healthz", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/readyz", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready"}`, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/healthz", false)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListSessions(t *testing.T) {
	srv, m := testServer(t)
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/api/v1/sessions", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"count":0,"sessions":[]}`, rec.Body.String())

	sess := addSession(t, m, "telnet://10.1.2.3:2323")

	var resp SessionsResponse
	rec = do(t, h, http.MethodGet, "/api/v1/sessions", false)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, sess.ID, resp.Sessions[0].ID)
	assert.Equal(t, "telnet", resp.Sessions[0].Scheme)
	assert.Equal(t, "telnet://x.x.x.x", resp.Sessions[0].Destination)
	assert.False(t, resp.Sessions[0].Connected)

	rec = do(t, h, http.MethodGet, "/api/v1/sessions", true)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "telnet://10.1.2.3:2323", resp.Sessions[0].Destination)
}

func TestGetSession(t *testing.T) {
	srv, m := testServer(t)
	h := srv.Handler()
	sess := addSession(t, m, "ssh://root@10.1.2.3")

	rec := do(t, h, http.MethodGet, "/api/v1/sessions/"+sess.ID, true)
	require.Equal(t, http.StatusOK, rec.Code)
	var info session.SessionInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, sess.ID, info.ID)
	assert.Equal(t, "ssh://root@10.1.2.3", info.Destination)

	rec = do(t, h, http.MethodGet, "/api/v1/sessions/nope", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTerminateSession(t *testing.T) {
	srv, m := testServer(t)
	h := srv.Handler()
	sess := addSession(t, m, "telnet://10.1.2.3")

	rec := do(t, h, http.MethodDelete, "/api/v1/sessions/"+sess.ID, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
	assert.Equal(t, 1, m.Count())

	rec = do(t, h, http.MethodDelete, "/api/v1/sessions/"+sess.ID, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"terminated"}`, rec.Body.String())
	assert.Equal(t, 0, m.Count())

	rec = do(t, h, http.MethodDelete, "/api/v1/sessions/"+sess.ID, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStats(t *testing.T) {
	srv, m := testServer(t)
	h := srv.Handler()
	addSession(t, m, "telnet://a")
	gone := addSession(t, m, "telnet://b")
	m.End(gone.ID)

	rec := do(t, h, http.MethodGet, "/api/v1/stats", false)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.SessionsActive)
	assert.EqualValues(t, 2, resp.SessionsTotal)
}

func TestMaskDestination(t *testing.T) {
	assert.Equal(t, "ssh://x.x.x.x", maskDestination("ssh://root@10.1.2.3:22"))
	assert.Equal(t, "serial://x.x.x.x", maskDestination("serial://ttyUSB0"))
	assert.Equal(t, "x.x.x.x", maskDestination(""))
}

func TestServeShutdown(t *testing.T) {
	srv, _ := testServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
