package api

import (
	"context"
	"crypto/subtle"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"git2.jad.ru/MeterRS485/vtconnect/internal/config"
	"git2.jad.ru/MeterRS485/vtconnect/internal/log"
	"git2.jad.ru/MeterRS485/vtconnect/internal/session"
)

// Server is the HTTP status API server
type Server struct {
	cfg      *config.Config
	handlers *Handlers
	server   *http.Server
	log      *logrus.Entry
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, sessions *session.Manager) *Server {
	s := &Server{
		cfg:      cfg,
		handlers: NewHandlers(cfg, sessions),
		log:      log.For("api"),
	}
	s.server = &http.Server{
		Addr:         cfg.StatusAddr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	h := s.handlers
	r := mux.NewRouter()

	// Health endpoints (no auth)
	r.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet)
	r.HandleFunc("/readyz", h.Readyz).Methods(http.MethodGet)

	// Reads are open, terminate requires auth
	r.HandleFunc("/api/v1/sessions", h.ListSessions).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/sessions/{id}", h.GetSession).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/sessions/{id}", h.TerminateSession).Methods(http.MethodDelete)
	r.HandleFunc("/api/v1/stats", h.Stats).Methods(http.MethodGet)

	return logMiddleware(r, s.log, s.cfg.Debug)
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen %s", s.server.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.log.Infof("server listening on %s", ln.Addr())

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.server.Shutdown(shutdownCtx)
	}()

	err := s.server.Serve(ln)
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// logMiddleware logs HTTP requests when debug is enabled
func logMiddleware(next http.Handler, logger *logrus.Entry, debug bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		if debug {
			logger.Debugf("%s %s %v", r.Method, r.URL.Path, time.Since(start))
		}
	})
}

// checkAuth checks if request has valid basic auth credentials
func checkAuth(r *http.Request, username, password string) bool {
	user, pass, ok := r.BasicAuth()
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1 &&
		subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1
}
