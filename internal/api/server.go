// Package api serves the record store, timeline and analytics over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Flyrell/evdash/internal/config"
	"github.com/Flyrell/evdash/internal/logging"
	"github.com/Flyrell/evdash/internal/record"
)

// Server timeouts.
const (
	ReadTimeout     = 10 * time.Second
	WriteTimeout    = 15 * time.Second
	IdleTimeout     = 60 * time.Second
	ShutdownTimeout = 5 * time.Second
	maxBodyBytes    = 1 << 20
)

// Options configures a Server. Zero values fall back to the config defaults.
type Options struct {
	Addr         string
	ClientOrigin string
	Logger       *logging.Logger
	Now          func() time.Time
}

// Server is the REST API.
type Server struct {
	store   *record.Store
	addr    string
	origin  string
	log     *logging.Logger
	now     func() time.Time
	handler http.Handler
}

// New builds a Server over store.
func New(store *record.Store, opts Options) *Server {
	s := &Server{
		store:  store,
		addr:   opts.Addr,
		origin: opts.ClientOrigin,
		log:    opts.Logger,
		now:    opts.Now,
	}
	if s.addr == "" {
		s.addr = config.DefaultAddr
	}
	if s.origin == "" {
		s.origin = config.DefaultClientOrigin
	}
	if s.log == nil {
		s.log = logging.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.log = s.log.With(logging.F("component", "api"))
	s.handler = s.withRequestID(s.withAccessLog(s.withCORS(s.withRecover(s.routes()))))
	return s
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /projects", s.handleListProjects)
	mux.HandleFunc("POST /projects", s.handleCreateProject)
	mux.HandleFunc("PATCH /projects/{id}", s.handleUpdateProject)
	mux.HandleFunc("DELETE /projects/{id}", s.handleDeleteProject)

	mux.HandleFunc("GET /teams", s.handleListTeams)
	mux.HandleFunc("POST /teams", s.handleCreateTeam)
	mux.HandleFunc("PATCH /teams/{id}", s.handleUpdateTeam)
	mux.HandleFunc("DELETE /teams/{id}", s.handleDeleteTeam)

	mux.HandleFunc("GET /milestones", s.handleListMilestones)
	mux.HandleFunc("POST /milestones", s.handleCreateMilestone)
	mux.HandleFunc("PATCH /milestones/{id}", s.handleUpdateMilestone)
	mux.HandleFunc("DELETE /milestones/{id}", s.handleDeleteMilestone)

	mux.HandleFunc("GET /timeline", s.handleTimeline)
	mux.HandleFunc("GET /analytics", s.handleAnalytics)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeNotFound(w)
	})
	return mux
}

// Start listens on the configured address and blocks until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  ReadTimeout,
		WriteTimeout: WriteTimeout,
		IdleTimeout:  IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		s.log.Info("server listening", logging.F("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.log.Info("server stopping")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		return nil
	case err := <-serverErr:
		return fmt.Errorf("serving: %w", err)
	}
}
