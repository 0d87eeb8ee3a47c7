// Package httpapi is the JSON-over-HTTP surface of the server: session
// cookies, the owner-only entry API, upload grants and the public profile.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/proofolio/proofolio/internal/logging"
	"github.com/proofolio/proofolio/internal/server/services"
)

const (
	// SessionCookie carries the signed session token.
	SessionCookie = "token"

	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Options tune cookie handling.
type Options struct {
	SecureCookies bool
	SessionTTL    time.Duration
}

type HTTPServer struct {
	address  string
	accounts *services.AccountService
	entries  *services.EntryService
	proofs   *services.ProofService
	logger   logging.Logger
	opts     Options
}

func NewHTTPServer(address string, l logging.Logger, as *services.AccountService, es *services.EntryService, ps *services.ProofService, opts Options) *HTTPServer {
	return &HTTPServer{
		address:  address,
		logger:   l.With("module", "http_server"),
		accounts: as,
		entries:  es,
		proofs:   ps,
		opts:     opts,
	}
}

// Handler returns the router with every route mounted.
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)

	r.Get("/healthz", s.health)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.register)
		r.Post("/login", s.login)
		r.Post("/logout", s.logout)

		r.Group(func(r chi.Router) {
			r.Use(s.gate)
			r.Get("/me", s.me)
			r.Get("/handle", s.handle)
		})
	})

	r.Group(func(r chi.Router) {
		r.Use(s.gate)

		r.Get("/entries", s.listEntries)
		r.Post("/entries", s.createEntry)
		r.Get("/entries/{id}", s.getEntry)
		r.Put("/entries/{id}", s.updateEntry)
		r.Delete("/entries/{id}", s.deleteEntry)
		r.Post("/entries/{id}/proofs", s.attachProof)

		r.Post("/uploads/presign", s.presignUpload)
	})

	r.Get("/public/{handle}", s.publicProfile)
	r.Get("/public/{handle}/entries/{id}", s.publicEntry)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
