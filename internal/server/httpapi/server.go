// Package httpapi exposes the directory service over REST/JSON. Binary
// columns travel bytea-hex encoded; authentication is a bearer JWT on
// every route except signup and login.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"relay/internal/logging"
	"relay/internal/server/repositories/repomanager"
)

// Rate limiting protects the unauthenticated auth endpoints; the values
// are generous enough for interactive use.
const (
	authBurst          = 10
	authRefillInterval = time.Second
)

type Server struct {
	addr     string
	repos    repomanager.RepositoryManager
	log      logging.Logger
	secret   []byte
	tokenTTL time.Duration
	limiter  *IPBuckets
}

func NewServer(addr string, repos repomanager.RepositoryManager, log logging.Logger, secret []byte, tokenTTL time.Duration) *Server {
	return &Server{
		addr:     addr,
		repos:    repos,
		log:      log,
		secret:   secret,
		tokenTTL: tokenTTL,
		limiter:  NewIPBuckets(authBurst, authRefillInterval),
	}
}

// Handler builds the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /api/signup", s.rateLimit(http.HandlerFunc(s.handleSignUp)))
	mux.Handle("POST /api/login", s.rateLimit(http.HandlerFunc(s.handleLogin)))

	authed := http.NewServeMux()
	authed.HandleFunc("POST /api/devices", s.handleCreateDevice)
	authed.HandleFunc("GET /api/devices", s.handleListDevices)
	authed.HandleFunc("GET /api/devices/{id}", s.handleGetDevice)
	authed.HandleFunc("PATCH /api/devices/{id}", s.handlePatchDevice)

	authed.HandleFunc("POST /api/groups", s.handleCreateGroup)
	authed.HandleFunc("GET /api/groups", s.handleListGroups)
	authed.HandleFunc("GET /api/groups/{id}/members", s.handleListGroupMembers)
	authed.HandleFunc("POST /api/groups/{id}/members", s.handleAddGroupMember)

	authed.HandleFunc("POST /api/documents", s.handleCreateDocument)
	authed.HandleFunc("GET /api/documents", s.handleListDocuments)

	authed.HandleFunc("POST /api/document-keys", s.handleInsertDocumentKeys)
	authed.HandleFunc("GET /api/document-keys/{documentID}/{deviceID}", s.handleGetDocumentKey)

	mux.Handle("/api/", s.requireAuth(authed))

	return s.logRequests(mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.log.Info(ctx, "directory service listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
