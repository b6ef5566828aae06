// Package server exposes the show-finder widget over HTTP: a server-rendered
// page per browser session plus a small JSON API over the catalog client.
package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"

	"github.com/Belphemur/ShowFinder/internal/client"
	"github.com/Belphemur/ShowFinder/internal/render"
	"github.com/Belphemur/ShowFinder/internal/store"
	"github.com/Belphemur/ShowFinder/internal/widget"
)

// DefaultPort is used when no server port is configured.
const DefaultPort = 8080

// Options configures a Server.
type Options struct {
	Client  client.Client
	Store   store.Store
	Summary render.SummaryFilter
	Logger  zerolog.Logger

	// Hub receives widget failures when set.
	Hub *sentry.Hub

	SessionSize int
	SessionTTL  time.Duration
}

// Server routes HTTP requests to the session widgets and the JSON API.
type Server struct {
	client   client.Client
	logger   zerolog.Logger
	sessions *sessions
	handler  http.Handler
}

// New creates a Server. Client, Store and Summary are required.
func New(opts Options) (*Server, error) {
	if opts.Client == nil || opts.Store == nil || opts.Summary == nil {
		return nil, fmt.Errorf("server: client, store and summary filter are required")
	}

	s := &Server{
		client: opts.Client,
		logger: opts.Logger,
	}
	s.sessions = newSessions(opts.SessionSize, opts.SessionTTL, func(id string) (*widget.Controller, error) {
		return widget.New(widget.Options{
			Client:    opts.Client,
			Store:     opts.Store,
			SessionID: id,
			Summary:   opts.Summary,
			Logger:    opts.Logger,
			Hub:       opts.Hub,
		})
	})

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /search", s.handleSearch)
	mux.HandleFunc("POST /shows/{handle}/episodes", s.handleExpand)
	mux.HandleFunc("GET /api/search", s.handleAPISearch)
	mux.HandleFunc("GET /api/shows/{id}/episodes", s.handleAPIEpisodes)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	s.handler = accessLog(opts.Logger, recovery(opts.Logger, mux))
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// Close ends every session.
func (s *Server) Close() {
	s.sessions.purge()
}

// NewHTTPServer wraps h in an http.Server listening on address:port.
func NewHTTPServer(address string, port int, h http.Handler) *http.Server {
	if port == 0 {
		port = DefaultPort
	}
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", address, port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
