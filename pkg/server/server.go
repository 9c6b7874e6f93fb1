// Package server runs component trees over WebSocket sessions: the initial
// page is rendered as HTML, and every subsequent change travels as patches.
package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/arbor-ui/arbor/pkg/component"
	"github.com/arbor-ui/arbor/pkg/metrics"
	"github.com/arbor-ui/arbor/pkg/vdom"
)

// Server serves one root component to any number of sessions.
type Server struct {
	config   Config
	registry *component.Registry
	rootName string
	tracer   trace.Tracer
	upgrader websocket.Upgrader
	httpSrv  *http.Server
}

// New builds a server for the given registry and root component name.
func New(registry *component.Registry, rootName string, opts ...Option) *Server {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	metrics.Init()

	s := &Server{
		config:   config,
		registry: registry,
		rootName: rootName,
		tracer:   otel.Tracer(config.TracerName),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Sessions are same-origin in production; deployments that
			// need stricter checks wrap the handler.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	return s
}

// Handler returns the HTTP routes: the rendered page, the WebSocket
// endpoint, health, and metrics.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/ws", s.handleWS)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// ListenAndServe blocks serving HTTP until the context is canceled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:    s.config.Addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.config.Logger.Info("listening", "addr", s.config.Addr, "root", s.rootName)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// handleIndex serves the first paint: the root component rendered to HTML
// plus the client bootstrap.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tree, err := s.renderOnce()
	if err != nil {
		s.config.Logger.Error("index render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexPage, RenderHTML(tree))
}

// renderOnce expands the root tree outside any session, for the initial
// HTML response. The throwaway instances unmount immediately.
func (s *Server) renderOnce() (tree *vdom.VNode, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	sess := newSession("ssr", nil, s.config, s.registry, s.rootName, s.tracer)
	sess.seen = make(map[string]bool)
	tree = sess.expand(vdom.Component(s.rootName, nil), "")
	sess.unmountAll()
	return tree, nil
}

// RenderPage renders the root component into the full index page, the same
// HTML handleIndex serves. Used for static snapshots.
func RenderPage(registry *component.Registry, rootName string, opts ...Option) (string, error) {
	s := New(registry, rootName, opts...)
	tree, err := s.renderOnce()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(indexPage, RenderHTML(tree)), nil
}

// handleWS upgrades the connection and starts a session.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.config.Logger.Error("upgrade failed", "error", err)
		return
	}

	id := newSessionID()
	s.config.Logger.Info("session started", "session", id, "remote", r.RemoteAddr)

	sess := newSession(id, conn, s.config, s.registry, s.rootName, s.tracer)
	sess.Start()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func newSessionID() string {
	var b [8]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

const indexPage = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>arbor</title></head>
<body>
<div id="app">%s</div>
<script src="/client.js" defer></script>
</body>
</html>
`
