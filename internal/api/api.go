// internal/api/api.go
// Provides the HTTP server assembly: routes, NATS wiring, shutdown.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/erilali/chat-relay/internal/auth"
	"github.com/erilali/chat-relay/internal/config"
	"github.com/erilali/chat-relay/internal/hub"
	"github.com/erilali/chat-relay/internal/logger"
)

const (
	httpReadTimeout  = 15 * time.Second
	httpWriteTimeout = 15 * time.Second
	httpIdleTimeout  = 60 * time.Second
)

// Server bundles the HTTP listener, the hub, and the optional NATS
// connection behind one lifecycle.
type Server struct {
	cfg  *config.Config
	hub  *hub.Hub
	nc   *nats.Conn
	http *http.Server
	log  *logger.Logger
}

// New connects the relay's dependencies and prepares the listener.
// NATS is optional: an empty URL disables event publishing, and a
// failed connection logs a warning and continues without it.
func New(cfg *config.Config, log *logger.Logger) *Server {
	var nc *nats.Conn
	if cfg.NATS.URL != "" {
		log.Infof("Connecting to NATS at %s", cfg.NATS.URL)
		conn, err := nats.Connect(cfg.NATS.URL)
		if err != nil {
			log.Errorf("Error connecting to NATS: %v", err)
			log.Warn("Running without NATS connection. Event publishing will be disabled.")
		} else {
			log.Info("Successfully connected to NATS")
			nc = conn
		}
	}

	resolver := auth.NewStaticResolver(cfg.Auth.Tokens)
	events := hub.NewEvents(nc, cfg.NATS.SubjectPrefix, logger.NewLogger("events"))
	h := hub.NewHub(cfg, resolver, events, logger.NewLogger("hub"))

	s := &Server{cfg: cfg, hub: h, nc: nc, log: log}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWs)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/stats", s.handleStats)

	s.http = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      mux,
		ReadTimeout:  httpReadTimeout,
		WriteTimeout: httpWriteTimeout,
		IdleTimeout:  httpIdleTimeout,
	}
	return s
}

// Hub exposes the relay core.
func (s *Server) Hub() *hub.Hub { return s.hub }

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Run serves until ctx is canceled, then shuts down gracefully: stop
// accepting HTTP, drain the hub's sessions, release NATS.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("Server started at %s", s.cfg.Server.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.log.Errorf("HTTP shutdown: %v", err)
	}
	if err := s.hub.Shutdown(s.cfg.Server.ShutdownTimeout); err != nil {
		s.log.Warnf("Hub shutdown: %v", err)
	}
	if s.nc != nil {
		s.nc.Close()
	}
	s.log.Info("Server stopped")
	return <-errCh
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	natsStatus := "disconnected"
	if s.nc != nil && s.nc.Status() == nats.CONNECTED {
		natsStatus = "connected"
	}
	health := map[string]interface{}{
		"status":  "ok",
		"nats":    natsStatus,
		"clients": s.hub.ClientCount(),
		"version": "1.0.0",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.hub.Stats())
}
