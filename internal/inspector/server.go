package inspector

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zeusync/zeusbt/internal/core/observability/log"
	"github.com/zeusync/zeusbt/internal/runner"
)

// Resetter resets a single agent by id. *runner.Runner implements it.
type Resetter interface {
	ResetAgent(id string) bool
}

// Options configures the inspector server.
type Options struct {
	Addr       string
	SendBuffer int
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Registerer receives the inspector's own collectors.
	Registerer prometheus.Registerer
}

// Server streams agent tick frames over websockets and exposes health and metrics.
//
// Clients may send "reset:<agent id>" to discard that agent's progress.
type Server struct {
	hub      *hub
	resetter Resetter
	logger   log.Log
	http     *http.Server
	upgrader websocket.Upgrader
}

// New creates an inspector. resetter may be nil, which disables reset commands.
func New(opts Options, resetter Resetter, logger log.Log) *Server {
	if logger == nil {
		logger = log.NewNop()
	}
	if opts.SendBuffer < 1 {
		opts.SendBuffer = 64
	}

	s := &Server{
		hub:      newHub(opts.SendBuffer, opts.Registerer),
		resetter: resetter,
		logger:   logger.With(log.String("component", "inspector")),
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", s.serveHealth)
	if opts.Metrics != nil {
		mux.Handle("/metrics", opts.Metrics)
	}
	s.http = &http.Server{
		Addr:              opts.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the routes, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Observe is a runner.Observer that broadcasts the event as a JSON frame.
func (s *Server) Observe(ev runner.TickEvent) {
	if s.hub.len() == 0 {
		return
	}
	b, err := json.Marshal(ev)
	if err != nil {
		s.logger.Warn("failed to encode tick frame", log.String("agent", ev.AgentID), log.Error(err))
		return
	}
	s.hub.broadcast(b)
}

// ListenAndServe blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln. It returns nil after Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("inspector listening", log.String("addr", ln.Addr().String()))
	if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and disconnects websocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.closeAll()
	return s.http.Shutdown(ctx)
}

func (s *Server) serveHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "clients": s.hub.len()})
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}
	c := s.hub.newClient(conn)
	s.hub.add(c)
	s.logger.Debug("inspector client connected", log.String("client", c.id))
	defer func() {
		s.hub.remove(c)
		_ = conn.Close()
		s.logger.Debug("inspector client disconnected", log.String("client", c.id))
	}()

	go s.readLoop(c)

	for b := range c.send {
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			return
		}
	}
}

func (s *Server) readLoop(c *client) {
	defer s.hub.remove(c)
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		s.handleCommand(c, string(msg))
	}
}

func (s *Server) handleCommand(c *client, cmd string) {
	id, ok := strings.CutPrefix(strings.TrimSpace(cmd), "reset:")
	if !ok || id == "" {
		s.logger.Debug("ignoring inspector command", log.String("client", c.id), log.String("cmd", cmd))
		return
	}
	if s.resetter == nil || !s.resetter.ResetAgent(id) {
		s.logger.Warn("reset requested for unknown agent", log.String("client", c.id), log.String("agent", id))
	}
}
