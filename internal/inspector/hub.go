package inspector

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
)

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// hub fans frames out to websocket clients. A client whose buffer is full misses the
// frame instead of stalling the runner.
type hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	buffer  int

	connected prometheus.Gauge
	dropped   prometheus.Counter
}

func newHub(buffer int, reg prometheus.Registerer) *hub {
	h := &hub{
		clients: make(map[*client]struct{}),
		buffer:  buffer,
		connected: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "zeusbt",
			Subsystem: "inspector",
			Name:      "clients",
			Help:      "Connected websocket clients.",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "zeusbt",
			Subsystem: "inspector",
			Name:      "dropped_frames_total",
			Help:      "Frames not delivered because a client was too slow.",
		}),
	}
	if reg != nil {
		reg.MustRegister(h.connected, h.dropped)
	}
	return h
}

func (h *hub) newClient(conn *websocket.Conn) *client {
	return &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, h.buffer)}
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.connected.Inc()
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
	if ok {
		h.connected.Dec()
	}
}

func (h *hub) broadcast(b []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- b:
		default:
			h.dropped.Inc()
		}
	}
}

func (h *hub) len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
		h.connected.Dec()
	}
}
