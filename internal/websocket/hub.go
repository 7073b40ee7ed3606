// Package websocket pushes live-update notifications to open editor tabs.
//
// A single hub goroutine owns the client set. Registration, removal and
// broadcasts are funnelled through channels; each client gets its own
// writer goroutine with a bounded send buffer, and a client whose buffer
// is full when a broadcast arrives is disconnected.
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"

	builderrors "github.com/conneroisu/pagebuilder/internal/errors"
	"github.com/conneroisu/pagebuilder/internal/logging"
)

const (
	sendBuffer   = 64
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

// Hub fans out messages to every connected client.
type Hub struct {
	clients      map[*Client]struct{}
	clientsMutex sync.RWMutex

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	originValidator OriginValidator
	logger          logging.Logger

	ctx          context.Context
	cancel       context.CancelFunc
	done         chan struct{}
	shutdownOnce sync.Once
	isShutdown   atomic.Bool
}

// NewHub creates a hub and starts its goroutine. A nil validator admits
// every origin.
func NewHub(originValidator OriginValidator, logger logging.Logger) *Hub {
	if originValidator == nil {
		originValidator = OriginValidatorFunc(func(string) bool { return true })
	}
	if logger == nil {
		logger = logging.Discard()
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		clients:         make(map[*Client]struct{}),
		broadcast:       make(chan []byte, 256),
		register:        make(chan *Client, 32),
		unregister:      make(chan *Client, 32),
		originValidator: originValidator,
		logger:          logger.WithComponent("websocket"),
		ctx:             ctx,
		cancel:          cancel,
		done:            make(chan struct{}),
	}

	go h.run()

	return h
}

// ServeHTTP upgrades the request and registers the connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.isShutdown.Load() {
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
		return
	}

	origin := r.Header.Get("Origin")
	if origin != "" && !sameOrigin(origin, r.Host) && !h.originValidator.IsAllowedOrigin(origin) {
		h.logger.Warn(r.Context(), builderrors.ErrInvalidOrigin(origin), "WebSocket connection rejected",
			"remote_addr", r.RemoteAddr)
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	// Origins were checked above.
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns:  []string{"*"},
		CompressionMode: websocket.CompressionDisabled,
	})
	if err != nil {
		h.logger.Warn(r.Context(), err, "WebSocket upgrade failed", "remote_addr", r.RemoteAddr)
		return
	}

	client := &Client{
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		remoteAddr:  r.RemoteAddr,
		connectedAt: time.Now(),
	}

	select {
	case h.register <- client:
	case <-h.ctx.Done():
		_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
		return
	}

	h.serveClient(client)
}

func sameOrigin(origin, host string) bool {
	u, err := url.Parse(origin)
	return err == nil && u.Host == host
}

func (h *Hub) run() {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.clientsMutex.Lock()
			h.clients[client] = struct{}{}
			total := len(h.clients)
			h.clientsMutex.Unlock()
			h.logger.Debug(h.ctx, "WebSocket client connected", "remote_addr", client.remoteAddr, "clients", total)

		case client := <-h.unregister:
			h.drop(client)

		case message := <-h.broadcast:
			h.clientsMutex.RLock()
			var slow []*Client
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					slow = append(slow, client)
				}
			}
			h.clientsMutex.RUnlock()

			for _, client := range slow {
				h.logger.Warn(h.ctx, nil, "Dropping slow WebSocket client", "remote_addr", client.remoteAddr)
				h.drop(client)
			}

		case <-h.ctx.Done():
			h.clientsMutex.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.clientsMutex.Unlock()
			return
		}
	}
}

// drop removes a client. Closing send tells its writer to hang up.
func (h *Hub) drop(client *Client) {
	h.clientsMutex.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)
		close(client.send)
	}
	total := len(h.clients)
	h.clientsMutex.Unlock()

	if ok {
		h.logger.Debug(h.ctx, "WebSocket client disconnected", "remote_addr", client.remoteAddr, "clients", total)
	}
}

// serveClient runs the writer until the connection ends. Incoming frames
// are discarded; reading keeps pings and close frames flowing.
func (h *Hub) serveClient(client *Client) {
	readCtx := client.conn.CloseRead(h.ctx)

	defer func() {
		select {
		case h.unregister <- client:
		case <-h.ctx.Done():
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				_ = client.conn.Close(websocket.StatusGoingAway, "")
				return
			}
			ctx, cancel := context.WithTimeout(h.ctx, writeTimeout)
			err := client.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				h.logger.Debug(h.ctx, "WebSocket write failed", "remote_addr", client.remoteAddr, "error", err.Error())
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(h.ctx, writeTimeout)
			err := client.conn.Ping(ctx)
			cancel()
			if err != nil {
				return
			}

		case <-readCtx.Done():
			client.conn.CloseNow()
			return
		}
	}
}

// Broadcast queues msg for every connected client. It never blocks; the
// message is dropped when the queue is full or the hub is shut down.
func (h *Hub) Broadcast(msg Message) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error(h.ctx, err, "Failed to marshal broadcast message")
		return
	}

	if h.isShutdown.Load() {
		return
	}

	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn(h.ctx, nil, "Broadcast queue full, dropping message", "type", string(msg.Type))
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.clientsMutex.RLock()
	defer h.clientsMutex.RUnlock()
	return len(h.clients)
}

// Shutdown disconnects every client and stops the hub. It is safe to call
// more than once.
func (h *Hub) Shutdown(ctx context.Context) error {
	h.shutdownOnce.Do(func() {
		h.isShutdown.Store(true)
		h.cancel()
	})

	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsShutdown reports whether Shutdown has been called.
func (h *Hub) IsShutdown() bool {
	return h.isShutdown.Load()
}
