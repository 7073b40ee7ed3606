// Package server runs the local editor: it serves the control panel and
// render surface, exposes the document store over a small JSON API, streams
// store changes to open tabs over a websocket and serves the HTML export.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"github.com/conneroisu/pagebuilder/internal/catalog"
	"github.com/conneroisu/pagebuilder/internal/config"
	"github.com/conneroisu/pagebuilder/internal/editor"
	builderrors "github.com/conneroisu/pagebuilder/internal/errors"
	"github.com/conneroisu/pagebuilder/internal/logging"
	"github.com/conneroisu/pagebuilder/internal/store"
	"github.com/conneroisu/pagebuilder/internal/validation"
	"github.com/conneroisu/pagebuilder/internal/websocket"
)

// EditorServer hosts one editing session.
type EditorServer struct {
	config       *config.Config
	configMutex  sync.RWMutex
	store        *store.Store
	session      *editor.Session
	hub          *websocket.Hub
	logger       logging.Logger
	errorHandler *builderrors.ErrorHandler

	httpServer  *http.Server
	serverMutex sync.RWMutex

	events       <-chan store.Event
	forwardDone  chan struct{}
	shutdownOnce sync.Once
}

// Option configures an EditorServer.
type Option func(*EditorServer)

// WithStore makes the server edit st instead of a fresh store.
func WithStore(st *store.Store) Option {
	return func(s *EditorServer) {
		s.store = st
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger logging.Logger) Option {
	return func(s *EditorServer) {
		s.logger = logger
	}
}

// New creates an editor server for cfg. The configured default template is
// loaded into the store and the store event forwarder is started.
func New(cfg *config.Config, opts ...Option) (*EditorServer, error) {
	mode, err := editor.ParseMode(cfg.Editor.DefaultMode)
	if err != nil {
		return nil, err
	}

	s := &EditorServer{
		config:      cfg,
		session:     editor.NewSession(mode),
		forwardDone: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.store == nil {
		s.store = store.New()
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	s.logger = s.logger.WithComponent("server")
	s.errorHandler = builderrors.NewErrorHandler(s.logger)

	if key := cfg.Editor.DefaultTemplate; key != "" && key != "blank" {
		tmpl, ok := catalog.Lookup(key)
		if !ok {
			return nil, builderrors.ErrTemplateNotFound(key)
		}
		s.store.Load(tmpl)
	}

	s.hub = websocket.NewHub(websocket.OriginValidatorFunc(s.isAllowedOrigin), s.logger)

	s.events = s.store.Watch()
	go s.forwardEvents()

	return s, nil
}

// Store returns the document the server edits.
func (s *EditorServer) Store() *store.Store {
	return s.store
}

// Handler returns the routed handler with middleware applied.
func (s *EditorServer) Handler() http.Handler {
	return s.addMiddleware(s.routes())
}

// Start listens on the configured address and serves until Shutdown. It
// returns nil after a graceful shutdown.
func (s *EditorServer) Start(ctx context.Context) error {
	cfg := s.currentConfig()
	addr := cfg.Address()

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return builderrors.NewIOError(builderrors.ErrCodeInternal, "listen on "+addr, err)
	}

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	server := s.httpServer
	s.serverMutex.Unlock()

	url := "http://" + listener.Addr().String()
	s.logger.Info(ctx, "Editor server listening", "url", url, "mode", string(s.session.Mode()))

	if cfg.Server.Open {
		go s.openBrowser(ctx, url)
	}

	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return builderrors.NewIOError(builderrors.ErrCodeInternal, "serve", err)
	}
	return nil
}

// SetAllowedOrigins replaces the configured cross-origin allow list. It is
// called when the config file changes while serving.
func (s *EditorServer) SetAllowedOrigins(origins []string) {
	s.configMutex.Lock()
	defer s.configMutex.Unlock()

	next := *s.config
	next.Server.AllowedOrigins = append([]string(nil), origins...)
	s.config = &next
}

func (s *EditorServer) currentConfig() *config.Config {
	s.configMutex.RLock()
	defer s.configMutex.RUnlock()
	return s.config
}

// forwardEvents turns store events into websocket notifications until the
// watch channel is closed.
func (s *EditorServer) forwardEvents() {
	defer close(s.forwardDone)

	for event := range s.events {
		msg := websocket.Message{
			Type:      websocket.MessageElementsChanged,
			Event:     string(event.Type),
			Timestamp: event.Timestamp,
		}
		if event.Type == store.EventTypeSelected {
			msg.Type = websocket.MessageSelectionChanged
		}
		if event.Element != nil {
			msg.Target = string(event.Element.ElementID())
		}
		s.hub.Broadcast(msg)
	}
}

func (s *EditorServer) openBrowser(ctx context.Context, url string) {
	if err := validation.ValidateURL(url); err != nil {
		s.logger.Warn(ctx, err, "Refusing to open browser", "url", url)
		return
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		s.logger.Warn(ctx, nil, "Cannot open browser on this platform", "os", runtime.GOOS)
		return
	}

	if err := cmd.Start(); err != nil {
		s.logger.Warn(ctx, err, "Failed to open browser", "url", url)
		return
	}
	go func() { _ = cmd.Wait() }()
}

// Shutdown stops the HTTP server, disconnects websocket clients and stops
// the event forwarder. It is safe to call more than once.
func (s *EditorServer) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "Shutting down editor server")

		s.serverMutex.RLock()
		server := s.httpServer
		s.serverMutex.RUnlock()

		if server != nil {
			if err := server.Shutdown(ctx); err != nil {
				shutdownErr = fmt.Errorf("http shutdown: %w", err)
			}
		}

		if err := s.hub.Shutdown(ctx); err != nil && shutdownErr == nil {
			shutdownErr = fmt.Errorf("websocket shutdown: %w", err)
		}

		s.store.Unwatch(s.events)
		select {
		case <-s.forwardDone:
		case <-ctx.Done():
		}
	})

	return shutdownErr
}
