package websocket

import (
	"time"

	"github.com/coder/websocket"
)

// MessageType names what changed on the server.
type MessageType string

const (
	// MessageElementsChanged means the element list changed; Target is the
	// affected element id when there is one.
	MessageElementsChanged MessageType = "elements_changed"
	// MessageSelectionChanged means a different element was selected.
	MessageSelectionChanged MessageType = "selection_changed"
	// MessageModeChanged carries the new editor mode in Target.
	MessageModeChanged MessageType = "mode_changed"
)

// Message is what connected editors receive.
type Message struct {
	Type      MessageType `json:"type"`
	Target    string      `json:"target,omitempty"`
	Event     string      `json:"event,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Client is one connected browser tab.
type Client struct {
	conn        *websocket.Conn
	send        chan []byte
	remoteAddr  string
	connectedAt time.Time
}

// OriginValidator decides whether a browser origin may connect.
type OriginValidator interface {
	IsAllowedOrigin(origin string) bool
}

// OriginValidatorFunc adapts a function to OriginValidator.
type OriginValidatorFunc func(origin string) bool

func (f OriginValidatorFunc) IsAllowedOrigin(origin string) bool { return f(origin) }
