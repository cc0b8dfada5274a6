package msgrouter

import (
	"context"
	"encoding/json"

	"github.com/gorilla/websocket"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type HandlerFunc func(ctx context.Context, payload json.RawMessage)

// Router dispatches named JSON messages read from a websocket connection.
// Messages are handled in arrival order on the reading goroutine.
type Router struct {
	routes   map[string]HandlerFunc
	fallback HandlerFunc
}

func New() *Router {
	return &Router{routes: make(map[string]HandlerFunc)}
}

func (r *Router) Handle(messageType string, handler HandlerFunc) {
	r.routes[messageType] = handler
}

// HandleFallback registers the handler for message types without a route. The
// original type is available via MessageTypeFromCtx.
func (r *Router) HandleFallback(handler HandlerFunc) {
	r.fallback = handler
}

func (r *Router) ServeConn(ctx context.Context, conn *websocket.Conn) error {
	defer conn.Close()

	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		msgCtx := context.WithValue(ctx, messageTypeKey, msg.Type)
		if handler, exists := r.routes[msg.Type]; exists {
			handler(msgCtx, msg.Payload)
		} else if r.fallback != nil {
			r.fallback(msgCtx, msg.Payload)
		}
	}
}
