package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/embedplay/bridge/internal/player"
	"github.com/embedplay/bridge/pkg/msgrouter"
)

// Surface bridges a player controller to the embedding page over a websocket
// connection. Outgoing script statements are wrapped in "exec" messages;
// incoming named events are routed into the controller in arrival order.
type Surface struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewSurface(conn *websocket.Conn) *Surface {
	return &Surface{conn: conn}
}

type output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type execPayload struct {
	Script string `json:"script"`
}

// Exec forwards a script statement to the page. The returned error reports
// the transport write only; the statement's effect is observed later through
// the event feed.
func (s *Surface) Exec(ctx context.Context, command string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		s.conn.SetWriteDeadline(deadline)
		defer s.conn.SetWriteDeadline(time.Time{})
	}

	return s.conn.WriteJSON(output{Type: "exec", Payload: execPayload{Script: command}})
}

// Serve reads named events from the connection and feeds them to the
// controller until the connection closes or ctx is cancelled. Unknown message
// types are forwarded too so the controller can map them to its unknown
// status.
func (s *Surface) Serve(ctx context.Context, ctrl *player.Controller) error {
	router := msgrouter.New()

	for _, name := range player.EventNames() {
		name := name
		router.Handle(name, func(ctx context.Context, payload json.RawMessage) {
			ctrl.HandleEvent(name, payload)
		})
	}
	router.HandleFallback(func(ctx context.Context, payload json.RawMessage) {
		ctrl.HandleEvent(msgrouter.MessageTypeFromCtx(ctx), payload)
	})

	return router.ServeConn(ctx, s.conn)
}
