package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/embedplay/bridge/internal/player"
	"github.com/embedplay/bridge/internal/service/session"
	"github.com/embedplay/bridge/pkg/validator"
)

type iSessionService interface {
	CreateSession(context.Context, *session.CreateSessionParams) (session.CreateSessionResponse, error)
	AttachSurface(ctx context.Context, sessionID string, surface player.Surface) (*player.Controller, error)
	CloseSession(sessionID string) error
}

type controller struct {
	sessionService iSessionService
	upgrader       websocket.Upgrader
	validate       *validator.Validator
	logger         *slog.Logger
}

func NewController(sessionService iSessionService, logger *slog.Logger) *controller {
	return &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sessionService: sessionService,
		validate:       validator.NewValidator(),
		logger:         logger,
	}
}
