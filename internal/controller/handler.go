package controller

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/embedplay/bridge/internal/player"
	"github.com/embedplay/bridge/internal/service/session"
	"github.com/embedplay/bridge/internal/surface/ws"
	"github.com/embedplay/bridge/pkg/validator"
)

type CreateSessionInput struct {
	VideoID    string  `json:"video_id" validate:"required"`
	Autoplay   bool    `json:"autoplay"`
	Loop       bool    `json:"loop"`
	Muted      bool    `json:"muted"`
	StartAt    float64 `json:"start_at" validate:"gte=0"`
	ExternalID string  `json:"external_id"`
	UserAgent  string  `json:"user_agent"`
	BaseURL    string  `json:"base_url" validate:"omitempty,url"`
	Resume     bool    `json:"resume"`
}

// CreateSessionOutput carries the session id plus the effective render
// configuration the embedding page should build the player with.
type CreateSessionOutput struct {
	SessionID  string  `json:"session_id"`
	VideoID    string  `json:"video_id"`
	Autoplay   bool    `json:"autoplay"`
	Loop       bool    `json:"loop"`
	Muted      bool    `json:"muted"`
	StartAt    float64 `json:"start_at"`
	ExternalID string  `json:"external_id,omitempty"`
	UserAgent  string  `json:"user_agent,omitempty"`
	BaseURL    string  `json:"base_url"`
}

func (c controller) createSession(w http.ResponseWriter, r *http.Request) {
	var input CreateSessionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		c.writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	if validationErrors, ok := c.validate.Validate(input); !ok {
		c.writeValidationErrors(w, validationErrors)
		return
	}

	createResp, err := c.sessionService.CreateSession(r.Context(), &session.CreateSessionParams{
		Options: player.Options{
			VideoID:    input.VideoID,
			Autoplay:   input.Autoplay,
			Loop:       input.Loop,
			Muted:      input.Muted,
			StartAt:    time.Duration(math.Ceil(input.StartAt*1000)) * time.Millisecond,
			ExternalID: input.ExternalID,
			UserAgent:  input.UserAgent,
			BaseURL:    input.BaseURL,
		},
		Resume: input.Resume,
	})
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to create session", "error", err)
		c.writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	opts := createResp.Options
	c.writeJSON(w, http.StatusCreated, CreateSessionOutput{
		SessionID:  createResp.SessionID,
		VideoID:    opts.VideoID,
		Autoplay:   opts.Autoplay,
		Loop:       opts.Loop,
		Muted:      opts.Muted,
		StartAt:    opts.StartAt.Seconds(),
		ExternalID: opts.ExternalID,
		UserAgent:  opts.UserAgent,
		BaseURL:    opts.BaseURL,
	})
}

func (c controller) attachSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "session-id")
	if sessionID == "" {
		c.writeError(w, http.StatusBadRequest, "session id is required")
		return
	}

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to upgrade connection", "error", err)
		return
	}

	surface := ws.NewSurface(conn)
	ctrl, err := c.sessionService.AttachSurface(r.Context(), sessionID, surface)
	if err != nil {
		c.logger.InfoContext(r.Context(), "failed to attach surface", "error", err)
		code := websocket.CloseInternalServerErr
		if errors.Is(err, session.ErrSessionNotFound) || errors.Is(err, session.ErrAlreadyAttached) {
			code = websocket.ClosePolicyViolation
		}
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, err.Error()))
		conn.Close()
		return
	}
	defer c.sessionService.CloseSession(sessionID)

	if err := surface.Serve(r.Context(), ctrl); err != nil {
		c.logger.DebugContext(r.Context(), "surface disconnected", "session_id", sessionID, "error", err)
	}
}

func (c controller) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		c.logger.Error("failed to write response", "error", err)
	}
}

func (c controller) writeError(w http.ResponseWriter, status int, message string) {
	c.writeJSON(w, status, map[string]string{"error": message})
}

func (c controller) writeValidationErrors(w http.ResponseWriter, validationErrors []validator.ValidationError) {
	c.writeJSON(w, http.StatusBadRequest, map[string]any{"validation_errors": validationErrors})
}
