package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/embedplay/bridge/internal/player"
	"github.com/embedplay/bridge/internal/repository/position"
)

var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrAlreadyAttached  = errors.New("surface already attached")
	ErrSessionNotActive = errors.New("session has no attached surface")
)

type iPositionRepo interface {
	SavePosition(context.Context, *position.SavePositionParams) error
	GetPosition(ctx context.Context, videoID string) (time.Duration, error)
}

type session struct {
	id        string
	opts      player.Options
	createdAt time.Time
	ctrl      *player.Controller
}

// Defaults fill in per-session options left empty by the caller.
type Defaults struct {
	BaseURL   string
	UserAgent string
}

type service struct {
	positionRepo iPositionRepo
	logger       *slog.Logger
	sessionTTL   time.Duration
	defaults     Defaults

	mu       sync.Mutex
	sessions map[string]*session
}

func NewService(positionRepo iPositionRepo, logger *slog.Logger, sessionTTL time.Duration, defaults Defaults) *service {
	return &service{
		positionRepo: positionRepo,
		logger:       logger,
		sessionTTL:   sessionTTL,
		defaults:     defaults,
		sessions:     make(map[string]*session),
	}
}

type CreateSessionParams struct {
	Options player.Options
	Resume  bool
}

type CreateSessionResponse struct {
	SessionID string
	Options   player.Options
}

// CreateSession registers a new player session. With Resume set, a stored
// position for the video is folded into the start offset. The session must be
// attached before the session TTL elapses or it is swept away.
func (s *service) CreateSession(ctx context.Context, params *CreateSessionParams) (CreateSessionResponse, error) {
	opts := params.Options
	if opts.BaseURL == "" {
		opts.BaseURL = s.defaults.BaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = s.defaults.UserAgent
	}

	if params.Resume {
		pos, err := s.positionRepo.GetPosition(ctx, opts.VideoID)
		switch {
		case err == nil:
			opts.StartAt = pos
		case errors.Is(err, position.ErrNotFound):
		default:
			s.logger.WarnContext(ctx, "failed to get stored position", "video_id", opts.VideoID, "error", err)
		}
	}

	sess := session{
		id:        uuid.NewString(),
		opts:      opts,
		createdAt: time.Now(),
	}

	s.mu.Lock()
	s.sweepExpiredLocked()
	s.sessions[sess.id] = &sess
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "session created", "session_id", sess.id, "video_id", opts.VideoID)

	return CreateSessionResponse{SessionID: sess.id, Options: opts}, nil
}

// AttachSurface binds a connected surface to the session and returns its
// player controller. The progress feed is hooked up to persist the playback
// position for later resumes.
func (s *service) AttachSurface(ctx context.Context, sessionID string, surface player.Surface) (*player.Controller, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if sess.ctrl != nil {
		s.mu.Unlock()
		return nil, ErrAlreadyAttached
	}

	ctrl := player.NewController(surface, sess.opts, s.logger)
	sess.ctrl = ctrl
	s.mu.Unlock()

	videoID := sess.opts.VideoID
	ctrl.OnProgressChange(func(float64) {
		// sampling the position awaits a response event, so it must leave the
		// event-feed goroutine
		go s.recordPosition(videoID, ctrl)
	})

	s.logger.DebugContext(ctx, "surface attached", "session_id", sessionID)

	return ctrl, nil
}

func (s *service) GetController(sessionID string) (*player.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if sess.ctrl == nil {
		return nil, ErrSessionNotActive
	}

	return sess.ctrl, nil
}

// CloseSession disposes the session's bridge, if attached, and forgets the
// session. Closing an unknown session returns ErrSessionNotFound.
func (s *service) CloseSession(sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	if sess.ctrl != nil {
		sess.ctrl.Dispose()
	}

	s.logger.Debug("session closed", "session_id", sessionID)

	return nil
}

func (s *service) recordPosition(videoID string, ctrl *player.Controller) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	pos, err := ctrl.GetCurrentTime(ctx)
	if err != nil {
		s.logger.Debug("failed to sample position", "video_id", videoID, "error", err)
		return
	}

	if err := s.positionRepo.SavePosition(ctx, &position.SavePositionParams{
		VideoID:   videoID,
		Position:  pos,
		UpdatedAt: time.Now().Unix(),
	}); err != nil {
		s.logger.Warn("failed to save position", "video_id", videoID, "error", err)
	}
}

// sweepExpiredLocked drops sessions that were never attached within the TTL.
// Callers hold s.mu.
func (s *service) sweepExpiredLocked() {
	cutoff := time.Now().Add(-s.sessionTTL)
	for id, sess := range s.sessions {
		if sess.ctrl == nil && sess.createdAt.Before(cutoff) {
			delete(s.sessions, id)
			s.logger.Debug("expired unattached session", "session_id", id)
		}
	}
}

// Close disposes every remaining session, typically at shutdown.
func (s *service) Close() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.mu.Unlock()

	for _, sess := range sessions {
		if sess.ctrl != nil {
			sess.ctrl.Dispose()
		}
	}

	if len(sessions) > 0 {
		s.logger.Debug("disposed remaining sessions", "count", len(sessions))
	}
}
