package player

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
)

type fakeSurface struct {
	mu       sync.Mutex
	commands []string
	err      error

	// onExec is invoked after a command is recorded, outside the lock. Tests
	// use it to emit the response event a command would produce.
	onExec func(command string)
}

func (s *fakeSurface) Exec(ctx context.Context, command string) error {
	s.mu.Lock()
	if s.err != nil {
		err := s.err
		s.mu.Unlock()
		return err
	}
	s.commands = append(s.commands, command)
	onExec := s.onExec
	s.mu.Unlock()

	if onExec != nil {
		onExec(command)
	}

	return nil
}

func (s *fakeSurface) sent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.commands...)
}

func newTestController(t *testing.T) (*Controller, *fakeSurface) {
	t.Helper()

	surface := &fakeSurface{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := NewController(surface, Options{VideoID: "76979871"}, logger)
	t.Cleanup(ctrl.Dispose)

	return ctrl, surface
}
