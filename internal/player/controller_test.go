package player

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControllerCommands(t *testing.T) {
	ctrl, surface := newTestController(t)
	ctx := context.Background()

	require.NoError(t, ctrl.Load(ctx, "76979871"))
	require.NoError(t, ctrl.Play(ctx))
	require.NoError(t, ctrl.Pause(ctx))
	require.NoError(t, ctrl.SeekTo(ctx, 12*time.Second+500*time.Millisecond))
	require.NoError(t, ctrl.Mute(ctx))
	require.NoError(t, ctrl.Unmute(ctx))
	require.NoError(t, ctrl.Stop(ctx))

	assert.Equal(t, []string{
		`loadVideo("76979871");`,
		"play();",
		"pause();",
		"seekTo(12.5);",
		"mute();",
		"unmute();",
		"stop();",
	}, surface.sent())
}

func TestControllerSetVolumeBounds(t *testing.T) {
	ctrl, surface := newTestController(t)
	ctx := context.Background()

	require.NoError(t, ctrl.SetVolume(ctx, 0))
	require.NoError(t, ctrl.SetVolume(ctx, 1))
	require.NoError(t, ctrl.SetVolume(ctx, 0.5))

	err := ctrl.SetVolume(ctx, 1.5)
	require.ErrorIs(t, err, ErrVolumeOutOfRange)
	err = ctrl.SetVolume(ctx, -0.1)
	require.ErrorIs(t, err, ErrVolumeOutOfRange)

	// rejected values are never forwarded
	assert.Equal(t, []string{
		"setVolume(0);",
		"setVolume(1);",
		"setVolume(0.5);",
	}, surface.sent())
}

func TestControllerGetCurrentTimeContextCancelled(t *testing.T) {
	ctrl, _ := newTestController(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	// the surface never answers; the caller's context bounds the wait
	currentTime, err := ctrl.GetCurrentTime(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, time.Duration(0), currentTime)
}

func TestControllerGetCurrentTimeTransportError(t *testing.T) {
	ctrl, surface := newTestController(t)
	surface.err = errors.New("surface gone")

	currentTime, err := ctrl.GetCurrentTime(context.Background())
	require.Error(t, err)
	assert.Equal(t, time.Duration(0), currentTime)
}

func TestControllerDisposeStopsDelivery(t *testing.T) {
	ctrl, surface := newTestController(t)

	ctrl.OnProgressChange(func(float64) { t.Fatal("callback after dispose") })
	ctrl.Dispose()

	ctrl.HandleEvent(EventLifecycle, json.RawMessage(`"playing"`))
	ctrl.HandleEvent(EventProgressChange, json.RawMessage(`0.5`))

	// both streams are closed and drained
	_, ok := <-ctrl.Status()
	assert.False(t, ok, "status stream must be closed")
	_, ok = <-ctrl.PlaybackRateUpdates()
	assert.False(t, ok, "rate stream must be closed")

	// commands are refused after dispose
	err := ctrl.Play(context.Background())
	require.ErrorIs(t, err, ErrDisposed)
	assert.Empty(t, surface.sent())
}

func TestControllerDisposeIsIdempotent(t *testing.T) {
	ctrl, _ := newTestController(t)

	ctrl.Dispose()
	ctrl.Dispose()
}

func TestControllerRateUpdatesFlow(t *testing.T) {
	ctrl, surface := newTestController(t)

	rates := []string{`1.5`, `1.5`, `0.75`}
	i := 0
	surface.onExec = func(command string) {
		if command == cmdGetPlaybackRate {
			ctrl.HandleEvent(EventPlaybackRate, json.RawMessage(rates[i]))
			if i < len(rates)-1 {
				i++
			}
		}
	}

	// drive ticks directly instead of waiting on the wall clock
	for range rates {
		ctrl.poller.tick(context.Background())
	}

	assert.Equal(t, 1.5, <-ctrl.PlaybackRateUpdates())
	assert.Equal(t, 0.75, <-ctrl.PlaybackRateUpdates())
	select {
	case rate := <-ctrl.PlaybackRateUpdates():
		t.Fatalf("unchanged rate republished: %v", rate)
	default:
	}
}
