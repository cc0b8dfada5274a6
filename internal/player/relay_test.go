package player

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecondsToDuration(t *testing.T) {
	assert.Equal(t, 12345*time.Millisecond, secondsToDuration(12.345))
	assert.Equal(t, 12346*time.Millisecond, secondsToDuration(12.3451))
	assert.Equal(t, time.Millisecond, secondsToDuration(0.0005))
	assert.Equal(t, time.Duration(0), secondsToDuration(0))
}

func TestHandleEventLifecycleStatus(t *testing.T) {
	ctrl, _ := newTestController(t)

	ctrl.HandleEvent(EventLifecycle, json.RawMessage(`"playing"`))
	ctrl.HandleEvent(EventLifecycle, json.RawMessage(`"pause"`))
	ctrl.HandleEvent(EventLifecycle, json.RawMessage(`"buffer-overrun"`))

	assert.Equal(t, StatusPlaying, <-ctrl.Status())
	assert.Equal(t, StatusPaused, <-ctrl.Status())
	assert.Equal(t, StatusUnknown, <-ctrl.Status())
}

func TestHandleEventUnknownNameFallsBackToUnknownStatus(t *testing.T) {
	ctrl, _ := newTestController(t)

	ctrl.HandleEvent("somethingNew", json.RawMessage(`{"whatever":1}`))

	assert.Equal(t, StatusUnknown, <-ctrl.Status())
}

func TestHandleEventMalformedPayloadIsDropped(t *testing.T) {
	ctrl, surface := newTestController(t)

	ctrl.HandleEvent(EventLifecycle, json.RawMessage(`42`))
	ctrl.HandleEvent(EventCurrentTime, json.RawMessage(`"twelve"`))
	ctrl.HandleEvent(EventIsPaused, json.RawMessage(`"yes"`))
	ctrl.HandleEvent(EventFullscreen, json.RawMessage(`1.5`))

	select {
	case status := <-ctrl.Status():
		t.Fatalf("malformed payload produced a status update: %v", status)
	default:
	}
	assert.Empty(t, surface.sent(), "malformed payload must not trigger commands")
}

func TestHandleEventResolvesQueries(t *testing.T) {
	ctrl, surface := newTestController(t)

	surface.onExec = func(command string) {
		switch command {
		case cmdGetCurrentTime:
			ctrl.HandleEvent(EventCurrentTime, json.RawMessage(`12.345`))
		case cmdGetDuration:
			ctrl.HandleEvent(EventDuration, json.RawMessage(`3600`))
		case cmdGetPlaybackRate:
			ctrl.HandleEvent(EventPlaybackRate, json.RawMessage(`1.5`))
		case cmdIsPaused:
			ctrl.HandleEvent(EventIsPaused, json.RawMessage(`true`))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	currentTime, err := ctrl.GetCurrentTime(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12345*time.Millisecond, currentTime)

	duration, err := ctrl.GetDuration(ctx)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, duration)

	rate, err := ctrl.GetPlaybackRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.5, rate)

	paused, err := ctrl.IsPaused(ctx)
	require.NoError(t, err)
	assert.True(t, paused)
}

func TestHandleEventCallbacks(t *testing.T) {
	ctrl, surface := newTestController(t)

	var rates, fractions []float64
	var fullscreens, pips []bool
	ctrl.OnRateChange(func(rate float64) { rates = append(rates, rate) })
	ctrl.OnProgressChange(func(fraction float64) { fractions = append(fractions, fraction) })
	ctrl.OnFullscreenChange(func(fullscreen bool) { fullscreens = append(fullscreens, fullscreen) })
	ctrl.OnPipChange(func(pip bool) { pips = append(pips, pip) })

	ctrl.HandleEvent(EventRateChange, json.RawMessage(`1.25`))
	ctrl.HandleEvent(EventProgressChange, json.RawMessage(`0.5`))
	ctrl.HandleEvent(EventFullscreen, json.RawMessage(`true`))
	ctrl.HandleEvent(EventPip, json.RawMessage(`false`))

	assert.Equal(t, []float64{1.25}, rates)
	assert.Equal(t, []float64{0.5}, fractions)
	assert.Equal(t, []bool{true}, fullscreens)
	assert.Equal(t, []bool{false}, pips)

	// fullscreen and pip transitions also restore the default surface sizing
	assert.Equal(t, []string{cmdResize, cmdResize}, surface.sent())
}

func TestHandleEventCallbacksNotRegistered(t *testing.T) {
	ctrl, surface := newTestController(t)

	ctrl.HandleEvent(EventRateChange, json.RawMessage(`1.25`))
	ctrl.HandleEvent(EventProgressChange, json.RawMessage(`0.5`))
	ctrl.HandleEvent(EventFullscreen, json.RawMessage(`true`))

	// still resizes after the fullscreen change even with no callback
	assert.Equal(t, []string{cmdResize}, surface.sent())
}

func TestHandleEventLateResponseIsIgnored(t *testing.T) {
	ctrl, _ := newTestController(t)

	// no pending request of this kind exists
	ctrl.HandleEvent(EventCurrentTime, json.RawMessage(`12.345`))

	select {
	case status := <-ctrl.Status():
		t.Fatalf("late response produced a status update: %v", status)
	default:
	}
}
