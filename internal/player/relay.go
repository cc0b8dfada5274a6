package player

import (
	"context"
	"encoding/json"
	"math"
	"time"
)

// Message names emitted by the surface.
const (
	EventLifecycle      = "events"
	EventCurrentTime    = "getCurrentTimeResult"
	EventDuration       = "getDurationResult"
	EventPlaybackRate   = "getPlaybackRateResult"
	EventIsPaused       = "isPaused"
	EventRateChange     = "playbackRateEvent"
	EventProgressChange = "progressChangeEvent"
	EventFullscreen     = "onChangeFullscreen"
	EventPip            = "pipChangeEvent"
)

// EventNames lists every message name the surface can emit.
func EventNames() []string {
	return []string{
		EventLifecycle,
		EventCurrentTime,
		EventDuration,
		EventPlaybackRate,
		EventIsPaused,
		EventRateChange,
		EventProgressChange,
		EventFullscreen,
		EventPip,
	}
}

// HandleEvent routes a named message from the surface. Unrecognized names
// fall back to an unknown player status. A payload of the wrong shape drops
// the event entirely: no status update, no callback, no resolution.
//
// Callbacks run on the caller's goroutine. A callback that issues queries
// through the controller must not block, otherwise it starves the event feed
// that would deliver the responses.
func (c *Controller) HandleEvent(name string, payload json.RawMessage) {
	switch name {
	case EventLifecycle:
		var event string
		if !c.decode(name, payload, &event) {
			return
		}
		c.publishStatus(ParseStatus(event))
	case EventCurrentTime:
		c.resolveSeconds(RequestCurrentTime, name, payload)
	case EventDuration:
		c.resolveSeconds(RequestDuration, name, payload)
	case EventPlaybackRate:
		var rate float64
		if !c.decode(name, payload, &rate) {
			return
		}
		c.correlator.resolve(RequestPlaybackRate, rate)
	case EventIsPaused:
		var paused bool
		if !c.decode(name, payload, &paused) {
			return
		}
		c.correlator.resolve(RequestPaused, paused)
	case EventRateChange:
		var rate float64
		if !c.decode(name, payload, &rate) {
			return
		}
		c.invokeRateChange(rate)
	case EventProgressChange:
		var fraction float64
		if !c.decode(name, payload, &fraction) {
			return
		}
		c.invokeProgress(fraction)
	case EventFullscreen:
		var fullscreen bool
		if !c.decode(name, payload, &fullscreen) {
			return
		}
		c.invokeFullscreen(fullscreen)
		c.restoreSize()
	case EventPip:
		var pip bool
		if !c.decode(name, payload, &pip) {
			return
		}
		c.invokePip(pip)
		c.restoreSize()
	default:
		c.publishStatus(StatusUnknown)
	}
}

func (c *Controller) decode(name string, payload json.RawMessage, v any) bool {
	if err := json.Unmarshal(payload, v); err != nil {
		c.logger.Debug("dropping event with malformed payload", "event", name, "error", err)
		return false
	}

	return true
}

func (c *Controller) resolveSeconds(kind RequestKind, name string, payload json.RawMessage) {
	var seconds float64
	if !c.decode(name, payload, &seconds) {
		return
	}

	c.correlator.resolve(kind, secondsToDuration(seconds))
}

// secondsToDuration converts a seconds value reported by the player script to
// a duration with millisecond precision, rounding up.
func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(math.Ceil(seconds*1000)) * time.Millisecond
}

// restoreSize asks the surface to fall back to its default sizing after a
// fullscreen or picture-in-picture transition.
func (c *Controller) restoreSize() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := c.exec(ctx, cmdResize); err != nil {
		c.logger.Debug("failed to restore surface size", "error", err)
	}
}

func (c *Controller) invokeRateChange(rate float64) {
	c.mu.Lock()
	fn := c.onRateChange
	disposed := c.disposed
	c.mu.Unlock()

	if disposed || fn == nil {
		return
	}
	fn(rate)
}

func (c *Controller) invokeProgress(fraction float64) {
	c.mu.Lock()
	fn := c.onProgressChange
	disposed := c.disposed
	c.mu.Unlock()

	if disposed || fn == nil {
		return
	}
	fn(fraction)
}

func (c *Controller) invokeFullscreen(fullscreen bool) {
	c.mu.Lock()
	fn := c.onFullscreenChange
	disposed := c.disposed
	c.mu.Unlock()

	if disposed || fn == nil {
		return
	}
	fn(fullscreen)
}

func (c *Controller) invokePip(pip bool) {
	c.mu.Lock()
	fn := c.onPipChange
	disposed := c.disposed
	c.mu.Unlock()

	if disposed || fn == nil {
		return
	}
	fn(pip)
}
