package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var (
	ErrVolumeOutOfRange = errors.New("volume out of range")
	ErrDisposed         = errors.New("player disposed")
)

const streamBufferSize = 16

// Controller is the host-facing side of the bridge. It translates playback
// method calls into script statements for the surface, correlates value
// queries with their response events, and fans incoming events out to the
// status stream, the playback rate stream and the registered callbacks.
//
// Dispose stops all delivery; requests still in flight at that point are left
// unresolved.
type Controller struct {
	surface    Surface
	opts       Options
	logger     *slog.Logger
	correlator *correlator
	poller     *ratePoller

	mu       sync.Mutex
	disposed bool
	statusCh chan Status
	rateCh   chan float64

	onRateChange       func(float64)
	onProgressChange   func(float64)
	onFullscreenChange func(bool)
	onPipChange        func(bool)
}

func NewController(surface Surface, opts Options, logger *slog.Logger) *Controller {
	c := Controller{
		surface:    surface,
		opts:       opts,
		logger:     logger,
		correlator: newCorrelator(),
		statusCh:   make(chan Status, streamBufferSize),
		rateCh:     make(chan float64, streamBufferSize),
	}
	c.poller = newRatePoller(c.GetPlaybackRate, c.publishRate, defaultPollInterval, logger)

	return &c
}

func (c *Controller) Options() Options {
	return c.opts
}

func (c *Controller) Load(ctx context.Context, videoID string) error {
	return c.exec(ctx, loadCommand(videoID))
}

func (c *Controller) Play(ctx context.Context) error {
	return c.exec(ctx, cmdPlay)
}

func (c *Controller) Pause(ctx context.Context) error {
	return c.exec(ctx, cmdPause)
}

func (c *Controller) Stop(ctx context.Context) error {
	return c.exec(ctx, cmdStop)
}

func (c *Controller) SeekTo(ctx context.Context, position time.Duration) error {
	return c.exec(ctx, seekCommand(position))
}

// SetVolume forwards the volume fraction to the surface. Values outside
// [0, 1] are rejected without forwarding anything; both boundaries are valid.
func (c *Controller) SetVolume(ctx context.Context, volume float64) error {
	if volume < 0 || volume > 1 {
		return fmt.Errorf("%w: %v", ErrVolumeOutOfRange, volume)
	}

	return c.exec(ctx, volumeCommand(volume))
}

func (c *Controller) Mute(ctx context.Context) error {
	return c.exec(ctx, cmdMute)
}

func (c *Controller) Unmute(ctx context.Context) error {
	return c.exec(ctx, cmdUnmute)
}

// GetCurrentTime queries the current playback position. The wait is bounded
// only by ctx: if the surface never responds, the call returns zero with
// ctx.Err() once the context is done.
func (c *Controller) GetCurrentTime(ctx context.Context) (time.Duration, error) {
	v, err := c.request(ctx, RequestCurrentTime)
	if err != nil {
		return 0, err
	}

	return v.(time.Duration), nil
}

func (c *Controller) GetDuration(ctx context.Context) (time.Duration, error) {
	v, err := c.request(ctx, RequestDuration)
	if err != nil {
		return 0, err
	}

	return v.(time.Duration), nil
}

func (c *Controller) GetPlaybackRate(ctx context.Context) (float64, error) {
	v, err := c.request(ctx, RequestPlaybackRate)
	if err != nil {
		return 0, err
	}

	return v.(float64), nil
}

func (c *Controller) IsPaused(ctx context.Context) (bool, error) {
	v, err := c.request(ctx, RequestPaused)
	if err != nil {
		return false, err
	}

	return v.(bool), nil
}

// request opens a fresh pending slot for kind, sends the query command and
// waits for the correlated response. A still-pending request of the same kind
// is superseded; its caller keeps waiting on its own context.
func (c *Controller) request(ctx context.Context, kind RequestKind) (any, error) {
	future := c.correlator.open(kind)

	if err := c.exec(ctx, queryCommand(kind)); err != nil {
		return nil, fmt.Errorf("failed to send %s query: %w", kind, err)
	}

	select {
	case v := <-future:
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c *Controller) exec(ctx context.Context, command string) error {
	if c.isDisposed() {
		return ErrDisposed
	}

	return c.surface.Exec(ctx, command)
}

// StartPlaybackRateUpdates begins polling the playback rate once per second,
// publishing changed values to PlaybackRateUpdates. Calling it while polling
// is already running is a no-op.
func (c *Controller) StartPlaybackRateUpdates() {
	c.poller.start()
}

// StopPlaybackRateUpdates stops the polling loop. It is idempotent and safe
// to call even if polling was never started.
func (c *Controller) StopPlaybackRateUpdates() {
	c.poller.stop()
}

// Status is the stream of playback lifecycle states. The channel is closed by
// Dispose.
func (c *Controller) Status() <-chan Status {
	return c.statusCh
}

// PlaybackRateUpdates is the change-only stream fed by the polling loop. The
// channel is closed by Dispose.
func (c *Controller) PlaybackRateUpdates() <-chan float64 {
	return c.rateCh
}

func (c *Controller) OnRateChange(fn func(rate float64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRateChange = fn
}

func (c *Controller) OnProgressChange(fn func(fraction float64)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onProgressChange = fn
}

func (c *Controller) OnFullscreenChange(fn func(fullscreen bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onFullscreenChange = fn
}

func (c *Controller) OnPipChange(fn func(pip bool)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onPipChange = fn
}

// Dispose stops the polling loop and closes both streams. No events or
// callbacks are delivered afterwards. Requests in flight at disposal time are
// left unresolved.
func (c *Controller) Dispose() {
	c.poller.stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}

	c.disposed = true
	close(c.statusCh)
	close(c.rateCh)
}

func (c *Controller) isDisposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

func (c *Controller) publishStatus(status Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}

	select {
	case c.statusCh <- status:
	default:
		c.logger.Debug("status subscriber is behind, dropping update", "status", status)
	}
}

func (c *Controller) publishRate(rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}

	select {
	case c.rateCh <- rate:
	default:
		c.logger.Debug("rate subscriber is behind, dropping update", "rate", rate)
	}
}
