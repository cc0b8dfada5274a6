package player

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const defaultPollInterval = time.Second

// ratePoller periodically samples the playback rate and republishes it only
// when the value differs from the last published one. The baseline rate is
// 1.0 and is never published itself.
type ratePoller struct {
	fetch    func(context.Context) (float64, error)
	publish  func(float64)
	interval time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	cancel   context.CancelFunc
	lastRate float64
}

func newRatePoller(fetch func(context.Context) (float64, error), publish func(float64), interval time.Duration, logger *slog.Logger) *ratePoller {
	return &ratePoller{
		fetch:    fetch,
		publish:  publish,
		interval: interval,
		logger:   logger,
		lastRate: 1,
	}
}

// start launches the ticking loop. A second start while running is a no-op.
func (p *ratePoller) start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go p.run(ctx)
}

// stop cancels the ticking loop. It is idempotent and safe to call before
// any start.
func (p *ratePoller) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel == nil {
		return
	}

	p.cancel()
	p.cancel = nil
}

func (p *ratePoller) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick fetches one sample. Fetch failures are logged and swallowed so that
// the loop keeps ticking.
func (p *ratePoller) tick(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.interval)
	defer cancel()

	rate, err := p.fetch(fetchCtx)
	if err != nil {
		p.logger.Debug("playback rate poll failed", "error", err)
		return
	}

	p.mu.Lock()
	changed := rate != p.lastRate
	if changed {
		p.lastRate = rate
	}
	p.mu.Unlock()

	if changed {
		p.publish(rate)
	}
}
