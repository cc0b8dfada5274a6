package player

import "sync"

// RequestKind identifies a one-shot value query issued to the surface.
type RequestKind string

const (
	RequestCurrentTime  RequestKind = "current_time"
	RequestDuration     RequestKind = "duration"
	RequestPlaybackRate RequestKind = "playback_rate"
	RequestPaused       RequestKind = "paused"
)

type pendingRequest struct {
	ch   chan any
	done bool
}

// correlator matches one-shot value queries with their response events. At
// most one request of a given kind is in flight at a time; opening a new one
// supersedes the previous, whose future is never fulfilled.
type correlator struct {
	mu      sync.Mutex
	pending map[RequestKind]*pendingRequest
}

func newCorrelator() *correlator {
	return &correlator{pending: make(map[RequestKind]*pendingRequest)}
}

// open registers a new pending request of the given kind and returns its
// future. The future receives exactly one value, or nothing at all if the
// surface never responds or the request is superseded.
func (c *correlator) open(kind RequestKind) <-chan any {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := &pendingRequest{ch: make(chan any, 1)}
	c.pending[kind] = p

	return p.ch
}

// resolve fulfills the pending request of the given kind. Responses that find
// no slot, or a slot that already completed, are ignored so that late and
// duplicate deliveries stay harmless.
func (c *correlator) resolve(kind RequestKind, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.pending[kind]
	if !ok || p.done {
		return
	}

	p.done = true
	p.ch <- value
}
