package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelatorResolvesExactlyOnce(t *testing.T) {
	c := newCorrelator()

	future := c.open(RequestPlaybackRate)
	c.resolve(RequestPlaybackRate, 1.5)

	select {
	case v := <-future:
		assert.Equal(t, 1.5, v)
	default:
		t.Fatal("future was not resolved")
	}

	// duplicate resolution is a no-op
	c.resolve(RequestPlaybackRate, 2.0)
	select {
	case v := <-future:
		t.Fatalf("future resolved twice, got %v", v)
	default:
	}
}

func TestCorrelatorResolveWithoutRequest(t *testing.T) {
	c := newCorrelator()

	// must not panic or create a slot
	c.resolve(RequestDuration, 1.0)

	future := c.open(RequestDuration)
	select {
	case v := <-future:
		t.Fatalf("stale value leaked into a fresh request: %v", v)
	default:
	}
}

func TestCorrelatorSupersedesPendingRequest(t *testing.T) {
	c := newCorrelator()

	first := c.open(RequestCurrentTime)
	second := c.open(RequestCurrentTime)
	require.NotEqual(t, first, second)

	c.resolve(RequestCurrentTime, 42)

	select {
	case v := <-first:
		t.Fatalf("superseded future must stay pending forever, got %v", v)
	default:
	}

	select {
	case v := <-second:
		assert.Equal(t, 42, v)
	default:
		t.Fatal("second future was not resolved")
	}
}

func TestCorrelatorKindsAreIndependent(t *testing.T) {
	c := newCorrelator()

	timeFuture := c.open(RequestCurrentTime)
	rateFuture := c.open(RequestPlaybackRate)

	c.resolve(RequestPlaybackRate, 1.25)

	select {
	case v := <-timeFuture:
		t.Fatalf("current time future resolved by playback rate response: %v", v)
	default:
	}

	select {
	case v := <-rateFuture:
		assert.Equal(t, 1.25, v)
	default:
		t.Fatal("playback rate future was not resolved")
	}
}
