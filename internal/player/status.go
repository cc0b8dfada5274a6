package player

// Status is the playback lifecycle state reported by the embedded player.
type Status string

const (
	StatusUnknown Status = "unknown"
	StatusReady   Status = "ready"
	StatusPlaying Status = "playing"
	StatusWaiting Status = "waiting"
	StatusPaused  Status = "paused"
	StatusEnded   Status = "ended"
)

// ParseStatus maps a lifecycle event name emitted by the player script to a
// Status. Names outside the known set map to StatusUnknown.
func ParseStatus(event string) Status {
	switch event {
	case "ready":
		return StatusReady
	case "playing":
		return StatusPlaying
	case "waiting":
		return StatusWaiting
	case "pause":
		return StatusPaused
	case "ended":
		return StatusEnded
	default:
		return StatusUnknown
	}
}
