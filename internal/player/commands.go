package player

import (
	"fmt"
	"strconv"
	"time"
)

// Script statements understood by the player page. They are forwarded to the
// surface verbatim.
const (
	cmdPlay   = "play();"
	cmdPause  = "pause();"
	cmdStop   = "stop();"
	cmdMute   = "mute();"
	cmdUnmute = "unmute();"
	cmdResize = "resize();"

	cmdGetCurrentTime  = "getCurrentTime();"
	cmdGetDuration     = "getDuration();"
	cmdGetPlaybackRate = "getPlaybackRate();"
	cmdIsPaused        = "isPaused();"
)

func loadCommand(videoID string) string {
	return fmt.Sprintf("loadVideo(%q);", videoID)
}

func seekCommand(position time.Duration) string {
	return fmt.Sprintf("seekTo(%s);", formatNumber(position.Seconds()))
}

func volumeCommand(volume float64) string {
	return fmt.Sprintf("setVolume(%s);", formatNumber(volume))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func queryCommand(kind RequestKind) string {
	switch kind {
	case RequestCurrentTime:
		return cmdGetCurrentTime
	case RequestDuration:
		return cmdGetDuration
	case RequestPlaybackRate:
		return cmdGetPlaybackRate
	case RequestPaused:
		return cmdIsPaused
	default:
		return ""
	}
}
