package player

import "time"

// Options configure a single player session. They are fixed at construction
// and only read when building outgoing commands and the embed page.
type Options struct {
	VideoID    string        `json:"video_id" validate:"required"`
	Autoplay   bool          `json:"autoplay"`
	Loop       bool          `json:"loop"`
	Muted      bool          `json:"muted"`
	StartAt    time.Duration `json:"start_at" validate:"min=0"`
	ExternalID string        `json:"external_id"`
	UserAgent  string        `json:"user_agent"`
	BaseURL    string        `json:"base_url" validate:"omitempty,url"`
}
