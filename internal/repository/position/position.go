package position

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("position not found")

type SavePositionParams struct {
	VideoID   string
	Position  time.Duration
	UpdatedAt int64
}
