package booking

import (
	"errors"

	"github.com/Freeeeeet/course_scheduler/internal/timegrid"
)

var (
	ErrInvalidTimeFormat = timegrid.ErrInvalidTimeFormat
	ErrInvalidTimeRange  = errors.New("invalid time range")
	ErrRoomConflict      = errors.New("room conflict")
	ErrDuplicateID       = errors.New("duplicate booking id")
	ErrNotFound          = errors.New("booking not found")
)
