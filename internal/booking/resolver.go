package booking

import (
	"fmt"

	"github.com/Freeeeeet/course_scheduler/internal/model"
	"github.com/Freeeeeet/course_scheduler/internal/timegrid"
)

// Resolver decides whether a candidate booking fits into an Index.
type Resolver struct {
	index *Index
}

func NewResolver(index *Index) *Resolver {
	return &Resolver{index: index}
}

// ValidateTimeOrder fails with ErrInvalidTimeRange unless start is strictly before end.
func (r *Resolver) ValidateTimeOrder(start, end string) error {
	s, err := timegrid.MinutesSinceDayStart(start)
	if err != nil {
		return fmt.Errorf("parse start time: %w", err)
	}
	e, err := timegrid.MinutesSinceDayStart(end)
	if err != nil {
		return fmt.Errorf("parse end time: %w", err)
	}
	if s >= e {
		return fmt.Errorf("%w: %s-%s", ErrInvalidTimeRange, start, end)
	}
	return nil
}

// IsAvailable reports whether the room is free on date for [start, end).
// An empty room never conflicts. excludeID, when set, is left out of the comparison
// so a booking being edited does not collide with its own previous state.
func (r *Resolver) IsAvailable(roomID, date, start, end string, excludeID *int64) (bool, error) {
	conflicts, err := r.Conflicts(roomID, date, start, end, excludeID)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// Conflicts returns the bookings that overlap the candidate range in the same room and date.
func (r *Resolver) Conflicts(roomID, date, start, end string, excludeID *int64) ([]model.Booking, error) {
	if roomID == "" {
		return nil, nil
	}

	s, err := timegrid.MinutesSinceDayStart(start)
	if err != nil {
		return nil, fmt.Errorf("parse start time: %w", err)
	}
	e, err := timegrid.MinutesSinceDayStart(end)
	if err != nil {
		return nil, fmt.Errorf("parse end time: %w", err)
	}

	var conflicts []model.Booking
	for _, existing := range r.index.ByRoom(roomID) {
		if existing.Date != date {
			continue
		}
		if excludeID != nil && existing.ID == *excludeID {
			continue
		}
		exStart, err := timegrid.MinutesSinceDayStart(existing.StartTime)
		if err != nil {
			return nil, fmt.Errorf("booking %d start time: %w", existing.ID, err)
		}
		exEnd, err := timegrid.MinutesSinceDayStart(existing.EndTime)
		if err != nil {
			return nil, fmt.Errorf("booking %d end time: %w", existing.ID, err)
		}
		// касание интервалов конфликтом не считается
		if !(exEnd <= s || exStart >= e) {
			conflicts = append(conflicts, existing)
		}
	}
	return conflicts, nil
}
