package booking

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/course_scheduler/internal/model"
)

// IDSource hands out booking ids.
type IDSource interface {
	NextID() int64
}

// ClockIDs produces timestamp-based ids in milliseconds, strictly increasing
// even when several ids are requested within the same millisecond.
type ClockIDs struct {
	Now  func() time.Time
	last int64
}

func (c *ClockIDs) NextID() int64 {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	id := now().UnixMilli()
	if id <= c.last {
		id = c.last + 1
	}
	c.last = id
	return id
}

// Committer validates a BookingRequest against the index and applies it.
type Committer struct {
	index    *Index
	resolver *Resolver
	ids      IDSource
}

func NewCommitter(index *Index, resolver *Resolver, ids IDSource) *Committer {
	if ids == nil {
		ids = &ClockIDs{}
	}
	return &Committer{index: index, resolver: resolver, ids: ids}
}

// Commit creates a booking, or edits the one named by req.ExcludeID, and returns its
// post-commit state. Nothing is modified when validation fails.
//
// On edit the schedule fields (date, times, room) are always overwritten; subject and
// students are only overwritten when the request carries them.
func (c *Committer) Commit(req model.BookingRequest) (model.Booking, error) {
	if err := c.resolver.ValidateTimeOrder(req.StartTime, req.EndTime); err != nil {
		return model.Booking{}, err
	}

	ok, err := c.resolver.IsAvailable(req.RoomID, req.Date, req.StartTime, req.EndTime, req.ExcludeID)
	if err != nil {
		return model.Booking{}, fmt.Errorf("check room availability: %w", err)
	}
	if !ok {
		return model.Booking{}, fmt.Errorf("%w: room %s on %s %s-%s", ErrRoomConflict, req.RoomID, req.Date, req.StartTime, req.EndTime)
	}

	if req.IsEdit() {
		return c.index.Update(*req.ExcludeID, patchFromRequest(req))
	}

	b := model.Booking{
		ID:        c.freshID(),
		TeacherID: req.TeacherID,
		RoomID:    req.RoomID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Subject:   req.Subject,
		Students:  req.Students,
	}
	if err := c.index.Add(b); err != nil {
		return model.Booking{}, err
	}
	return c.index.Get(b.ID)
}

// Delete removes a booking. Deleting an unknown id is not an error.
func (c *Committer) Delete(id int64) bool {
	return c.index.Remove(id)
}

func (c *Committer) freshID() int64 {
	id := c.ids.NextID()
	for c.index.position(id) >= 0 {
		id = c.ids.NextID()
	}
	return id
}

func patchFromRequest(req model.BookingRequest) model.BookingPatch {
	patch := model.BookingPatch{
		Date:      &req.Date,
		StartTime: &req.StartTime,
		EndTime:   &req.EndTime,
		RoomID:    &req.RoomID,
	}
	if req.Subject != "" {
		patch.Subject = &req.Subject
	}
	if req.Students != nil {
		patch.Students = &req.Students
	}
	return patch
}
