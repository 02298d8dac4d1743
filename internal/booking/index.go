package booking

import (
	"fmt"

	"github.com/Freeeeeet/course_scheduler/internal/model"
)

// Index holds the current set of bookings in insertion order.
// It is not safe for concurrent use; callers serialize access.
type Index struct {
	bookings []model.Booking
	colors   *Palette
}

// NewIndex creates an index seeded with bookings (for example a loaded snapshot).
func NewIndex(bookings []model.Booking, colors *Palette) (*Index, error) {
	if colors == nil {
		colors = NewPalette()
	}
	idx := &Index{colors: colors}
	for _, b := range bookings {
		if err := idx.Add(b); err != nil {
			return nil, err
		}
	}
	return idx, nil
}

// Len returns the number of bookings
func (x *Index) Len() int {
	return len(x.bookings)
}

// Add appends a booking. The id must not already be present.
func (x *Index) Add(b model.Booking) error {
	if x.position(b.ID) >= 0 {
		return fmt.Errorf("%w: %d", ErrDuplicateID, b.ID)
	}
	if b.Color == "" {
		b.Color = x.colors.ColorFor(b.Subject)
	}
	x.bookings = append(x.bookings, b.Clone())
	return nil
}

// Remove deletes the booking with the given id. Missing ids are ignored.
func (x *Index) Remove(id int64) bool {
	pos := x.position(id)
	if pos < 0 {
		return false
	}
	x.bookings = append(x.bookings[:pos], x.bookings[pos+1:]...)
	return true
}

// Update overwrites the patched fields of a booking and returns its new state.
// Changing the subject re-derives the display color.
func (x *Index) Update(id int64, patch model.BookingPatch) (model.Booking, error) {
	pos := x.position(id)
	if pos < 0 {
		return model.Booking{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	b := &x.bookings[pos]
	if patch.Subject != nil {
		b.Subject = *patch.Subject
		b.Color = x.colors.ColorFor(b.Subject)
	}
	if patch.Date != nil {
		b.Date = *patch.Date
	}
	if patch.StartTime != nil {
		b.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		b.EndTime = *patch.EndTime
	}
	if patch.RoomID != nil {
		b.RoomID = *patch.RoomID
	}
	if patch.Students != nil {
		b.Students = append([]string(nil), (*patch.Students)...)
	}

	return b.Clone(), nil
}

// Get returns the booking with the given id.
func (x *Index) Get(id int64) (model.Booking, error) {
	pos := x.position(id)
	if pos < 0 {
		return model.Booking{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return x.bookings[pos].Clone(), nil
}

// All returns a copy of every booking
func (x *Index) All() []model.Booking {
	return x.filter(func(*model.Booking) bool { return true })
}

func (x *Index) ByTeacher(teacherID int64) []model.Booking {
	return x.filter(func(b *model.Booking) bool { return b.TeacherID == teacherID })
}

func (x *Index) ByRoom(roomID string) []model.Booking {
	return x.filter(func(b *model.Booking) bool { return b.RoomID == roomID })
}

func (x *Index) ByDate(date string) []model.Booking {
	return x.filter(func(b *model.Booking) bool { return b.Date == date })
}

// RemoveByTeacher deletes every booking owned by the teacher and returns how many were removed.
func (x *Index) RemoveByTeacher(teacherID int64) int {
	kept := x.bookings[:0]
	removed := 0
	for _, b := range x.bookings {
		if b.TeacherID == teacherID {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	clear(x.bookings[len(kept):])
	x.bookings = kept
	return removed
}

// ClearRoomAssignment unassigns the room from every booking that uses it.
// The bookings themselves are kept.
func (x *Index) ClearRoomAssignment(roomID string) int {
	if roomID == "" {
		return 0
	}
	cleared := 0
	for i := range x.bookings {
		if x.bookings[i].RoomID == roomID {
			x.bookings[i].RoomID = ""
			cleared++
		}
	}
	return cleared
}

func (x *Index) position(id int64) int {
	for i := range x.bookings {
		if x.bookings[i].ID == id {
			return i
		}
	}
	return -1
}

func (x *Index) filter(keep func(*model.Booking) bool) []model.Booking {
	out := make([]model.Booking, 0)
	for i := range x.bookings {
		if keep(&x.bookings[i]) {
			out = append(out, x.bookings[i].Clone())
		}
	}
	return out
}
