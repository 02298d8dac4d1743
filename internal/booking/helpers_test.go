package booking

import (
	"testing"

	"github.com/Freeeeeet/course_scheduler/internal/model"
	"github.com/stretchr/testify/require"
)

type seqIDs struct {
	next int64
}

func (s *seqIDs) NextID() int64 {
	s.next++
	return s.next
}

func newTestCore(t *testing.T, bookings ...model.Booking) (*Index, *Resolver, *Committer) {
	t.Helper()
	idx, err := NewIndex(bookings, nil)
	require.NoError(t, err)
	res := NewResolver(idx)
	return idx, res, NewCommitter(idx, res, &seqIDs{next: 1000})
}

func ptr[T any](v T) *T {
	return &v
}

func sample(id int64, teacherID int64, room, date, start, end string) model.Booking {
	return model.Booking{
		ID:        id,
		TeacherID: teacherID,
		RoomID:    room,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		Subject:   "Piano",
		Students:  []string{"Anna", "Boris"},
	}
}
