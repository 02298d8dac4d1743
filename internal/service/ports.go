package service

import (
	"context"

	"github.com/Freeeeeet/course_scheduler/internal/model"
)

// BookingStore persists the whole booking set as one snapshot.
type BookingStore interface {
	LoadBookings(ctx context.Context) ([]model.Booking, error)
	SaveBookings(ctx context.Context, bookings []model.Booking) error
}

// TeacherDirectory is implemented by repository.TeacherRepository.
// GetByID returns (nil, nil) when the teacher does not exist.
type TeacherDirectory interface {
	Create(ctx context.Context, teacher *model.Teacher) error
	GetByID(ctx context.Context, id int64) (*model.Teacher, error)
	List(ctx context.Context) ([]*model.Teacher, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Update(ctx context.Context, teacher *model.Teacher) error
	Delete(ctx context.Context, id int64) error
}

// RoomDirectory is implemented by repository.RoomRepository.
// GetByID returns (nil, nil) when the room does not exist.
type RoomDirectory interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	List(ctx context.Context) ([]*model.Room, error)
	Exists(ctx context.Context, id string) (bool, error)
	Update(ctx context.Context, room *model.Room) error
	Delete(ctx context.Context, id string) error
}

// Notifier is told about committed and deleted bookings. Failures are only logged.
type Notifier interface {
	BookingCommitted(ctx context.Context, b model.Booking, edited bool) error
	BookingDeleted(ctx context.Context, b model.Booking) error
}

type noopNotifier struct{}

func (noopNotifier) BookingCommitted(context.Context, model.Booking, bool) error { return nil }
func (noopNotifier) BookingDeleted(context.Context, model.Booking) error { return nil }
