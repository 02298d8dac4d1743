package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/course_scheduler/internal/model"
	"github.com/Freeeeeet/course_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var bookingColumns = []string{"id", "teacher_id", "room_id", "date", "start_time", "end_time", "subject", "color", "students", "position"}

// BookingRepository stores the booking set as a whole snapshot
type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// LoadBookings reads the snapshot back in the order it was saved
func (r *BookingRepository) LoadBookings(ctx context.Context) ([]model.Booking, error) {
	query := `
		SELECT id, teacher_id, room_id, date, start_time, end_time, subject, color, students
		FROM bookings
		ORDER BY position
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		var b model.Booking
		err := rows.Scan(
			&b.ID,
			&b.TeacherID,
			&b.RoomID,
			&b.Date,
			&b.StartTime,
			&b.EndTime,
			&b.Subject,
			&b.Color,
			&b.Students,
		)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

// SaveBookings replaces the stored snapshot in one transaction
func (r *BookingRepository) SaveBookings(ctx context.Context, bookings []model.Booking) error {
	return r.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM bookings`); err != nil {
			return fmt.Errorf("clear bookings: %w", err)
		}

		_, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{"bookings"},
			bookingColumns,
			pgx.CopyFromSlice(len(bookings), func(i int) ([]any, error) {
				b := bookings[i]
				students := b.Students
				if students == nil {
					students = []string{}
				}
				return []any{b.ID, b.TeacherID, b.RoomID, b.Date, b.StartTime, b.EndTime, b.Subject, b.Color, students, i}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("copy bookings: %w", err)
		}
		return nil
	})
}
