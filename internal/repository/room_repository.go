package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/course_scheduler/internal/booking"
	"github.com/Freeeeeet/course_scheduler/internal/model"
	"github.com/Freeeeeet/course_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomRepository struct {
	*base.Repository
}

func NewRoomRepository(pool *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт аудиторию; ID задаёт вызывающий
func (r *RoomRepository) Create(ctx context.Context, room *model.Room) error {
	query := `
		INSERT INTO rooms (id, name, capacity, equipment)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.QueryRow(
		ctx, query,
		room.ID,
		room.Name,
		room.Capacity,
		nonNil(room.Equipment),
	).Scan(&room.CreatedAt)

	if err != nil {
		// параллельная вставка с тем же ID
		if base.IsUniqueViolation(err) {
			return fmt.Errorf("create room %s: %w", room.ID, booking.ErrDuplicateID)
		}
		return fmt.Errorf("create room: %w", err)
	}

	return nil
}

// GetByID получает аудиторию по ID
func (r *RoomRepository) GetByID(ctx context.Context, id string) (*model.Room, error) {
	query := `
		SELECT id, name, capacity, equipment, created_at
		FROM rooms
		WHERE id = $1
	`

	var room model.Room
	err := r.QueryRow(ctx, query, id).Scan(
		&room.ID,
		&room.Name,
		&room.Capacity,
		&room.Equipment,
		&room.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get room by id: %w", err)
	}

	return &room, nil
}

// List получает все аудитории
func (r *RoomRepository) List(ctx context.Context) ([]*model.Room, error) {
	query := `
		SELECT id, name, capacity, equipment, created_at
		FROM rooms
		ORDER BY name, id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*model.Room
	for rows.Next() {
		var room model.Room
		err := rows.Scan(
			&room.ID,
			&room.Name,
			&room.Capacity,
			&room.Equipment,
			&room.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, &room)
	}

	return rooms, rows.Err()
}

// Exists проверяет существование аудитории
func (r *RoomRepository) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM rooms WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check room exists: %w", err)
	}
	return exists, nil
}

// Update обновляет аудиторию
func (r *RoomRepository) Update(ctx context.Context, room *model.Room) error {
	query := `
		UPDATE rooms
		SET name = $1, capacity = $2, equipment = $3
		WHERE id = $4
	`

	affected, err := r.ExecAffected(
		ctx, query,
		room.Name,
		room.Capacity,
		nonNil(room.Equipment),
		room.ID,
	)
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("update room %s: %w", room.ID, ErrNotFound)
	}

	return nil
}

// Delete удаляет аудиторию
func (r *RoomRepository) Delete(ctx context.Context, id string) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("delete room %s: %w", id, ErrNotFound)
	}

	return nil
}
