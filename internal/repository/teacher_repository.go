package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/course_scheduler/internal/model"
	"github.com/Freeeeeet/course_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TeacherRepository struct {
	*base.Repository
}

func NewTeacherRepository(pool *pgxpool.Pool) *TeacherRepository {
	return &TeacherRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт преподавателя
func (r *TeacherRepository) Create(ctx context.Context, teacher *model.Teacher) error {
	query := `
		INSERT INTO teachers (name, subjects, phone, email, color)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		teacher.Name,
		nonNil(teacher.Subjects),
		teacher.Phone,
		teacher.Email,
		teacher.Color,
	).Scan(&teacher.ID, &teacher.CreatedAt)

	if err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}

	return nil
}

// GetByID получает преподавателя по ID
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*model.Teacher, error) {
	query := `
		SELECT id, name, subjects, phone, email, color, created_at
		FROM teachers
		WHERE id = $1
	`

	var t model.Teacher
	err := r.QueryRow(ctx, query, id).Scan(
		&t.ID,
		&t.Name,
		&t.Subjects,
		&t.Phone,
		&t.Email,
		&t.Color,
		&t.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get teacher by id: %w", err)
	}

	return &t, nil
}

// List получает всех преподавателей
func (r *TeacherRepository) List(ctx context.Context) ([]*model.Teacher, error) {
	query := `
		SELECT id, name, subjects, phone, email, color, created_at
		FROM teachers
		ORDER BY id
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	defer rows.Close()

	var teachers []*model.Teacher
	for rows.Next() {
		var t model.Teacher
		err := rows.Scan(
			&t.ID,
			&t.Name,
			&t.Subjects,
			&t.Phone,
			&t.Email,
			&t.Color,
			&t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan teacher: %w", err)
		}
		teachers = append(teachers, &t)
	}

	return teachers, rows.Err()
}

// Exists проверяет существование преподавателя
func (r *TeacherRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM teachers WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check teacher exists: %w", err)
	}
	return exists, nil
}

// Update обновляет преподавателя
func (r *TeacherRepository) Update(ctx context.Context, teacher *model.Teacher) error {
	query := `
		UPDATE teachers
		SET name = $1, subjects = $2, phone = $3, email = $4, color = $5
		WHERE id = $6
	`

	affected, err := r.ExecAffected(
		ctx, query,
		teacher.Name,
		nonNil(teacher.Subjects),
		teacher.Phone,
		teacher.Email,
		teacher.Color,
		teacher.ID,
	)
	if err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("update teacher %d: %w", teacher.ID, ErrNotFound)
	}

	return nil
}

// Delete удаляет преподавателя
func (r *TeacherRepository) Delete(ctx context.Context, id int64) error {
	affected, err := r.ExecAffected(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("delete teacher %d: %w", id, ErrNotFound)
	}

	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
