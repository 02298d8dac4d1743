package model

import "time"

type Teacher struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required,max=100"`
	Subjects  []string  `json:"subjects"` // предметы, которые ведёт преподаватель
	Phone     string    `json:"phone" validate:"max=32"`
	Email     string    `json:"email" validate:"omitempty,email"`
	Color     string    `json:"color" validate:"omitempty,hexcolor"`
	CreatedAt time.Time `json:"created_at"`
}

// Teaches checks if the teacher lists the subject
func (t *Teacher) Teaches(subject string) bool {
	for _, s := range t.Subjects {
		if s == subject {
			return true
		}
	}
	return false
}
