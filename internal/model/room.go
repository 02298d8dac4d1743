package model

import "time"

type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"required,max=100"`
	Capacity  int       `json:"capacity" validate:"gte=0"`
	Equipment []string  `json:"equipment"` // проектор, доска и т.п.
	CreatedAt time.Time `json:"created_at"`
}
