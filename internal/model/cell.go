package model

// Cell is one grid cell addressed by the UI while dragging.
// Time is empty for coarse views (month) that have no time coordinate.
type Cell struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Time      string `json:"time" validate:"omitempty,len=5"`
	TeacherID int64  `json:"teacher_id" validate:"required,gt=0"`
}

// HasTime reports whether the cell carries a time-of-day coordinate
func (c Cell) HasTime() bool {
	return c.Time != ""
}
