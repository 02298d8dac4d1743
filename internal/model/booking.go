package model

// Booking is a scheduled course occupying a teacher, an optional room, a date and a time range.
type Booking struct {
	ID        int64    `json:"id"`
	TeacherID int64    `json:"teacher_id"`
	RoomID    string   `json:"room_id"`    // пусто, если аудитория не назначена
	Date      string   `json:"date"`       // YYYY-MM-DD
	StartTime string   `json:"start_time"` // HH:MM
	EndTime   string   `json:"end_time"`   // HH:MM
	Subject   string   `json:"subject"`
	Color     string   `json:"color"`
	Students  []string `json:"students"`
}

// HasRoom reports whether a room is assigned
func (b *Booking) HasRoom() bool {
	return b.RoomID != ""
}

// Clone returns a copy that does not share the Students slice
func (b Booking) Clone() Booking {
	if b.Students != nil {
		students := make([]string, len(b.Students))
		copy(students, b.Students)
		b.Students = students
	}
	return b
}

// BookingRequest is a candidate booking produced by a selection or a form.
// ExcludeID is set when an existing booking is being edited in place.
type BookingRequest struct {
	Date      string   `json:"date" validate:"required,datetime=2006-01-02"`
	TeacherID int64    `json:"teacher_id" validate:"required,gt=0"`
	StartTime string   `json:"start_time" validate:"required,len=5"`
	EndTime   string   `json:"end_time" validate:"required,len=5"`
	RoomID    string   `json:"room_id"`
	Subject   string   `json:"subject" validate:"max=120"`
	Students  []string `json:"students"`
	ExcludeID *int64   `json:"exclude_id,omitempty"`
}

// IsEdit reports whether the request replaces an existing booking
func (r *BookingRequest) IsEdit() bool {
	return r.ExcludeID != nil
}

// BookingPatch lists the mutable fields of a Booking. Nil fields are left untouched.
type BookingPatch struct {
	Subject   *string   `json:"subject,omitempty"`
	Date      *string   `json:"date,omitempty"`
	StartTime *string   `json:"start_time,omitempty"`
	EndTime   *string   `json:"end_time,omitempty"`
	RoomID    *string   `json:"room_id,omitempty"`
	Students  *[]string `json:"students,omitempty"`
}
