// Package export writes bookings as JSON documents and CSV tables.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Freeeeeet/course_scheduler/internal/model"
)

const (
	Version    = "1.0"
	Unassigned = "unassigned"
)

var csvHeader = []string{
	"teacher_id",
	"teacher_name",
	"subject",
	"date",
	"start_time",
	"end_time",
	"room",
	"student_count",
}

// Document is the envelope of every JSON export
type Document struct {
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

type TeacherSchedule struct {
	Teacher   *model.Teacher  `json:"teacher"`
	Schedules []model.Booking `json:"schedules"`
}

// TeacherJSON writes one teacher with their bookings
func TeacherJSON(w io.Writer, teacher *model.Teacher, bookings []model.Booking, now time.Time) error {
	return writeJSON(w, Document{
		Version:   Version,
		Timestamp: now.UTC(),
		Data: TeacherSchedule{
			Teacher:   teacher,
			Schedules: ofTeacher(bookings, teacher.ID),
		},
	})
}

// AllJSON writes every teacher keyed by id. Bookings of unknown teachers are left out.
func AllJSON(w io.Writer, teachers []*model.Teacher, bookings []model.Booking, now time.Time) error {
	data := make(map[string]TeacherSchedule, len(teachers))
	for _, t := range teachers {
		data[strconv.FormatInt(t.ID, 10)] = TeacherSchedule{
			Teacher:   t,
			Schedules: ofTeacher(bookings, t.ID),
		}
	}

	return writeJSON(w, Document{Version: Version, Timestamp: now.UTC(), Data: data})
}

func writeJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// CSV writes one row per booking, grouped by teacher in the given order.
// Rooms are written by name; bookings without a known room get "unassigned".
// The output starts with a UTF-8 BOM so spreadsheet tools detect the encoding.
func CSV(w io.Writer, teachers []*model.Teacher, rooms []*model.Room, bookings []model.Booking) error {
	roomNames := make(map[string]string, len(rooms))
	for _, r := range rooms {
		roomNames[r.ID] = r.Name
	}

	if _, err := io.WriteString(w, "\uFEFF"); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, t := range teachers {
		for _, b := range ofTeacher(bookings, t.ID) {
			room, ok := roomNames[b.RoomID]
			if !ok || !b.HasRoom() {
				room = Unassigned
			}
			record := []string{
				strconv.FormatInt(t.ID, 10),
				t.Name,
				b.Subject,
				b.Date,
				b.StartTime,
				b.EndTime,
				room,
				strconv.Itoa(len(b.Students)),
			}
			if err := cw.Write(record); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func ofTeacher(bookings []model.Booking, teacherID int64) []model.Booking {
	result := []model.Booking{}
	for _, b := range bookings {
		if b.TeacherID == teacherID {
			result = append(result, b)
		}
	}
	return result
}
