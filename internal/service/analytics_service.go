package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/Freeeeeet/course_scheduler/internal/model"
	"github.com/Freeeeeet/course_scheduler/internal/timegrid"
	"go.uber.org/zap"
)

var ErrUnknownRange = errors.New("unknown analytics range")

// Range limits analytics to bookings dated on or after its start
type Range string

const (
	RangeAll   Range = "all"
	RangeWeek  Range = "week"  // с понедельника текущей недели
	RangeMonth Range = "month" // с первого числа текущего месяца
)

func ParseRange(s string) (Range, error) {
	switch Range(s) {
	case "", RangeAll:
		return RangeAll, nil
	case RangeWeek, RangeMonth:
		return Range(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRange, s)
}

// Heatmap covers start hours 09..20 on Monday..Sunday
const (
	HeatmapFirstHour = 9
	HeatmapLastHour  = 20
)

type TeacherWorkload struct {
	TeacherID   int64   `json:"teacher_id"`
	Name        string  `json:"name"`
	Hours       float64 `json:"hours"`
	CourseCount int     `json:"course_count"`
}

type SubjectCount struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
}

// HeatCell counts bookings starting in one hour of one weekday.
// Weekday is 0 for Monday through 6 for Sunday.
type HeatCell struct {
	Hour    int `json:"hour"`
	Weekday int `json:"weekday"`
	Count   int `json:"count"`
}

type TeacherSubjectDetail struct {
	TeacherID   int64   `json:"teacher_id"`
	TeacherName string  `json:"teacher_name"`
	Subject     string  `json:"subject"`
	Hours       float64 `json:"hours"`
	CourseCount int     `json:"course_count"`
}

type RoomUsage struct {
	RoomID   string  `json:"room_id"`
	Name     string  `json:"name"`
	Capacity int     `json:"capacity"`
	Bookings int     `json:"bookings"`
	Hours    float64 `json:"hours"`
}

type Report struct {
	Range             Range                  `json:"range"`
	GeneratedAt       time.Time              `json:"generated_at"`
	Workloads         []TeacherWorkload      `json:"workloads"`
	Subjects          []SubjectCount         `json:"subjects"`
	Heatmap           []HeatCell             `json:"heatmap"`
	Details           []TeacherSubjectDetail `json:"details"`
	Rooms             []RoomUsage            `json:"rooms"`
	RoomsInUsePercent float64                `json:"rooms_in_use_percent"`
}

// BookingSource is satisfied by ScheduleService
type BookingSource interface {
	ListBookings(filter BookingFilter) []model.Booking
}

type AnalyticsService struct {
	bookings BookingSource
	teachers TeacherDirectory
	rooms    RoomDirectory
	now      func() time.Time
	logger   *zap.Logger
}

func NewAnalyticsService(bookings BookingSource, teachers TeacherDirectory, rooms RoomDirectory, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		bookings: bookings,
		teachers: teachers,
		rooms:    rooms,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock replaces the clock used to resolve week and month ranges
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

// Build aggregates the bookings that fall into r
func (s *AnalyticsService) Build(ctx context.Context, r Range) (*Report, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}

	now := s.now()
	bookings := filterByRange(s.bookings.ListBookings(BookingFilter{}), r, now)

	report := &Report{
		Range:       r,
		GeneratedAt: now,
		Workloads:   workloads(teachers, bookings),
		Subjects:    subjectDistribution(bookings),
		Heatmap:     heatmap(bookings),
		Details:     teacherSubjectDetails(teachers, bookings),
	}
	report.Rooms, report.RoomsInUsePercent = roomUsage(rooms, bookings)

	s.logger.Debug("Analytics built",
		zap.String("range", string(r)),
		zap.Int("bookings", len(bookings)),
	)

	return report, nil
}

func filterByRange(bookings []model.Booking, r Range, now time.Time) []model.Booking {
	if r == RangeAll || r == "" {
		return bookings
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	var from time.Time
	switch r {
	case RangeWeek:
		from = today.AddDate(0, 0, -mondayIndex(today.Weekday()))
	case RangeMonth:
		from = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	var result []model.Booking
	for _, b := range bookings {
		d, err := time.Parse(time.DateOnly, b.Date)
		if err != nil {
			continue
		}
		if !d.Before(from) {
			result = append(result, b)
		}
	}
	return result
}

// mondayIndex maps Monday..Sunday to 0..6
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// durationHours returns the booking length in hours; malformed times count as zero
func durationHours(b model.Booking) float64 {
	start, err := timegrid.MinutesSinceDayStart(b.StartTime)
	if err != nil {
		return 0
	}
	end, err := timegrid.MinutesSinceDayStart(b.EndTime)
	if err != nil {
		return 0
	}
	return float64(end-start) / 60
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func workloads(teachers []*model.Teacher, bookings []model.Booking) []TeacherWorkload {
	result := make([]TeacherWorkload, 0, len(teachers))
	for _, t := range teachers {
		w := TeacherWorkload{TeacherID: t.ID, Name: t.Name}
		var hours float64
		for _, b := range bookings {
			if b.TeacherID != t.ID {
				continue
			}
			hours += durationHours(b)
			w.CourseCount++
		}
		w.Hours = round1(hours)
		result = append(result, w)
	}

	slices.SortStableFunc(result, func(a, b TeacherWorkload) int {
		switch {
		case a.Hours > b.Hours:
			return -1
		case a.Hours < b.Hours:
			return 1
		}
		return 0
	})
	return result
}

func subjectDistribution(bookings []model.Booking) []SubjectCount {
	var result []SubjectCount
	pos := make(map[string]int)
	for _, b := range bookings {
		i, ok := pos[b.Subject]
		if !ok {
			i = len(result)
			pos[b.Subject] = i
			result = append(result, SubjectCount{Subject: b.Subject})
		}
		result[i].Count++
	}

	slices.SortStableFunc(result, func(a, b SubjectCount) int {
		return b.Count - a.Count
	})
	return result
}

func heatmap(bookings []model.Booking) []HeatCell {
	hours := HeatmapLastHour - HeatmapFirstHour + 1
	cells := make([]HeatCell, 0, 7*hours)
	for day := 0; day < 7; day++ {
		for h := 0; h < hours; h++ {
			cells = append(cells, HeatCell{Hour: HeatmapFirstHour + h, Weekday: day})
		}
	}

	for _, b := range bookings {
		d, err := time.Parse(time.DateOnly, b.Date)
		if err != nil {
			continue
		}
		start, err := timegrid.MinutesSinceDayStart(b.StartTime)
		if err != nil {
			continue
		}
		h := start / 60
		if h < HeatmapFirstHour || h > HeatmapLastHour {
			continue
		}
		cells[mondayIndex(d.Weekday())*hours+h-HeatmapFirstHour].Count++
	}
	return cells
}

func teacherSubjectDetails(teachers []*model.Teacher, bookings []model.Booking) []TeacherSubjectDetail {
	var result []TeacherSubjectDetail
	for _, t := range teachers {
		pos := make(map[string]int)
		var details []TeacherSubjectDetail
		for _, b := range bookings {
			if b.TeacherID != t.ID {
				continue
			}
			i, ok := pos[b.Subject]
			if !ok {
				i = len(details)
				pos[b.Subject] = i
				details = append(details, TeacherSubjectDetail{
					TeacherID:   t.ID,
					TeacherName: t.Name,
					Subject:     b.Subject,
				})
			}
			details[i].Hours += durationHours(b)
			details[i].CourseCount++
		}
		for i := range details {
			details[i].Hours = round1(details[i].Hours)
		}
		result = append(result, details...)
	}
	return result
}

func roomUsage(rooms []*model.Room, bookings []model.Booking) ([]RoomUsage, float64) {
	result := make([]RoomUsage, 0, len(rooms))
	inUse := 0
	for _, r := range rooms {
		u := RoomUsage{RoomID: r.ID, Name: r.Name, Capacity: r.Capacity}
		var hours float64
		for _, b := range bookings {
			if b.RoomID != r.ID {
				continue
			}
			hours += durationHours(b)
			u.Bookings++
		}
		u.Hours = round1(hours)
		if u.Bookings > 0 {
			inUse++
		}
		result = append(result, u)
	}

	if len(rooms) == 0 {
		return result, 0
	}
	return result, round1(float64(inUse) * 100 / float64(len(rooms)))
}
