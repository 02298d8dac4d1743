package http

import (
	"bytes"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"testing"

	"github.com/Freeeeeet/course_scheduler/internal/booking"
	"github.com/Freeeeeet/course_scheduler/internal/model"
	"github.com/Freeeeeet/course_scheduler/internal/repository"
	"github.com/Freeeeeet/course_scheduler/internal/selection"
	"github.com/Freeeeeet/course_scheduler/internal/service"
	"github.com/Freeeeeet/course_scheduler/internal/timegrid"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingBody(teacherID int64, room, date, start, end string) map[string]any {
	return map[string]any{
		"teacher_id": teacherID,
		"room_id":    room,
		"date":       date,
		"start_time": start,
		"end_time":   end,
		"subject":    "Piano",
		"students":   []string{"Li"},
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", booking.ErrInvalidTimeFormat), fiber.StatusBadRequest},
		{booking.ErrInvalidTimeRange, fiber.StatusBadRequest},
		{service.ErrUnknownRange, fiber.StatusBadRequest},
		{booking.ErrNotFound, fiber.StatusNotFound},
		{service.ErrTeacherNotFound, fiber.StatusNotFound},
		{service.ErrRoomNotFound, fiber.StatusNotFound},
		{selection.ErrSessionNotFound, fiber.StatusNotFound},
		{fmt.Errorf("delete room r1: %w", repository.ErrNotFound), fiber.StatusNotFound},
		{fmt.Errorf("commit: %w", booking.ErrRoomConflict), fiber.StatusConflict},
		{booking.ErrDuplicateID, fiber.StatusConflict},
		{fmt.Errorf("create room r1: %w", booking.ErrDuplicateID), fiber.StatusConflict},
		{fiber.NewError(fiber.StatusTeapot, "tea"), fiber.StatusTeapot},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

func TestGrid(t *testing.T) {
	s := newTestServer(t)

	code, env, _ := do(t, s, fiber.MethodGet, "/api/grid", nil)
	require.Equal(t, fiber.StatusOK, code)
	grid := decode[gridResponse](t, env.Data)
	assert.Equal(t, "09:00", grid.Open)
	assert.Equal(t, "22:00", grid.Close)
	assert.Len(t, grid.Slots, 26)

	code, env, _ = do(t, s, fiber.MethodGet, "/api/grid?view=week", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, decode[gridResponse](t, env.Data).Slots, 28)

	code, _, _ = do(t, s, fiber.MethodGet, "/api/grid?view=month", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestGridUsesConfiguredWeekBounds(t *testing.T) {
	week, err := timegrid.New("07:00", "20:00")
	require.NoError(t, err)
	s := newTestServerWithGrids(t, timegrid.Default, week)

	code, env, _ := do(t, s, fiber.MethodGet, "/api/grid?view=week", nil)
	require.Equal(t, fiber.StatusOK, code)
	grid := decode[gridResponse](t, env.Data)
	assert.Equal(t, "07:00", grid.Open)
	assert.Equal(t, "20:00", grid.Close)
	assert.Len(t, grid.Slots, 26)
}

func TestBookingLifecycle(t *testing.T) {
	s := newTestServer(t)

	code, env, _ := do(t, s, fiber.MethodPost, "/api/bookings", bookingBody(1, "r1", "2024-05-13", "10:00", "11:00"))
	require.Equal(t, fiber.StatusCreated, code, env.Error)
	b := decode[model.Booking](t, env.Data)
	assert.Equal(t, int64(1), b.ID)
	assert.NotEmpty(t, b.Color)

	// пересечение в той же аудитории
	code, env, _ = do(t, s, fiber.MethodPost, "/api/bookings", bookingBody(2, "r1", "2024-05-13", "10:30", "11:30"))
	assert.Equal(t, fiber.StatusConflict, code)
	assert.False(t, env.Success)
	assert.Equal(t, fiber.StatusConflict, env.Code)

	// касание допустимо
	code, _, _ = do(t, s, fiber.MethodPost, "/api/bookings", bookingBody(2, "r1", "2024-05-13", "11:00", "12:00"))
	assert.Equal(t, fiber.StatusCreated, code)

	// редактирование на месте не конфликтует само с собой
	code, env, _ = do(t, s, fiber.MethodPut, "/api/bookings/1", bookingBody(1, "r1", "2024-05-13", "09:30", "10:30"))
	require.Equal(t, fiber.StatusOK, code, env.Error)
	assert.Equal(t, "09:30", decode[model.Booking](t, env.Data).StartTime)

	code, env, _ = do(t, s, fiber.MethodGet, "/api/bookings?teacher_id=1", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, decode[[]model.Booking](t, env.Data), 1)

	code, _, _ = do(t, s, fiber.MethodDelete, "/api/bookings/1", nil)
	assert.Equal(t, fiber.StatusNoContent, code)

	code, _, _ = do(t, s, fiber.MethodGet, "/api/bookings/1", nil)
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _, _ = do(t, s, fiber.MethodDelete, "/api/bookings/1", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestCreateBookingValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"end before start", bookingBody(1, "r1", "2024-05-13", "11:00", "10:00"), fiber.StatusBadRequest},
		{"bad time", bookingBody(1, "r1", "2024-05-13", "25:00", "26:00"), fiber.StatusBadRequest},
		{"bad date", bookingBody(1, "r1", "13.05.2024", "10:00", "11:00"), fiber.StatusBadRequest},
		{"missing teacher", bookingBody(0, "r1", "2024-05-13", "10:00", "11:00"), fiber.StatusBadRequest},
		{"unknown teacher", bookingBody(9, "r1", "2024-05-13", "10:00", "11:00"), fiber.StatusNotFound},
		{"unknown room", bookingBody(1, "r9", "2024-05-13", "10:00", "11:00"), fiber.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env, _ := do(t, s, fiber.MethodPost, "/api/bookings", tt.body)
			assert.Equal(t, tt.want, code, env.Error)
			assert.False(t, env.Success)
		})
	}

	code, env, _ := do(t, s, fiber.MethodGet, "/api/bookings", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestAvailability(t *testing.T) {
	s := newTestServer(t)

	code, _, _ := do(t, s, fiber.MethodPost, "/api/bookings", bookingBody(1, "r1", "2024-05-13", "10:00", "11:00"))
	require.Equal(t, fiber.StatusCreated, code)

	code, env, _ := do(t, s, fiber.MethodGet, "/api/availability?room_id=r1&date=2024-05-13&start=10:30&end=11:30", nil)
	require.Equal(t, fiber.StatusOK, code)
	a := decode[service.Availability](t, env.Data)
	assert.False(t, a.Available)
	assert.Len(t, a.Conflicts, 1)

	code, env, _ = do(t, s, fiber.MethodGet, "/api/availability?room_id=r1&date=2024-05-13&start=10:30&end=11:30&exclude_id=1", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.True(t, decode[service.Availability](t, env.Data).Available)

	code, env, _ = do(t, s, fiber.MethodGet, "/api/availability?date=2024-05-13&start=10:30&end=11:30", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.True(t, decode[service.Availability](t, env.Data).Available)

	code, _, _ = do(t, s, fiber.MethodGet, "/api/availability?room_id=r1&date=2024-05-13", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestSelectionFlow(t *testing.T) {
	s := newTestServer(t)

	code, env, _ := do(t, s, fiber.MethodPost, "/api/selections", nil)
	require.Equal(t, fiber.StatusCreated, code)
	id := decode[map[string]string](t, env.Data)["id"]
	require.NotEmpty(t, id)
	base := "/api/selections/" + id

	code, env, _ = do(t, s, fiber.MethodPost, base+"/begin", model.Cell{Date: "2024-05-13", Time: "10:00", TeacherID: 1})
	require.Equal(t, fiber.StatusOK, code, env.Error)
	assert.Equal(t, "selecting", decode[selectionResponse](t, env.Data).State)

	code, env, _ = do(t, s, fiber.MethodPost, base+"/extend", model.Cell{Date: "2024-05-13", Time: "10:30", TeacherID: 1})
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, true, decode[map[string]bool](t, env.Data)["accepted"])

	// другой преподаватель игнорируется
	code, env, _ = do(t, s, fiber.MethodPost, base+"/extend", model.Cell{Date: "2024-05-13", Time: "11:00", TeacherID: 2})
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, false, decode[map[string]bool](t, env.Data)["accepted"])

	code, env, _ = do(t, s, fiber.MethodPost, base+"/end", nil)
	require.Equal(t, fiber.StatusOK, code)
	req := decode[model.BookingRequest](t, env.Data)
	assert.Equal(t, "10:00", req.StartTime)
	assert.Equal(t, "11:00", req.EndTime)
	assert.Equal(t, int64(1), req.TeacherID)

	// пустой выбор
	code, _, _ = do(t, s, fiber.MethodPost, base+"/end", nil)
	assert.Equal(t, fiber.StatusNoContent, code)

	code, _, _ = do(t, s, fiber.MethodPost, base+"/begin", model.Cell{Date: "2024-05-13", Time: "1000", TeacherID: 1})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _, _ = do(t, s, fiber.MethodDelete, base, nil)
	assert.Equal(t, fiber.StatusNoContent, code)
	code, _, _ = do(t, s, fiber.MethodPost, base+"/cancel", nil)
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _, _ = do(t, s, fiber.MethodGet, "/api/selections/not-a-uuid", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestTeacherAndRoomDirectory(t *testing.T) {
	s := newTestServer(t)

	code, env, _ := do(t, s, fiber.MethodPost, "/api/teachers", map[string]any{"name": " Clara ", "email": "clara@example.com"})
	require.Equal(t, fiber.StatusCreated, code, env.Error)
	teacher := decode[model.Teacher](t, env.Data)
	assert.Equal(t, int64(3), teacher.ID)
	assert.Equal(t, "Clara", teacher.Name)

	code, _, _ = do(t, s, fiber.MethodPost, "/api/teachers", map[string]any{"name": "X", "email": "not-an-email"})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _, _ = do(t, s, fiber.MethodPut, "/api/teachers/77", map[string]any{"name": "Ghost"})
	assert.Equal(t, fiber.StatusNotFound, code)

	code, env, _ = do(t, s, fiber.MethodPost, "/api/rooms", map[string]any{"name": "Studio", "capacity": 4})
	require.Equal(t, fiber.StatusCreated, code, env.Error)
	room := decode[model.Room](t, env.Data)
	assert.NotEmpty(t, room.ID)

	code, _, _ = do(t, s, fiber.MethodPost, "/api/rooms", map[string]any{"id": "r1", "name": "Dup"})
	assert.Equal(t, fiber.StatusConflict, code)

	code, env, _ = do(t, s, fiber.MethodGet, "/api/rooms", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Len(t, decode[[]model.Room](t, env.Data), 2)
}

func TestDeleteTeacherRemovesBookings(t *testing.T) {
	s := newTestServer(t)

	code, _, _ := do(t, s, fiber.MethodPost, "/api/bookings", bookingBody(1, "r1", "2024-05-13", "10:00", "11:00"))
	require.Equal(t, fiber.StatusCreated, code)

	code, _, _ = do(t, s, fiber.MethodDelete, "/api/teachers/1", nil)
	require.Equal(t, fiber.StatusNoContent, code)

	code, _, _ = do(t, s, fiber.MethodGet, "/api/bookings/1", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestDeleteRoomUnassignsBookings(t *testing.T) {
	s := newTestServer(t)

	code, _, _ := do(t, s, fiber.MethodPost, "/api/bookings", bookingBody(1, "r1", "2024-05-13", "10:00", "11:00"))
	require.Equal(t, fiber.StatusCreated, code)

	code, _, _ = do(t, s, fiber.MethodDelete, "/api/rooms/r1", nil)
	require.Equal(t, fiber.StatusNoContent, code)

	code, env, _ := do(t, s, fiber.MethodGet, "/api/bookings/1", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Empty(t, decode[model.Booking](t, env.Data).RoomID)
}

func TestAnalyticsAndExport(t *testing.T) {
	s := newTestServer(t)

	code, _, _ := do(t, s, fiber.MethodPost, "/api/bookings", bookingBody(2, "r1", "2024-05-13", "10:00", "12:00"))
	require.Equal(t, fiber.StatusCreated, code)

	code, env, _ := do(t, s, fiber.MethodGet, "/api/analytics?range=week", nil)
	require.Equal(t, fiber.StatusOK, code)
	report := decode[service.Report](t, env.Data)
	require.NotEmpty(t, report.Workloads)
	assert.Equal(t, "Boris", report.Workloads[0].Name)
	assert.Equal(t, 2.0, report.Workloads[0].Hours)

	code, _, _ = do(t, s, fiber.MethodGet, "/api/analytics?range=decade", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _, raw := do(t, s, fiber.MethodGet, "/api/export/csv", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, string(raw), "2,Boris,Piano,2024-05-13,10:00,12:00,Hall A,1")

	code, _, raw = do(t, s, fiber.MethodGet, "/api/export/json?teacher_id=2", nil)
	require.Equal(t, fiber.StatusOK, code)
	assert.True(t, strings.Contains(string(raw), `"version": "1.0"`))

	code, _, _ = do(t, s, fiber.MethodGet, "/api/export/json?teacher_id=9", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestImages(t *testing.T) {
	s := newTestServer(t)

	code, _, _ := do(t, s, fiber.MethodPost, "/api/bookings", bookingBody(1, "r1", "2024-05-13", "10:00", "11:00"))
	require.Equal(t, fiber.StatusCreated, code)

	for _, target := range []string{
		"/api/images/week",
		"/api/images/week?date=2024-05-13&teacher_id=1",
		"/api/images/workload?range=month",
	} {
		code, _, raw := do(t, s, fiber.MethodGet, target, nil)
		require.Equal(t, fiber.StatusOK, code, target)
		_, err := png.Decode(bytes.NewReader(raw))
		assert.NoError(t, err, target)
	}

	code, _, _ = do(t, s, fiber.MethodGet, "/api/images/week?date=yesterday", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _, _ = do(t, s, fiber.MethodGet, "/api/images/week?teacher_id=9", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
}
