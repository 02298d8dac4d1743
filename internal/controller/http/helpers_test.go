package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/Freeeeeet/course_scheduler/internal/model"
	"github.com/Freeeeeet/course_scheduler/internal/selection"
	"github.com/Freeeeeet/course_scheduler/internal/service"
	"github.com/Freeeeeet/course_scheduler/internal/timegrid"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopStore struct{}

func (nopStore) LoadBookings(context.Context) ([]model.Booking, error) { return nil, nil }
func (nopStore) SaveBookings(context.Context, []model.Booking) error { return nil }

type teacherDir struct {
	next  int64
	items map[int64]model.Teacher
}

func (d *teacherDir) Create(_ context.Context, t *model.Teacher) error {
	d.next++
	t.ID = d.next
	d.items[t.ID] = *t
	return nil
}

func (d *teacherDir) GetByID(_ context.Context, id int64) (*model.Teacher, error) {
	t, ok := d.items[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (d *teacherDir) List(context.Context) ([]*model.Teacher, error) {
	var list []*model.Teacher
	for _, t := range d.items {
		list = append(list, &t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (d *teacherDir) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := d.items[id]
	return ok, nil
}

func (d *teacherDir) Update(_ context.Context, t *model.Teacher) error {
	d.items[t.ID] = *t
	return nil
}

func (d *teacherDir) Delete(_ context.Context, id int64) error {
	delete(d.items, id)
	return nil
}

type roomDir struct {
	items map[string]model.Room
}

func (d *roomDir) Create(_ context.Context, r *model.Room) error {
	d.items[r.ID] = *r
	return nil
}

func (d *roomDir) GetByID(_ context.Context, id string) (*model.Room, error) {
	r, ok := d.items[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (d *roomDir) List(context.Context) ([]*model.Room, error) {
	var list []*model.Room
	for _, r := range d.items {
		list = append(list, &r)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (d *roomDir) Exists(_ context.Context, id string) (bool, error) {
	_, ok := d.items[id]
	return ok, nil
}

func (d *roomDir) Update(_ context.Context, r *model.Room) error {
	d.items[r.ID] = *r
	return nil
}

func (d *roomDir) Delete(_ context.Context, id string) error {
	delete(d.items, id)
	return nil
}

type seqIDs struct{ next int64 }

func (s *seqIDs) NextID() int64 {
	s.next++
	return s.next
}

var testNow = time.Date(2024, time.May, 15, 10, 0, 0, 0, time.UTC)

// newTestServer seeds teacher 1 "Anna", teacher 2 "Boris" and room "r1"
func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestServerWithGrids(t, timegrid.Default, timegrid.Week)
}

func newTestServerWithGrids(t *testing.T, day, week timegrid.Grid) *Server {
	t.Helper()

	teachers := &teacherDir{items: make(map[int64]model.Teacher)}
	rooms := &roomDir{items: make(map[string]model.Room)}
	ctx := context.Background()
	require.NoError(t, teachers.Create(ctx, &model.Teacher{Name: "Anna"}))
	require.NoError(t, teachers.Create(ctx, &model.Teacher{Name: "Boris", Color: "#e74c3c"}))
	require.NoError(t, rooms.Create(ctx, &model.Room{ID: "r1", Name: "Hall A", Capacity: 20}))

	logger := zap.NewNop()
	schedule := service.NewScheduleService(nopStore{}, teachers, rooms, nil, &seqIDs{}, logger)
	analytics := service.NewAnalyticsService(schedule, teachers, rooms, logger).
		WithClock(func() time.Time { return testNow })

	s := NewServer(schedule, analytics, selection.NewRegistry(day), day, week, logger)
	s.now = func() time.Time { return testNow }
	return s
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    int             `json:"code"`
}

func do(t *testing.T, s *Server, method, target string, body any) (int, envelope, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env envelope
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &env))
	}
	return resp.StatusCode, env, raw
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}
