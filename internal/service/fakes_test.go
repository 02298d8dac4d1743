package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/Freeeeeet/course_scheduler/internal/model"
	"github.com/Freeeeeet/course_scheduler/internal/repository"
)

type seqIDs struct{ next int64 }

func (s *seqIDs) NextID() int64 {
	s.next++
	return s.next
}

type memStore struct {
	mu      sync.Mutex
	loaded  []model.Booking
	saved   []model.Booking
	saves   int
	saveErr error
}

func (m *memStore) LoadBookings(context.Context) ([]model.Booking, error) {
	return m.loaded, nil
}

func (m *memStore) SaveBookings(_ context.Context, bookings []model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = bookings
	return nil
}

type memTeachers struct {
	next  int64
	items map[int64]*model.Teacher
	order []int64
}

func newMemTeachers(names ...string) *memTeachers {
	m := &memTeachers{items: make(map[int64]*model.Teacher)}
	for _, n := range names {
		_ = m.Create(context.Background(), &model.Teacher{Name: n})
	}
	return m
}

func (m *memTeachers) Create(_ context.Context, t *model.Teacher) error {
	m.next++
	t.ID = m.next
	cp := *t
	m.items[t.ID] = &cp
	m.order = append(m.order, t.ID)
	return nil
}

func (m *memTeachers) GetByID(_ context.Context, id int64) (*model.Teacher, error) {
	t, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *memTeachers) List(context.Context) ([]*model.Teacher, error) {
	var list []*model.Teacher
	for _, id := range m.order {
		if t, ok := m.items[id]; ok {
			list = append(list, t)
		}
	}
	return list, nil
}

func (m *memTeachers) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := m.items[id]
	return ok, nil
}

func (m *memTeachers) Update(_ context.Context, t *model.Teacher) error {
	if _, ok := m.items[t.ID]; !ok {
		return fmt.Errorf("update teacher %d: %w", t.ID, repository.ErrNotFound)
	}
	cp := *t
	m.items[t.ID] = &cp
	return nil
}

func (m *memTeachers) Delete(_ context.Context, id int64) error {
	delete(m.items, id)
	return nil
}

// gatedTeachers pauses Exists after the lookup until release is closed
type gatedTeachers struct {
	*memTeachers
	checked chan struct{}
	release chan struct{}
}

func (g *gatedTeachers) Exists(ctx context.Context, id int64) (bool, error) {
	exists, err := g.memTeachers.Exists(ctx, id)
	close(g.checked)
	<-g.release
	return exists, err
}

// vanishingTeachers loses every row between GetByID and the write
type vanishingTeachers struct {
	*memTeachers
}

func (v vanishingTeachers) Update(_ context.Context, t *model.Teacher) error {
	return fmt.Errorf("update teacher %d: %w", t.ID, repository.ErrNotFound)
}

func (v vanishingTeachers) Delete(_ context.Context, id int64) error {
	return fmt.Errorf("delete teacher %d: %w", id, repository.ErrNotFound)
}

type memRooms struct {
	items     map[string]*model.Room
	order     []string
	createErr error
}

func newMemRooms(ids ...string) *memRooms {
	m := &memRooms{items: make(map[string]*model.Room)}
	for _, id := range ids {
		_ = m.Create(context.Background(), &model.Room{ID: id, Name: "Room " + id, Capacity: 10})
	}
	return m
}

func (m *memRooms) Create(_ context.Context, r *model.Room) error {
	if m.createErr != nil {
		return m.createErr
	}
	cp := *r
	m.items[r.ID] = &cp
	m.order = append(m.order, r.ID)
	return nil
}

func (m *memRooms) GetByID(_ context.Context, id string) (*model.Room, error) {
	r, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *memRooms) List(context.Context) ([]*model.Room, error) {
	var list []*model.Room
	for _, id := range m.order {
		if r, ok := m.items[id]; ok {
			list = append(list, r)
		}
	}
	return list, nil
}

func (m *memRooms) Exists(_ context.Context, id string) (bool, error) {
	_, ok := m.items[id]
	return ok, nil
}

func (m *memRooms) Update(_ context.Context, r *model.Room) error {
	cp := *r
	m.items[r.ID] = &cp
	return nil
}

func (m *memRooms) Delete(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

type recordingNotifier struct {
	committed []model.Booking
	deleted   []model.Booking
	err       error
}

func (n *recordingNotifier) BookingCommitted(_ context.Context, b model.Booking, _ bool) error {
	n.committed = append(n.committed, b)
	return n.err
}

func (n *recordingNotifier) BookingDeleted(_ context.Context, b model.Booking) error {
	n.deleted = append(n.deleted, b)
	return n.err
}
