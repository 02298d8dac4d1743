package selection

import (
	"errors"
	"sync"
	"time"

	"github.com/Freeeeeet/course_scheduler/internal/model"
	"github.com/Freeeeeet/course_scheduler/internal/timegrid"
	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("selection session not found")

type entry struct {
	session *Session
	touched time.Time
}

// Registry keeps one selection session per open browser view.
// Sessions are only reached through the registry, which serializes access to them.
type Registry struct {
	mu       sync.RWMutex
	grid     timegrid.Grid
	sessions map[uuid.UUID]*entry
	now      func() time.Time
}

func NewRegistry(grid timegrid.Grid) *Registry {
	return &Registry{
		grid:     grid,
		sessions: make(map[uuid.UUID]*entry),
		now:      time.Now,
	}
}

// Open creates an idle session and returns its id
func (r *Registry) Open() uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New()
	r.sessions[id] = &entry{session: NewSession(r.grid), touched: r.now()}
	return id
}

// Close forgets a session
func (r *Registry) Close(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
}

// State returns the state of a session
func (r *Registry) State(id uuid.UUID) (State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.sessions[id]
	if !ok {
		return "", ErrSessionNotFound
	}
	return e.session.State(), nil
}

// Cells returns the cells currently selected in a session
func (r *Registry) Cells(id uuid.UUID) ([]model.Cell, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e.session.Cells(), nil
}

func (r *Registry) Begin(id uuid.UUID, cell model.Cell) error {
	var err error
	if werr := r.with(id, func(s *Session) { err = s.Begin(cell) }); werr != nil {
		return werr
	}
	return err
}

func (r *Registry) Extend(id uuid.UUID, cell model.Cell) (bool, error) {
	var added bool
	err := r.with(id, func(s *Session) { added = s.Extend(cell) })
	return added, err
}

func (r *Registry) End(id uuid.UUID) (model.BookingRequest, bool, error) {
	var (
		req model.BookingRequest
		ok  bool
	)
	err := r.with(id, func(s *Session) { req, ok = s.End() })
	return req, ok, err
}

func (r *Registry) Cancel(id uuid.UUID) error {
	return r.with(id, func(s *Session) { s.Cancel() })
}

// Len returns the number of open sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// Prune closes sessions that have not been touched for longer than maxIdle
// and returns how many were closed.
func (r *Registry) Prune(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	pruned := 0
	for id, e := range r.sessions {
		if e.touched.Before(cutoff) {
			delete(r.sessions, id)
			pruned++
		}
	}
	return pruned
}

func (r *Registry) with(id uuid.UUID, fn func(*Session)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	fn(e.session)
	e.touched = r.now()
	return nil
}
