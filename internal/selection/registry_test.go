package selection

import (
	"testing"
	"time"

	"github.com/Freeeeeet/course_scheduler/internal/timegrid"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLifecycle(t *testing.T) {
	r := NewRegistry(timegrid.Default)
	id := r.Open()

	state, err := r.State(id)
	require.NoError(t, err)
	assert.Equal(t, StateIdle, state)

	require.NoError(t, r.Begin(id, cell("09:00", 1)))
	added, err := r.Extend(id, cell("09:30", 1))
	require.NoError(t, err)
	assert.True(t, added)

	cells, err := r.Cells(id)
	require.NoError(t, err)
	assert.Len(t, cells, 2)

	req, ok, err := r.End(id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "10:00", req.EndTime)

	r.Close(id)
	_, err = r.State(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRegistrySessionsAreIndependent(t *testing.T) {
	r := NewRegistry(timegrid.Default)
	a, b := r.Open(), r.Open()

	require.NoError(t, r.Begin(a, cell("09:00", 1)))
	require.NoError(t, r.Cancel(b))

	sa, _ := r.State(a)
	sb, _ := r.State(b)
	assert.Equal(t, StateSelecting, sa)
	assert.Equal(t, StateIdle, sb)
}

func TestRegistryUnknownSession(t *testing.T) {
	r := NewRegistry(timegrid.Default)
	id := uuid.New()

	assert.ErrorIs(t, r.Begin(id, cell("09:00", 1)), ErrSessionNotFound)
	_, err := r.Extend(id, cell("09:00", 1))
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, _, err = r.End(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, r.Cancel(id), ErrSessionNotFound)
}

func TestRegistryPrune(t *testing.T) {
	now := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	r := NewRegistry(timegrid.Default)
	r.now = func() time.Time { return now }

	stale := r.Open()
	now = now.Add(time.Hour)
	fresh := r.Open()

	assert.Equal(t, 1, r.Prune(30*time.Minute))
	assert.Equal(t, 1, r.Len())

	_, err := r.State(stale)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = r.State(fresh)
	assert.NoError(t, err)
}
