// Package selection turns drag/touch gestures over the time grid into booking requests.
package selection

import (
	"fmt"
	"slices"

	"github.com/Freeeeeet/course_scheduler/internal/model"
	"github.com/Freeeeeet/course_scheduler/internal/timegrid"
)

// State of a selection gesture
type State string

const (
	StateIdle      State = "idle"
	StateSelecting State = "selecting"
	StateCommitted State = "committed"
	StateCancelled State = "cancelled"
)

// CoarseMinutes is the length given to a selection made on cells without a time
// coordinate (month view).
const CoarseMinutes = 90

// Session accumulates the cells of one teacher column into a candidate booking.
type Session struct {
	grid      timegrid.Grid
	state     State
	teacherID int64
	cells     []model.Cell
}

func NewSession(grid timegrid.Grid) *Session {
	return &Session{grid: grid, state: StateIdle}
}

func (s *Session) State() State {
	return s.state
}

// TeacherID returns the teacher the current selection is bound to
func (s *Session) TeacherID() int64 {
	return s.teacherID
}

// Cells returns the selected cells in the order they were added
func (s *Session) Cells() []model.Cell {
	return slices.Clone(s.cells)
}

// Begin starts a new selection at cell, discarding whatever came before.
func (s *Session) Begin(cell model.Cell) error {
	if err := checkCellTime(cell); err != nil {
		return err
	}
	s.reset()
	s.state = StateSelecting
	s.teacherID = cell.TeacherID
	s.cells = []model.Cell{cell}
	return nil
}

// Extend adds cell to the selection. Cells of another teacher or another day,
// cells already selected and calls outside of a selection are ignored.
func (s *Session) Extend(cell model.Cell) bool {
	if s.state != StateSelecting {
		return false
	}
	if cell.TeacherID != s.teacherID {
		return false
	}
	if cell.Date != "" && s.cells[0].Date != "" && cell.Date != s.cells[0].Date {
		return false
	}
	if checkCellTime(cell) != nil {
		return false
	}
	if slices.Contains(s.cells, cell) {
		return false
	}
	s.cells = append(s.cells, cell)
	return true
}

// End finishes the selection. The range runs from the earliest selected slot to one
// slot past the latest. Without a selection the session is cancelled and ok is false.
func (s *Session) End() (req model.BookingRequest, ok bool) {
	if s.state != StateSelecting || len(s.cells) == 0 {
		s.reset()
		s.state = StateCancelled
		return model.BookingRequest{}, false
	}

	cells := slices.Clone(s.cells)
	slices.SortStableFunc(cells, compareCells)

	first, last := cells[0], cells[len(cells)-1]

	start := s.grid.OpenTime()
	if first.HasTime() {
		start = first.Time
	}

	var end string
	if last.HasTime() {
		// already validated in Begin/Extend
		end, _ = s.grid.NextSlot(last.Time)
	} else {
		end = timegrid.Format(s.grid.Open + CoarseMinutes)
	}

	req = model.BookingRequest{
		Date:      first.Date,
		TeacherID: s.teacherID,
		StartTime: start,
		EndTime:   end,
	}

	teacherID := s.teacherID
	s.reset()
	s.teacherID = teacherID
	s.state = StateCommitted
	return req, true
}

// Cancel drops the current selection
func (s *Session) Cancel() {
	if s.state != StateSelecting {
		return
	}
	s.reset()
	s.state = StateCancelled
}

func (s *Session) reset() {
	s.state = StateIdle
	s.teacherID = 0
	s.cells = nil
}

// compareCells orders cells by time of day; cells without a time come first.
func compareCells(a, b model.Cell) int {
	switch {
	case !a.HasTime() && !b.HasTime():
		return 0
	case !a.HasTime():
		return -1
	case !b.HasTime():
		return 1
	}
	am, _ := timegrid.MinutesSinceDayStart(a.Time)
	bm, _ := timegrid.MinutesSinceDayStart(b.Time)
	return am - bm
}

func checkCellTime(cell model.Cell) error {
	if !cell.HasTime() {
		return nil
	}
	if _, err := timegrid.MinutesSinceDayStart(cell.Time); err != nil {
		return fmt.Errorf("cell time: %w", err)
	}
	return nil
}
