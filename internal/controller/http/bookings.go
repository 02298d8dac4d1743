package http

import (
	"strconv"

	"github.com/Freeeeeet/course_scheduler/internal/model"
	"github.com/Freeeeeet/course_scheduler/internal/service"
	"github.com/Freeeeeet/course_scheduler/internal/timegrid"
	"github.com/gofiber/fiber/v2"
)

type gridResponse struct {
	View  string   `json:"view"`
	Open  string   `json:"open"`
	Close string   `json:"close"`
	Step  int      `json:"step"`
	Slots []string `json:"slots"`
}

// GET /api/grid?view=day|week
func (s *Server) getGrid(c *fiber.Ctx) error {
	view := c.Query("view", "day")

	var grid timegrid.Grid
	switch view {
	case "day":
		grid = s.grid
	case "week":
		grid = s.weekGrid
	default:
		return fiber.NewError(fiber.StatusBadRequest, "view must be day or week")
	}

	return ok(c, gridResponse{
		View:  view,
		Open:  grid.OpenTime(),
		Close: timegrid.Format(grid.Close),
		Step:  grid.Step,
		Slots: grid.Slots(),
	})
}

// GET /api/bookings?teacher_id=&room_id=&date=
func (s *Server) listBookings(c *fiber.Ctx) error {
	teacherID, err := queryInt64(c, "teacher_id")
	if err != nil {
		return err
	}

	bookings := s.schedule.ListBookings(service.BookingFilter{
		TeacherID: teacherID,
		RoomID:    c.Query("room_id"),
		Date:      c.Query("date"),
	})
	if bookings == nil {
		bookings = []model.Booking{}
	}
	return ok(c, bookings)
}

func (s *Server) getBooking(c *fiber.Ctx) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return err
	}

	b, err := s.schedule.GetBooking(id)
	if err != nil {
		return err
	}
	return ok(c, b)
}

func (s *Server) createBooking(c *fiber.Ctx) error {
	var req model.BookingRequest
	if err := s.parseBody(c, &req); err != nil {
		return err
	}
	req.ExcludeID = nil

	b, err := s.schedule.CommitBooking(c.UserContext(), req)
	if err != nil {
		return err
	}
	return created(c, b)
}

// PUT /api/bookings/:id edits the booking in place
func (s *Server) updateBooking(c *fiber.Ctx) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return err
	}

	var req model.BookingRequest
	if err := s.parseBody(c, &req); err != nil {
		return err
	}
	req.ExcludeID = &id

	b, err := s.schedule.CommitBooking(c.UserContext(), req)
	if err != nil {
		return err
	}
	return ok(c, b)
}

func (s *Server) deleteBooking(c *fiber.Ctx) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return err
	}

	if err := s.schedule.DeleteBooking(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GET /api/availability?room_id=&date=&start=&end=&exclude_id=
func (s *Server) getAvailability(c *fiber.Ctx) error {
	date := c.Query("date")
	start := c.Query("start")
	end := c.Query("end")
	if date == "" || start == "" || end == "" {
		return fiber.NewError(fiber.StatusBadRequest, "date, start and end are required")
	}

	var excludeID *int64
	if raw := c.Query("exclude_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid exclude_id")
		}
		excludeID = &id
	}

	a, err := s.schedule.CheckAvailability(c.Query("room_id"), date, start, end, excludeID)
	if err != nil {
		return err
	}
	return ok(c, a)
}

func (s *Server) parseBody(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	if err := s.validate.Struct(dst); err != nil {
		return err
	}
	return nil
}

func paramInt64(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// queryInt64 returns 0 when the parameter is absent
func queryInt64(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return v, nil
}
