package http

import (
	"fmt"
	"time"

	"github.com/Freeeeeet/course_scheduler/internal/export"
	"github.com/Freeeeeet/course_scheduler/internal/model"
	"github.com/Freeeeeet/course_scheduler/internal/render"
	"github.com/Freeeeeet/course_scheduler/internal/service"
	"github.com/gofiber/fiber/v2"
)

// GET /api/analytics?range=all|week|month
func (s *Server) getAnalytics(c *fiber.Ctx) error {
	r, err := service.ParseRange(c.Query("range"))
	if err != nil {
		return err
	}

	report, err := s.analytics.Build(c.UserContext(), r)
	if err != nil {
		return err
	}
	return ok(c, report)
}

// GET /api/export/json?teacher_id=
func (s *Server) exportJSON(c *fiber.Ctx) error {
	teacherID, err := queryInt64(c, "teacher_id")
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	now := s.now()
	bookings := s.schedule.ListBookings(service.BookingFilter{TeacherID: teacherID})

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)

	if teacherID != 0 {
		teacher, err := s.schedule.GetTeacher(ctx, teacherID)
		if err != nil {
			return err
		}
		attachment(c, fmt.Sprintf("teacher_%d_schedules_%s.json", teacherID, now.Format(time.DateOnly)))
		return export.TeacherJSON(c, teacher, bookings, now)
	}

	teachers, err := s.schedule.ListTeachers(ctx)
	if err != nil {
		return err
	}
	attachment(c, fmt.Sprintf("all_teachers_schedules_%s.json", now.Format(time.DateOnly)))
	return export.AllJSON(c, teachers, bookings, now)
}

// GET /api/export/csv?teacher_id=
func (s *Server) exportCSV(c *fiber.Ctx) error {
	teacherID, err := queryInt64(c, "teacher_id")
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	var teachers []*model.Teacher
	if teacherID != 0 {
		teacher, err := s.schedule.GetTeacher(ctx, teacherID)
		if err != nil {
			return err
		}
		teachers = []*model.Teacher{teacher}
	} else {
		teachers, err = s.schedule.ListTeachers(ctx)
		if err != nil {
			return err
		}
	}

	rooms, err := s.schedule.ListRooms(ctx)
	if err != nil {
		return err
	}
	bookings := s.schedule.ListBookings(service.BookingFilter{TeacherID: teacherID})

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	attachment(c, fmt.Sprintf("schedules_%s.csv", s.now().Format(time.DateOnly)))
	return export.CSV(c, teachers, rooms, bookings)
}

// GET /api/images/week?date=&teacher_id=
func (s *Server) weekImage(c *fiber.Ctx) error {
	teacherID, err := queryInt64(c, "teacher_id")
	if err != nil {
		return err
	}

	now := s.now()
	date := now
	if raw := c.Query("date"); raw != "" {
		date, err = time.Parse(time.DateOnly, raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "date must be YYYY-MM-DD")
		}
	}

	teachers, err := s.schedule.ListTeachers(c.UserContext())
	if err != nil {
		return err
	}
	names := make(map[int64]string, len(teachers))
	title := "All teachers"
	for _, t := range teachers {
		names[t.ID] = t.Name
		if t.ID == teacherID {
			title = t.Name
		}
	}
	if teacherID != 0 {
		if _, known := names[teacherID]; !known {
			return fmt.Errorf("%w: %d", service.ErrTeacherNotFound, teacherID)
		}
		// имя преподавателя уже в заголовке
		names = nil
	}

	img, err := render.WeekImage(
		s.schedule.ListBookings(service.BookingFilter{TeacherID: teacherID}),
		render.WeekOptions{
			Date:         date,
			Grid:         s.weekGrid,
			Now:          now,
			TeacherNames: names,
			Title:        title,
		},
	)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(img)
}

// GET /api/images/workload?range=
func (s *Server) workloadImage(c *fiber.Ctx) error {
	r, err := service.ParseRange(c.Query("range"))
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	report, err := s.analytics.Build(ctx, r)
	if err != nil {
		return err
	}
	teachers, err := s.schedule.ListTeachers(ctx)
	if err != nil {
		return err
	}
	colors := make(map[int64]string, len(teachers))
	for _, t := range teachers {
		colors[t.ID] = t.Color
	}

	bars := make([]render.Bar, 0, len(report.Workloads))
	for _, w := range report.Workloads {
		bars = append(bars, render.Bar{Label: w.Name, Value: w.Hours, Color: colors[w.TeacherID]})
	}

	img, err := render.BarChart(fmt.Sprintf("Teacher workload, hours (%s)", r), bars)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(img)
}

func attachment(c *fiber.Ctx, filename string) {
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
}
