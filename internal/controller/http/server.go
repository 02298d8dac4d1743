// Package http exposes the scheduler to the browser front-end as a JSON API.
package http

import (
	"context"
	"time"

	"github.com/Freeeeeet/course_scheduler/internal/selection"
	"github.com/Freeeeeet/course_scheduler/internal/service"
	"github.com/Freeeeeet/course_scheduler/internal/timegrid"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

type Server struct {
	app        *fiber.App
	schedule   *service.ScheduleService
	analytics  *service.AnalyticsService
	selections *selection.Registry
	grid       timegrid.Grid
	weekGrid   timegrid.Grid
	validate   *validator.Validate
	now        func() time.Time
	logger     *zap.Logger
}

func NewServer(
	schedule *service.ScheduleService,
	analytics *service.AnalyticsService,
	selections *selection.Registry,
	grid timegrid.Grid,
	weekGrid timegrid.Grid,
	logger *zap.Logger,
) *Server {
	s := &Server{
		schedule:   schedule,
		analytics:  analytics,
		selections: selections,
		grid:       grid,
		weekGrid:   weekGrid,
		validate:   validator.New(),
		now:        time.Now,
		logger:     logger,
	}

	s.app = fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          s.errorHandler,
	})

	s.app.Use(recover.New())
	s.app.Use(cors.New())
	s.app.Use(s.requestLogger)

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")

	api.Get("/grid", s.getGrid)
	api.Get("/availability", s.getAvailability)

	bookings := api.Group("/bookings")
	bookings.Get("/", s.listBookings)
	bookings.Get("/:id", s.getBooking)
	bookings.Post("/", s.createBooking)
	bookings.Put("/:id", s.updateBooking)
	bookings.Delete("/:id", s.deleteBooking)

	selections := api.Group("/selections")
	selections.Post("/", s.openSelection)
	selections.Get("/:id", s.getSelection)
	selections.Delete("/:id", s.closeSelection)
	selections.Post("/:id/begin", s.beginSelection)
	selections.Post("/:id/extend", s.extendSelection)
	selections.Post("/:id/end", s.endSelection)
	selections.Post("/:id/cancel", s.cancelSelection)

	teachers := api.Group("/teachers")
	teachers.Get("/", s.listTeachers)
	teachers.Get("/:id", s.getTeacher)
	teachers.Post("/", s.createTeacher)
	teachers.Put("/:id", s.updateTeacher)
	teachers.Delete("/:id", s.deleteTeacher)

	rooms := api.Group("/rooms")
	rooms.Get("/", s.listRooms)
	rooms.Get("/:id", s.getRoom)
	rooms.Post("/", s.createRoom)
	rooms.Put("/:id", s.updateRoom)
	rooms.Delete("/:id", s.deleteRoom)

	api.Get("/analytics", s.getAnalytics)
	api.Get("/export/json", s.exportJSON)
	api.Get("/export/csv", s.exportCSV)
	api.Get("/images/week", s.weekImage)
	api.Get("/images/workload", s.workloadImage)
}

// App returns the underlying fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.logger.Info("HTTP server listening", zap.String("addr", addr))
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) requestLogger(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	status := c.Response().StatusCode()
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
	}
	s.logger.Debug("HTTP request",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
		zap.Duration("duration", time.Since(start)),
	)
	return err
}

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}
