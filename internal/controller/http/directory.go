package http

import (
	"strings"

	"github.com/Freeeeeet/course_scheduler/internal/model"
	"github.com/gofiber/fiber/v2"
)

// ============ Преподаватели ============

func (s *Server) listTeachers(c *fiber.Ctx) error {
	teachers, err := s.schedule.ListTeachers(c.UserContext())
	if err != nil {
		return err
	}
	if teachers == nil {
		teachers = []*model.Teacher{}
	}
	return ok(c, teachers)
}

func (s *Server) getTeacher(c *fiber.Ctx) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return err
	}

	teacher, err := s.schedule.GetTeacher(c.UserContext(), id)
	if err != nil {
		return err
	}
	return ok(c, teacher)
}

func (s *Server) createTeacher(c *fiber.Ctx) error {
	var teacher model.Teacher
	if err := s.parseTeacher(c, &teacher); err != nil {
		return err
	}
	teacher.ID = 0

	if err := s.schedule.CreateTeacher(c.UserContext(), &teacher); err != nil {
		return err
	}
	return created(c, teacher)
}

func (s *Server) updateTeacher(c *fiber.Ctx) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return err
	}

	var teacher model.Teacher
	if err := s.parseTeacher(c, &teacher); err != nil {
		return err
	}
	teacher.ID = id

	if err := s.schedule.UpdateTeacher(c.UserContext(), &teacher); err != nil {
		return err
	}
	return ok(c, teacher)
}

// DELETE /api/teachers/:id also removes the teacher's bookings
func (s *Server) deleteTeacher(c *fiber.Ctx) error {
	id, err := paramInt64(c, "id")
	if err != nil {
		return err
	}

	if err := s.schedule.DeleteTeacher(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) parseTeacher(c *fiber.Ctx, teacher *model.Teacher) error {
	if err := c.BodyParser(teacher); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	teacher.Name = strings.TrimSpace(teacher.Name)
	teacher.Email = strings.TrimSpace(teacher.Email)
	return s.validate.Struct(teacher)
}

// ============ Аудитории ============

func (s *Server) listRooms(c *fiber.Ctx) error {
	rooms, err := s.schedule.ListRooms(c.UserContext())
	if err != nil {
		return err
	}
	if rooms == nil {
		rooms = []*model.Room{}
	}
	return ok(c, rooms)
}

func (s *Server) getRoom(c *fiber.Ctx) error {
	room, err := s.schedule.GetRoom(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return ok(c, room)
}

func (s *Server) createRoom(c *fiber.Ctx) error {
	var room model.Room
	if err := s.parseRoom(c, &room); err != nil {
		return err
	}

	if err := s.schedule.CreateRoom(c.UserContext(), &room); err != nil {
		return err
	}
	return created(c, room)
}

func (s *Server) updateRoom(c *fiber.Ctx) error {
	var room model.Room
	if err := s.parseRoom(c, &room); err != nil {
		return err
	}
	room.ID = c.Params("id")

	if err := s.schedule.UpdateRoom(c.UserContext(), &room); err != nil {
		return err
	}
	return ok(c, room)
}

// DELETE /api/rooms/:id keeps the bookings but unassigns the room
func (s *Server) deleteRoom(c *fiber.Ctx) error {
	if err := s.schedule.DeleteRoom(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) parseRoom(c *fiber.Ctx, room *model.Room) error {
	if err := c.BodyParser(room); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
	}
	room.ID = strings.TrimSpace(room.ID)
	room.Name = strings.TrimSpace(room.Name)
	return s.validate.Struct(room)
}
