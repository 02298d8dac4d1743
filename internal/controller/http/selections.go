package http

import (
	"github.com/Freeeeeet/course_scheduler/internal/model"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type selectionResponse struct {
	ID    uuid.UUID    `json:"id"`
	State string       `json:"state"`
	Cells []model.Cell `json:"cells"`
}

func (s *Server) selectionID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "invalid selection id")
	}
	return id, nil
}

func (s *Server) selectionState(c *fiber.Ctx, id uuid.UUID) error {
	state, err := s.selections.State(id)
	if err != nil {
		return err
	}
	cells, err := s.selections.Cells(id)
	if err != nil {
		return err
	}
	if cells == nil {
		cells = []model.Cell{}
	}
	return ok(c, selectionResponse{ID: id, State: string(state), Cells: cells})
}

// POST /api/selections opens a session for one grid view
func (s *Server) openSelection(c *fiber.Ctx) error {
	id := s.selections.Open()
	return created(c, fiber.Map{"id": id})
}

func (s *Server) getSelection(c *fiber.Ctx) error {
	id, err := s.selectionID(c)
	if err != nil {
		return err
	}
	return s.selectionState(c, id)
}

func (s *Server) closeSelection(c *fiber.Ctx) error {
	id, err := s.selectionID(c)
	if err != nil {
		return err
	}
	s.selections.Close(id)
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) beginSelection(c *fiber.Ctx) error {
	id, err := s.selectionID(c)
	if err != nil {
		return err
	}

	var cell model.Cell
	if err := s.parseBody(c, &cell); err != nil {
		return err
	}

	if err := s.selections.Begin(id, cell); err != nil {
		return err
	}
	return s.selectionState(c, id)
}

func (s *Server) extendSelection(c *fiber.Ctx) error {
	id, err := s.selectionID(c)
	if err != nil {
		return err
	}

	var cell model.Cell
	if err := s.parseBody(c, &cell); err != nil {
		return err
	}

	accepted, err := s.selections.Extend(id, cell)
	if err != nil {
		return err
	}
	return ok(c, fiber.Map{"accepted": accepted})
}

// POST /api/selections/:id/end returns the candidate booking, or 204 when nothing was selected
func (s *Server) endSelection(c *fiber.Ctx) error {
	id, err := s.selectionID(c)
	if err != nil {
		return err
	}

	req, selected, err := s.selections.End(id)
	if err != nil {
		return err
	}
	if !selected {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return ok(c, req)
}

func (s *Server) cancelSelection(c *fiber.Ctx) error {
	id, err := s.selectionID(c)
	if err != nil {
		return err
	}

	if err := s.selections.Cancel(id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
