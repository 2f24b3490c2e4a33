package server

import (
	"driftboard/internal/models"
	"driftboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetBoards lists the live board catalogue.
func (s *Server) GetBoards(c *fiber.Ctx) error {
	boards, err := s.boardService.ListBoards(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(boards)
}

// GetBoard returns one live board by slug.
func (s *Server) GetBoard(c *fiber.Ctx) error {
	board, err := s.boardService.GetBoard(c.UserContext(), c.Params("slug"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(board)
}

type boardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
}

// AdminListBoards is the admin catalogue view, optionally including
// soft-deleted boards.
func (s *Server) AdminListBoards(c *fiber.Ctx) error {
	includeDeleted := c.QueryBool("include_deleted", false)
	boards, err := s.boardRepo.ListAll(c.UserContext(), includeDeleted)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(boards)
}

func (s *Server) AdminCreateBoard(c *fiber.Ctx) error {
	var req boardRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	board, err := s.boardService.CreateBoard(c.UserContext(), service.BoardInput{
		Name:        req.Name,
		Description: req.Description,
		Slug:        req.Slug,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(board)
}

func (s *Server) AdminUpdateBoard(c *fiber.Ctx) error {
	var req boardRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	board, err := s.boardService.UpdateBoard(c.UserContext(), c.Params("slug"), service.BoardInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(board)
}

func (s *Server) AdminDeleteBoard(c *fiber.Ctx) error {
	if err := s.boardService.DeleteBoard(c.UserContext(), c.Params("slug")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
