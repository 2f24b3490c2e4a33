package server

import (
	"driftboard/internal/models"
	"driftboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

type credentialsRequest struct {
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// Signup registers a new account and immediately issues a token.
func (s *Server) Signup(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.UserContext(), service.RegisterInput{
		Nickname: req.Nickname,
		Password: req.Password,
	})
	if err != nil {
		return fail(c, err)
	}

	_, token, err := s.userService.Login(c.UserContext(), req.Nickname, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// Login checks credentials and returns a token.
func (s *Server) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	user, token, err := s.userService.Login(c.UserContext(), req.Nickname, req.Password)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// GetMyProfile returns the authenticated user's own record.
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetByID(c.UserContext(), currentUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}
