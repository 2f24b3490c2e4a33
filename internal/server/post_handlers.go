package server

import (
	"driftboard/internal/models"
	"driftboard/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetBoardPosts serves one page of a board's posts: a sorted scan by
// default, a ranked search when `q` is present.
func (s *Server) GetBoardPosts(c *fiber.Ctx) error {
	limit, offset := parsePagination(c)
	page, err := s.feedService.ListPosts(c.UserContext(), service.ListPostsInput{
		BoardSlug: c.Params("slug"),
		Query:     c.Query("q"),
		Sort:      c.Query("sort", models.SortLatest),
		Limit:     limit,
		Offset:    offset,
		ViewerID:  optionalUserID(c),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(page)
}

// GetPost returns one post and counts the view for this viewer.
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	post, err := s.postService.GetPostDetail(c.UserContext(), id, optionalUserID(c), viewerKey(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

type postRequest struct {
	Title string `json:"title"`
	Body  string `json:"body_md"`
}

func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:    currentUserID(c),
		BoardSlug: c.Params("slug"),
		Title:     req.Title,
		Body:      req.Body,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	var req postRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID: currentUserID(c),
		PostID: id,
		Title:  req.Title,
		Body:   req.Body,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(post)
}

func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	if err := s.postService.DeletePost(c.UserContext(), currentUserID(c), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike flips the caller's like on a post.
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return fail(c, err)
	}

	result, err := s.postService.ToggleLike(c.UserContext(), currentUserID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

// GetLinkPreview resolves Open Graph metadata for a URL on behalf of the
// composer UI.
func (s *Server) GetLinkPreview(c *fiber.Ctx) error {
	p, err := s.postService.FetchPreview(c.UserContext(), c.Query("url"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(p)
}
