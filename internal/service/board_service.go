package service

import (
	"context"
	"regexp"

	"driftboard/internal/models"
	"driftboard/internal/repository"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// BoardService owns the board catalogue. Mutations are admin-only; the
// handler layer enforces that before calling in.
type BoardService struct {
	boardRepo repository.BoardRepository
}

func NewBoardService(boardRepo repository.BoardRepository) *BoardService {
	return &BoardService{boardRepo: boardRepo}
}

type BoardInput struct {
	Name        string
	Description string
	Slug        string
}

// ListBoards returns live boards, oldest first.
func (s *BoardService) ListBoards(ctx context.Context) ([]*models.Board, error) {
	return s.boardRepo.List(ctx)
}

func (s *BoardService) GetBoard(ctx context.Context, slug string) (*models.Board, error) {
	board, err := s.boardRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, models.NewNotFoundError("Board not found")
	}
	return board, nil
}

func (s *BoardService) CreateBoard(ctx context.Context, in BoardInput) (*models.Board, error) {
	if in.Name == "" {
		return nil, models.NewValidationError("Board name is required")
	}
	if !slugPattern.MatchString(in.Slug) {
		return nil, models.NewValidationError("Slug must be lowercase letters, digits and hyphens")
	}

	// Slug collisions include soft-deleted boards, which still hold the name.
	existing, err := s.boardRepo.GetBySlugAny(ctx, in.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("A board with this slug already exists")
	}

	board := &models.Board{
		Name:        in.Name,
		Description: in.Description,
		Slug:        in.Slug,
	}
	if err := s.boardRepo.Create(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

func (s *BoardService) UpdateBoard(ctx context.Context, slug string, in BoardInput) (*models.Board, error) {
	board, err := s.boardRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, models.NewNotFoundError("Board not found")
	}

	if in.Name != "" {
		board.Name = in.Name
	}
	if in.Description != "" {
		board.Description = in.Description
	}
	if err := s.boardRepo.Update(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}

func (s *BoardService) DeleteBoard(ctx context.Context, slug string) error {
	board, err := s.boardRepo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if board == nil {
		return models.NewNotFoundError("Board not found")
	}
	return s.boardRepo.SoftDelete(ctx, board.ID)
}
