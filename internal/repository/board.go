package repository

import (
	"context"

	"driftboard/internal/models"

	"gorm.io/gorm"
)

// BoardRepository defines the interface for board data operations
type BoardRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.Board, error)
	GetBySlugAny(ctx context.Context, slug string) (*models.Board, error)
	GetByID(ctx context.Context, id uint) (*models.Board, error)
	List(ctx context.Context) ([]*models.Board, error)
	ListAll(ctx context.Context, includeDeleted bool) ([]*models.Board, error)
	Create(ctx context.Context, board *models.Board) error
	Update(ctx context.Context, board *models.Board) error
	SoftDelete(ctx context.Context, id uint) error
}

type boardRepository struct {
	db *gorm.DB
}

// NewBoardRepository creates a new board repository
func NewBoardRepository(db *gorm.DB) BoardRepository {
	return &boardRepository{db: db}
}

// GetBySlug resolves a live board by slug; soft-deleted boards are excluded.
// Returns (nil, nil) when no live board carries the slug.
func (r *boardRepository) GetBySlug(ctx context.Context, slug string) (*models.Board, error) {
	var board models.Board
	err := r.db.WithContext(ctx).
		Where("slug = ? AND is_deleted = ?", slug, false).
		First(&board).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// GetBySlugAny resolves a board by slug regardless of deletion state. Used
// for slug-collision checks, since a soft-deleted board still owns its slug.
func (r *boardRepository) GetBySlugAny(ctx context.Context, slug string) (*models.Board, error) {
	var board models.Board
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&board).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

func (r *boardRepository) GetByID(ctx context.Context, id uint) (*models.Board, error) {
	var board models.Board
	err := r.db.WithContext(ctx).First(&board, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// List returns live boards in catalogue order.
func (r *boardRepository) List(ctx context.Context) ([]*models.Board, error) {
	var boards []*models.Board
	err := r.db.WithContext(ctx).
		Where("is_deleted = ?", false).
		Order("created_at ASC").
		Find(&boards).Error
	return boards, err
}

// ListAll is the admin view, optionally including soft-deleted boards.
func (r *boardRepository) ListAll(ctx context.Context, includeDeleted bool) ([]*models.Board, error) {
	q := r.db.WithContext(ctx)
	if !includeDeleted {
		q = q.Where("is_deleted = ?", false)
	}
	var boards []*models.Board
	err := q.Order("created_at ASC").Find(&boards).Error
	return boards, err
}

func (r *boardRepository) Create(ctx context.Context, board *models.Board) error {
	return r.db.WithContext(ctx).Create(board).Error
}

func (r *boardRepository) Update(ctx context.Context, board *models.Board) error {
	return r.db.WithContext(ctx).Save(board).Error
}

func (r *boardRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Board{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}
