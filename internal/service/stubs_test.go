package service

import (
	"context"
	"errors"
	"testing"

	"driftboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.Post) error
	getByIDFn         func(context.Context, uint) (*models.Post, error)
	listByBoardFn     func(context.Context, uint, string, int, int) ([]models.Post, error)
	getByIDsFn        func(context.Context, []uint) ([]models.Post, error)
	updateFn          func(context.Context, *models.Post) error
	deleteFn          func(context.Context, uint) error
	getLikedPostIDsFn func(context.Context, uint, []uint) (map[uint]bool, error)
	isLikedFn         func(context.Context, uint, uint) (bool, error)
	recordViewFn      func(context.Context, uint, string) (bool, error)
	toggleLikeFn      func(context.Context, uint, uint) (*models.LikeToggle, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListByBoard(ctx context.Context, boardID uint, sort string, limit, offset int) ([]models.Post, error) {
	return s.listByBoardFn(ctx, boardID, sort, limit, offset)
}
func (s *postRepoStub) GetByIDs(ctx context.Context, ids []uint) ([]models.Post, error) {
	return s.getByIDsFn(ctx, ids)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) GetLikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	return s.getLikedPostIDsFn(ctx, userID, postIDs)
}
func (s *postRepoStub) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, userID, postID)
}
func (s *postRepoStub) RecordView(ctx context.Context, postID uint, viewerKey string) (bool, error) {
	return s.recordViewFn(ctx, postID, viewerKey)
}
func (s *postRepoStub) ToggleLike(ctx context.Context, userID, postID uint) (*models.LikeToggle, error) {
	return s.toggleLikeFn(ctx, userID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, _ uint) (*models.Post, error) { return &models.Post{}, nil },
		listByBoardFn: func(_ context.Context, _ uint, _ string, _, _ int) ([]models.Post, error) {
			return nil, nil
		},
		getByIDsFn: func(_ context.Context, _ []uint) ([]models.Post, error) { return nil, nil },
		updateFn:   func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:   func(_ context.Context, _ uint) error { return nil },
		getLikedPostIDsFn: func(_ context.Context, _ uint, _ []uint) (map[uint]bool, error) {
			return map[uint]bool{}, nil
		},
		isLikedFn:    func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		recordViewFn: func(_ context.Context, _ uint, _ string) (bool, error) { return false, nil },
		toggleLikeFn: func(_ context.Context, _, _ uint) (*models.LikeToggle, error) {
			return &models.LikeToggle{}, nil
		},
	}
}

// boardRepoStub is a stub for repository.BoardRepository.
type boardRepoStub struct {
	getBySlugFn    func(context.Context, string) (*models.Board, error)
	getBySlugAnyFn func(context.Context, string) (*models.Board, error)
	getByIDFn      func(context.Context, uint) (*models.Board, error)
	listFn         func(context.Context) ([]*models.Board, error)
	listAllFn      func(context.Context, bool) ([]*models.Board, error)
	createFn       func(context.Context, *models.Board) error
	updateFn       func(context.Context, *models.Board) error
	softDeleteFn   func(context.Context, uint) error
}

func (s *boardRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Board, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *boardRepoStub) GetBySlugAny(ctx context.Context, slug string) (*models.Board, error) {
	return s.getBySlugAnyFn(ctx, slug)
}
func (s *boardRepoStub) GetByID(ctx context.Context, id uint) (*models.Board, error) {
	return s.getByIDFn(ctx, id)
}
func (s *boardRepoStub) List(ctx context.Context) ([]*models.Board, error) {
	return s.listFn(ctx)
}
func (s *boardRepoStub) ListAll(ctx context.Context, includeDeleted bool) ([]*models.Board, error) {
	return s.listAllFn(ctx, includeDeleted)
}
func (s *boardRepoStub) Create(ctx context.Context, board *models.Board) error {
	return s.createFn(ctx, board)
}
func (s *boardRepoStub) Update(ctx context.Context, board *models.Board) error {
	return s.updateFn(ctx, board)
}
func (s *boardRepoStub) SoftDelete(ctx context.Context, id uint) error {
	return s.softDeleteFn(ctx, id)
}

func liveBoardRepo(board *models.Board) *boardRepoStub {
	return &boardRepoStub{
		getBySlugFn: func(_ context.Context, slug string) (*models.Board, error) {
			if board != nil && slug == board.Slug {
				return board, nil
			}
			return nil, nil
		},
		getBySlugAnyFn: func(_ context.Context, slug string) (*models.Board, error) {
			if board != nil && slug == board.Slug {
				return board, nil
			}
			return nil, nil
		},
		getByIDFn:    func(_ context.Context, _ uint) (*models.Board, error) { return board, nil },
		listFn:       func(_ context.Context) ([]*models.Board, error) { return []*models.Board{board}, nil },
		listAllFn:    func(_ context.Context, _ bool) ([]*models.Board, error) { return []*models.Board{board}, nil },
		createFn:     func(_ context.Context, _ *models.Board) error { return nil },
		updateFn:     func(_ context.Context, _ *models.Board) error { return nil },
		softDeleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn         func(context.Context, *models.Comment) error
	getByIDFn        func(context.Context, uint) (*models.Comment, error)
	getByIDAndPostFn func(context.Context, uint, uint) (*models.Comment, error)
	listByPostFn     func(context.Context, uint) ([]models.Comment, error)
	updateFn         func(context.Context, *models.Comment) error
	softDeleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) GetByIDAndPost(ctx context.Context, id, postID uint) (*models.Comment, error) {
	return s.getByIDAndPostFn(ctx, id, postID)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) SoftDelete(ctx context.Context, id uint) error {
	return s.softDeleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:         func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:        func(_ context.Context, _ uint) (*models.Comment, error) { return &models.Comment{}, nil },
		getByIDAndPostFn: func(_ context.Context, _, _ uint) (*models.Comment, error) { return &models.Comment{}, nil },
		listByPostFn:     func(_ context.Context, _ uint) ([]models.Comment, error) { return nil, nil },
		updateFn:         func(_ context.Context, _ *models.Comment) error { return nil },
		softDeleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn        func(context.Context, *models.User) error
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByNicknameFn func(context.Context, string) (*models.User, error)
	isAdminFn       func(context.Context, uint) (bool, error)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByNickname(ctx context.Context, nickname string) (*models.User, error) {
	return s.getByNicknameFn(ctx, nickname)
}
func (s *userRepoStub) IsAdmin(ctx context.Context, id uint) (bool, error) {
	return s.isAdminFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn:       func(_ context.Context, _ uint) (*models.User, error) { return &models.User{}, nil },
		getByNicknameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		isAdminFn:       func(_ context.Context, _ uint) (bool, error) { return false, nil },
	}
}

// searcherStub is a stub for the Searcher interface.
type searcherStub struct {
	searchFn func(context.Context, uint, string, int, int) ([]models.SearchHit, error)
}

func (s *searcherStub) Search(ctx context.Context, boardID uint, query string, limit, offset int) ([]models.SearchHit, error) {
	return s.searchFn(ctx, boardID, query, limit, offset)
}

// assertAppError asserts that err is an AppError with the given code.
func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}
