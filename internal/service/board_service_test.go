package service

import (
	"context"
	"testing"

	"driftboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBoardSlugRules(t *testing.T) {
	svc := NewBoardService(liveBoardRepo(nil))
	ctx := context.Background()

	for _, slug := range []string{"General", "has space", "trailing-", "-leading", "under_score", ""} {
		_, err := svc.CreateBoard(ctx, BoardInput{Name: "General", Slug: slug})
		assertAppError(t, err, "VALIDATION_ERROR")
	}

	board, err := svc.CreateBoard(ctx, BoardInput{Name: "General", Slug: "general-2"})
	require.NoError(t, err)
	assert.Equal(t, "general-2", board.Slug)
}

func TestCreateBoardSlugCollision(t *testing.T) {
	// A soft-deleted board still owns its slug.
	repo := liveBoardRepo(&models.Board{ID: 1, Slug: "general", IsDeleted: true})
	svc := NewBoardService(repo)

	_, err := svc.CreateBoard(context.Background(), BoardInput{Name: "General", Slug: "general"})
	assertAppError(t, err, "CONFLICT")
}

func TestUpdateBoardMissing(t *testing.T) {
	svc := NewBoardService(liveBoardRepo(nil))
	_, err := svc.UpdateBoard(context.Background(), "nope", BoardInput{Name: "x"})
	assertAppError(t, err, "NOT_FOUND")
}

func TestDeleteBoardSoft(t *testing.T) {
	repo := liveBoardRepo(&models.Board{ID: 3, Slug: "general"})
	var deletedID uint
	repo.softDeleteFn = func(_ context.Context, id uint) error {
		deletedID = id
		return nil
	}

	svc := NewBoardService(repo)
	require.NoError(t, svc.DeleteBoard(context.Background(), "general"))
	assert.Equal(t, uint(3), deletedID)
}
