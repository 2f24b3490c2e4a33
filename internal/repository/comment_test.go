package repository

import (
	"context"
	"testing"
	"time"

	"driftboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentListByPostOrder(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	user, board := seedUserAndBoard(t, db)

	post := &models.Post{BoardID: board.ID, UserID: user.ID, Title: "t", Body: "b"}
	require.NoError(t, db.Create(post).Error)

	base := time.Now().Add(-time.Hour)
	second := &models.Comment{PostID: post.ID, UserID: user.ID, Body: "second", CreatedAt: base.Add(time.Minute)}
	require.NoError(t, db.Create(second).Error)
	first := &models.Comment{PostID: post.ID, UserID: user.ID, Body: "first", CreatedAt: base}
	require.NoError(t, db.Create(first).Error)

	comments, err := repo.ListByPost(context.Background(), post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "first", comments[0].Body)
	assert.Equal(t, "second", comments[1].Body)
}

func TestCommentSoftDeleteKeepsRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	user, board := seedUserAndBoard(t, db)

	post := &models.Post{BoardID: board.ID, UserID: user.ID, Title: "t", Body: "b"}
	require.NoError(t, db.Create(post).Error)

	comment := &models.Comment{PostID: post.ID, UserID: user.ID, Body: "hot take"}
	require.NoError(t, repo.Create(context.Background(), comment))

	require.NoError(t, repo.SoftDelete(context.Background(), comment.ID))

	got, err := repo.GetByID(context.Background(), comment.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsDeleted)
	assert.Equal(t, models.DeletedCommentBody, got.Body)
}

func TestCommentGetByIDAndPost(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommentRepository(db)
	user, board := seedUserAndBoard(t, db)

	postA := &models.Post{BoardID: board.ID, UserID: user.ID, Title: "a", Body: "b"}
	require.NoError(t, db.Create(postA).Error)
	postB := &models.Post{BoardID: board.ID, UserID: user.ID, Title: "b", Body: "b"}
	require.NoError(t, db.Create(postB).Error)

	comment := &models.Comment{PostID: postA.ID, UserID: user.ID, Body: "on a"}
	require.NoError(t, repo.Create(context.Background(), comment))

	got, err := repo.GetByIDAndPost(context.Background(), comment.ID, postA.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)

	// Same comment looked up against the wrong post is treated as absent.
	got, err = repo.GetByIDAndPost(context.Background(), comment.ID, postB.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
