package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"driftboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Board{}, &models.Post{},
		&models.Comment{}, &models.Like{}, &models.PostView{},
		&models.SearchEntry{},
	))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

func seedUserAndBoard(t *testing.T, db *gorm.DB) (*models.User, *models.Board) {
	t.Helper()
	user := &models.User{Nickname: fmt.Sprintf("tester-%d", time.Now().UnixNano()), Password: "x"}
	require.NoError(t, db.Create(user).Error)
	board := &models.Board{Name: "General", Slug: fmt.Sprintf("general-%d", time.Now().UnixNano())}
	require.NoError(t, db.Create(board).Error)
	return user, board
}

func TestPostCreateIndexesSearchRow(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	user, board := seedUserAndBoard(t, db)

	post := &models.Post{BoardID: board.ID, UserID: user.ID, Title: "hello", Body: "world"}
	require.NoError(t, repo.Create(context.Background(), post))

	var entry models.SearchEntry
	require.NoError(t, db.First(&entry, "post_id = ?", post.ID).Error)
	assert.Equal(t, "hello", entry.Title)
	assert.Equal(t, "world", entry.Body)
}

func TestPostDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	user, board := seedUserAndBoard(t, db)

	post := &models.Post{BoardID: board.ID, UserID: user.ID, Title: "t", Body: "b"}
	require.NoError(t, repo.Create(context.Background(), post))
	require.NoError(t, db.Create(&models.Comment{PostID: post.ID, UserID: user.ID, Body: "c"}).Error)
	require.NoError(t, db.Create(&models.Like{PostID: post.ID, UserID: user.ID}).Error)
	_, err := repo.RecordView(context.Background(), post.ID, "ip:10.0.0.1")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), post.ID))

	for _, model := range []any{&models.Post{}, &models.Comment{}, &models.Like{}, &models.PostView{}, &models.SearchEntry{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count, "%T rows should be gone", model)
	}
}

func TestListByBoardSorts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	user, board := seedUserAndBoard(t, db)

	base := time.Now().Add(-time.Hour)
	mk := func(title string, likes, views int, at time.Time) *models.Post {
		p := &models.Post{BoardID: board.ID, UserID: user.ID, Title: title, Body: "b",
			LikeCount: likes, ViewCount: views, CreatedAt: at}
		require.NoError(t, db.Create(p).Error)
		return p
	}
	oldest := mk("oldest", 5, 1, base)
	middle := mk("middle", 5, 9, base.Add(time.Minute))
	newest := mk("newest", 2, 9, base.Add(2*time.Minute))

	ctx := context.Background()

	latest, err := repo.ListByBoard(ctx, board.ID, models.SortLatest, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{newest.ID, middle.ID, oldest.ID}, postIDs(latest))

	// Equal like counts fall back to recency.
	byLikes, err := repo.ListByBoard(ctx, board.ID, models.SortLikes, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{middle.ID, oldest.ID, newest.ID}, postIDs(byLikes))

	byViews, err := repo.ListByBoard(ctx, board.ID, models.SortViews, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint{newest.ID, middle.ID, oldest.ID}, postIDs(byViews))
}

func postIDs(posts []models.Post) []uint {
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func TestRecordViewDeduplicates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	user, board := seedUserAndBoard(t, db)

	post := &models.Post{BoardID: board.ID, UserID: user.ID, Title: "t", Body: "b"}
	require.NoError(t, repo.Create(context.Background(), post))

	ctx := context.Background()
	recorded, err := repo.RecordView(ctx, post.ID, "user:1")
	require.NoError(t, err)
	assert.True(t, recorded)

	// Same viewer again: silently ignored, counter untouched.
	recorded, err = repo.RecordView(ctx, post.ID, "user:1")
	require.NoError(t, err)
	assert.False(t, recorded)

	recorded, err = repo.RecordView(ctx, post.ID, "ip:10.0.0.1")
	require.NoError(t, err)
	assert.True(t, recorded)

	fresh, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.ViewCount)
}

func TestToggleLikeRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	user, board := seedUserAndBoard(t, db)

	post := &models.Post{BoardID: board.ID, UserID: user.ID, Title: "t", Body: "b"}
	require.NoError(t, repo.Create(context.Background(), post))

	ctx := context.Background()
	on, err := repo.ToggleLike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, on.Liked)
	assert.Equal(t, 1, on.LikeCount)

	liked, err := repo.IsLiked(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	off, err := repo.ToggleLike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, off.Liked)
	assert.Equal(t, 0, off.LikeCount)

	// Unliking at zero must not drive the counter negative.
	require.NoError(t, db.Model(post).UpdateColumn("like_count", 0).Error)
	_, err = repo.ToggleLike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	off, err = repo.ToggleLike(ctx, user.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, off.Liked)
	assert.GreaterOrEqual(t, off.LikeCount, 0)
}

func TestGetLikedPostIDsBatches(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostRepository(db)
	user, board := seedUserAndBoard(t, db)

	ctx := context.Background()
	var ids []uint
	for i := 0; i < 3; i++ {
		p := &models.Post{BoardID: board.ID, UserID: user.ID, Title: fmt.Sprintf("p%d", i), Body: "b"}
		require.NoError(t, repo.Create(ctx, p))
		ids = append(ids, p.ID)
	}
	_, err := repo.ToggleLike(ctx, user.ID, ids[0])
	require.NoError(t, err)
	_, err = repo.ToggleLike(ctx, user.ID, ids[2])
	require.NoError(t, err)

	liked, err := repo.GetLikedPostIDs(ctx, user.ID, ids)
	require.NoError(t, err)
	assert.True(t, liked[ids[0]])
	assert.False(t, liked[ids[1]])
	assert.True(t, liked[ids[2]])

	empty, err := repo.GetLikedPostIDs(ctx, user.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
