package repository

import (
	"context"

	"driftboard/internal/models"
	"driftboard/internal/search"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations, including
// the like/view counters and the search index rows that live alongside them.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListByBoard(ctx context.Context, boardID uint, sort string, limit, offset int) ([]models.Post, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	GetLikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error)
	IsLiked(ctx context.Context, userID, postID uint) (bool, error)
	RecordView(ctx context.Context, postID uint, viewerKey string) (bool, error)
	ToggleLike(ctx context.Context, userID, postID uint) (*models.LikeToggle, error)
}

// postRepository implements PostRepository on GORM.
type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts a post and its search index row in one transaction.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return search.UpsertEntry(tx, post)
	})
}

// GetByID loads a post with its author and board. Returns (nil, nil) when
// the post does not exist.
func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Board").
		First(&post, id).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListByBoard returns one page of a board's posts under the given sort key.
// Every sort breaks ties by recency so pagination stays stable.
func (r *postRepository) ListByBoard(ctx context.Context, boardID uint, sort string, limit, offset int) ([]models.Post, error) {
	query := r.db.WithContext(ctx).
		Preload("User").
		Where("board_id = ?", boardID)

	switch sort {
	case models.SortLikes:
		query = query.Order("like_count DESC").Order("created_at DESC")
	case models.SortViews:
		query = query.Order("view_count DESC").Order("created_at DESC")
	default:
		query = query.Order("created_at DESC")
	}

	var posts []models.Post
	err := query.Limit(limit).Offset(offset).Find(&posts).Error
	return posts, err
}

// GetByIDs loads posts with authors for a set of ids, in no particular order.
func (r *postRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id IN ?", ids).
		Find(&posts).Error
	return posts, err
}

// Update saves an edited post and reindexes it in the same transaction.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(post).Error; err != nil {
			return err
		}
		return search.UpsertEntry(tx, post)
	})
}

// Delete removes a post together with its comments, likes, view records and
// search index row.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&models.PostView{}).Error; err != nil {
			return err
		}
		if err := search.DeleteEntry(tx, id); err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
}

// GetLikedPostIDs returns which of the given posts the user has liked,
// resolved in a single query.
func (r *postRepository) GetLikedPostIDs(ctx context.Context, userID uint, postIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool)
	if len(postIDs) == 0 {
		return liked, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}

// IsLiked reports whether one user has liked one post.
func (r *postRepository) IsLiked(ctx context.Context, userID, postID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

// RecordView counts a view for the given viewer key at most once per post.
// The unique (post_id, viewer_key) row is the dedup ledger; the counter only
// moves when the insert actually lands. Returns whether this view counted.
func (r *postRepository) RecordView(ctx context.Context, postID uint, viewerKey string) (bool, error) {
	recorded := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(
			"INSERT INTO post_views (post_id, viewer_key, created_at) VALUES (?, ?, CURRENT_TIMESTAMP) ON CONFLICT (post_id, viewer_key) DO NOTHING",
			postID, viewerKey,
		)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		recorded = true
		return tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	})
	return recorded, err
}

// ToggleLike flips the like state for (user, post) and keeps the counter in
// step. The decrement floors at zero so a drifted counter can never go
// negative. Returns the resulting state and counter value.
func (r *postRepository) ToggleLike(ctx context.Context, userID, postID uint) (*models.LikeToggle, error) {
	var result models.LikeToggle
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Like
		err := tx.Where("user_id = ? AND post_id = ?", userID, postID).First(&existing).Error

		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			err = tx.Model(&models.Post{}).
				Where("id = ?", postID).
				UpdateColumn("like_count", gorm.Expr("CASE WHEN like_count > 0 THEN like_count - 1 ELSE 0 END")).Error
			if err != nil {
				return err
			}
			result.Liked = false

		case err == gorm.ErrRecordNotFound:
			like := &models.Like{UserID: userID, PostID: postID}
			if err := tx.Create(like).Error; err != nil {
				return err
			}
			err = tx.Model(&models.Post{}).
				Where("id = ?", postID).
				UpdateColumn("like_count", gorm.Expr("like_count + 1")).Error
			if err != nil {
				return err
			}
			result.Liked = true

		default:
			return err
		}

		var post models.Post
		if err := tx.Select("like_count").First(&post, postID).Error; err != nil {
			return err
		}
		result.LikeCount = post.LikeCount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
