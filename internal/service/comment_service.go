package service

import (
	"context"

	"driftboard/internal/models"
	"driftboard/internal/repository"
)

const maxCommentLen = 10000

// CommentService owns the comment lifecycle and thread assembly.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

type CreateCommentInput struct {
	UserID   uint
	PostID   uint
	ParentID *uint
	Body     string
}

// ListThread returns a post's comments as a nested forest, oldest first at
// every level.
func (s *CommentService) ListThread(ctx context.Context, postID uint) ([]*models.CommentNode, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post not found")
	}

	comments, err := s.commentRepo.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return BuildCommentTree(comments), nil
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if in.Body == "" {
		return nil, models.NewValidationError("Comment body is required")
	}
	if len(in.Body) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post not found")
	}

	// A reply's parent must be a comment on the same post.
	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByIDAndPost(ctx, *in.ParentID, in.PostID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, models.NewValidationError("Parent comment not found on this post")
		}
	}

	comment := &models.Comment{
		PostID:   in.PostID,
		UserID:   in.UserID,
		ParentID: in.ParentID,
		Body:     in.Body,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) UpdateComment(ctx context.Context, userID, commentID uint, body string) (*models.Comment, error) {
	if body == "" {
		return nil, models.NewValidationError("Comment body is required")
	}
	if len(body) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil || comment.IsDeleted {
		return nil, models.NewNotFoundError("Comment not found")
	}
	if comment.UserID != userID {
		return nil, models.NewForbiddenError("You can only edit your own comments")
	}

	comment.Body = body
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment soft-deletes so replies stay attached under the placeholder.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil || comment.IsDeleted {
		return models.NewNotFoundError("Comment not found")
	}
	if comment.UserID != userID {
		admin, err := s.userRepo.IsAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("You can only delete your own comments")
		}
	}
	return s.commentRepo.SoftDelete(ctx, commentID)
}
