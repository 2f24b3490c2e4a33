package service

import (
	"context"
	"log/slog"
	"time"

	"driftboard/internal/cache"
	"driftboard/internal/models"
	"driftboard/internal/observability"
	"driftboard/internal/preview"
	"driftboard/internal/repository"
)

const (
	maxTitleLen = 200
	maxBodyLen  = 50000
)

// PostService owns the post lifecycle plus the view and like counters.
type PostService struct {
	postRepo  repository.PostRepository
	boardRepo repository.BoardRepository
	userRepo  repository.UserRepository
	previews  preview.Fetcher
}

func NewPostService(
	postRepo repository.PostRepository,
	boardRepo repository.BoardRepository,
	userRepo repository.UserRepository,
	previews preview.Fetcher,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		boardRepo: boardRepo,
		userRepo:  userRepo,
		previews:  previews,
	}
}

type CreatePostInput struct {
	UserID    uint
	BoardSlug string
	Title     string
	Body      string
}

type UpdatePostInput struct {
	UserID uint
	PostID uint
	Title  string
	Body   string
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if in.Body == "" {
		return nil, models.NewValidationError("Body is required")
	}
	if len(in.Body) > maxBodyLen {
		return nil, models.NewValidationError("Body too long (max 50000 characters)")
	}

	board, err := s.boardRepo.GetBySlug(ctx, in.BoardSlug)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, models.NewNotFoundError("Board not found")
	}

	post := &models.Post{
		BoardID: board.ID,
		UserID:  in.UserID,
		Title:   in.Title,
		Body:    in.Body,
	}
	s.enrichLinkPreview(ctx, post)

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPostDetail loads a post, records the view for this viewer (at most
// once per viewer key) and annotates the viewer's like state.
func (s *PostService) GetPostDetail(ctx context.Context, postID uint, viewerID uint, viewerKey string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || post.Board.IsDeleted {
		return nil, models.NewNotFoundError("Post not found")
	}

	if viewerKey != "" {
		recorded, err := s.postRepo.RecordView(ctx, postID, viewerKey)
		if err != nil {
			return nil, err
		}
		if recorded {
			observability.ViewsRecorded.Inc()
			post.ViewCount++
		}
	}

	if viewerID != 0 {
		liked, err := s.postRepo.IsLiked(ctx, viewerID, postID)
		if err != nil {
			return nil, err
		}
		post.Liked = liked
	}

	post.BoardSlug = post.Board.Slug
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	// A post under a soft-deleted board is hidden, not editable.
	if post == nil || post.Board.IsDeleted {
		return nil, models.NewNotFoundError("Post not found")
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	if in.Title != "" {
		if len(in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 200 characters)")
		}
		post.Title = in.Title
	}
	if in.Body != "" {
		if len(in.Body) > maxBodyLen {
			return nil, models.NewValidationError("Body too long (max 50000 characters)")
		}
		post.Body = in.Body
		s.enrichLinkPreview(ctx, post)
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return models.NewNotFoundError("Post not found")
	}
	if post.UserID != userID {
		admin, err := s.userRepo.IsAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewForbiddenError("You can only delete your own posts")
		}
	}
	return s.postRepo.Delete(ctx, postID)
}

// ToggleLike flips the viewer's like on a post and returns the new state.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (*models.LikeToggle, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("Post not found")
	}

	result, err := s.postRepo.ToggleLike(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	state := "unliked"
	if result.Liked {
		state = "liked"
	}
	observability.LikeToggles.WithLabelValues(state).Inc()
	return result, nil
}

// FetchPreview resolves Open Graph metadata for a URL, served through the
// Redis cache when available.
func (s *PostService) FetchPreview(ctx context.Context, url string) (*preview.Preview, error) {
	if len(url) < 8 {
		return nil, models.NewValidationError("url is required")
	}
	if s.previews == nil {
		return &preview.Preview{URL: url}, nil
	}

	var p preview.Preview
	err := cache.Aside(ctx, cache.PreviewKey(url), &p, cache.PreviewTTL, func() error {
		fetchCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		fetched, err := s.previews.Fetch(fetchCtx, url)
		if err != nil {
			return err
		}
		p = *fetched
		return nil
	})
	if err != nil {
		// Preview resolution is best effort; a dead link still previews
		// as its bare URL.
		slog.DebugContext(ctx, "link preview fetch failed", "url", url, "error", err)
		return &preview.Preview{URL: url}, nil
	}
	return &p, nil
}

// enrichLinkPreview fills the post's og_* columns from the first URL in the
// body. Failures leave the fields empty.
func (s *PostService) enrichLinkPreview(ctx context.Context, post *models.Post) {
	url := preview.ExtractFirstURL(post.Body)
	if url == "" {
		post.OGURL, post.OGTitle, post.OGImage = nil, nil, nil
		return
	}
	p, err := s.FetchPreview(ctx, url)
	if err != nil || p == nil {
		return
	}
	post.OGURL = &p.URL
	if p.Title != "" {
		post.OGTitle = &p.Title
	}
	if p.Image != "" {
		post.OGImage = &p.Image
	}
}
