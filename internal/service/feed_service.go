package service

import (
	"context"
	"strings"

	"driftboard/internal/models"
	"driftboard/internal/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 50
	excerptRunes    = 140
)

// Searcher resolves a board-scoped query to ranked hits. Satisfied by
// search.Index.
type Searcher interface {
	Search(ctx context.Context, boardID uint, query string, limit, offset int) ([]models.SearchHit, error)
}

// FeedService assembles post listings: sorted scans, search delegation,
// pagination and per-viewer liked annotation.
type FeedService struct {
	boardRepo repository.BoardRepository
	postRepo  repository.PostRepository
	searcher  Searcher
}

func NewFeedService(boardRepo repository.BoardRepository, postRepo repository.PostRepository, searcher Searcher) *FeedService {
	return &FeedService{boardRepo: boardRepo, postRepo: postRepo, searcher: searcher}
}

type ListPostsInput struct {
	BoardSlug string
	Query     string
	Sort      string
	Limit     int
	Offset    int
	// ViewerID is 0 for anonymous viewers.
	ViewerID uint
}

// ListPosts returns one page of a board's posts. A present query delegates
// to the search index and ignores the sort key, since ranking dominates.
// The page is fetched with one extra row to learn whether more remain
// without a count query.
func (s *FeedService) ListPosts(ctx context.Context, in ListPostsInput) (*models.PostPage, error) {
	board, err := s.boardRepo.GetBySlug(ctx, in.BoardSlug)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, models.NewNotFoundError("Board not found")
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	switch in.Sort {
	case "", models.SortLatest, models.SortLikes, models.SortViews:
	default:
		return nil, models.NewValidationError("Invalid sort key")
	}

	var posts []*models.Post
	if strings.TrimSpace(in.Query) != "" {
		posts, err = s.searchPosts(ctx, board.ID, strings.TrimSpace(in.Query), limit+1, offset)
	} else {
		posts, err = s.scanPosts(ctx, board.ID, in.Sort, limit+1, offset)
	}
	if err != nil {
		return nil, err
	}

	hasMore := len(posts) > limit
	if hasMore {
		posts = posts[:limit]
	}

	if err := s.annotateLiked(ctx, in.ViewerID, posts); err != nil {
		return nil, err
	}
	for _, p := range posts {
		p.Excerpt = makeExcerpt(p.Body)
		p.BoardSlug = board.Slug
	}

	page := &models.PostPage{Items: posts, HasMore: hasMore}
	if page.Items == nil {
		page.Items = []*models.Post{}
	}
	if hasMore {
		next := offset + len(posts)
		page.NextOffset = &next
	}
	return page, nil
}

func (s *FeedService) scanPosts(ctx context.Context, boardID uint, sort string, limit, offset int) ([]*models.Post, error) {
	rows, err := s.postRepo.ListByBoard(ctx, boardID, sort, limit, offset)
	if err != nil {
		return nil, err
	}
	posts := make([]*models.Post, len(rows))
	for i := range rows {
		posts[i] = &rows[i]
	}
	return posts, nil
}

// searchPosts resolves search hits back to full posts, preserving the
// index's ranking order and attaching snippets where the ranked path
// produced them.
func (s *FeedService) searchPosts(ctx context.Context, boardID uint, query string, limit, offset int) ([]*models.Post, error) {
	hits, err := s.searcher.Search(ctx, boardID, query, limit, offset)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		return nil, nil
	}

	ids := make([]uint, len(hits))
	snippets := make(map[uint]*string, len(hits))
	for i, hit := range hits {
		ids[i] = hit.PostID
		snippets[hit.PostID] = hit.Snippet
	}

	rows, err := s.postRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.Post, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}

	posts := make([]*models.Post, 0, len(hits))
	for _, id := range ids {
		post, ok := byID[id]
		if !ok {
			continue
		}
		post.SearchSnippet = snippets[id]
		posts = append(posts, post)
	}
	return posts, nil
}

// annotateLiked marks the viewer's liked posts with a single batched lookup,
// never one query per post.
func (s *FeedService) annotateLiked(ctx context.Context, viewerID uint, posts []*models.Post) error {
	if viewerID == 0 || len(posts) == 0 {
		return nil
	}
	ids := make([]uint, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	liked, err := s.postRepo.GetLikedPostIDs(ctx, viewerID, ids)
	if err != nil {
		return err
	}
	for _, p := range posts {
		p.Liked = liked[p.ID]
	}
	return nil
}

var newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// makeExcerpt derives the plain-text list preview: newlines collapsed to
// spaces, truncated at a fixed rune count with an ellipsis.
func makeExcerpt(body string) string {
	flat := strings.TrimSpace(newlineReplacer.Replace(body))
	runes := []rune(flat)
	if len(runes) <= excerptRunes {
		return flat
	}
	return string(runes[:excerptRunes]) + "…"
}
