// Package search serves ranked full-text queries over the post search
// projection, degrading to substring matching when the full-text machinery
// is unavailable. Callers always see the same contract; only ranking quality
// and snippet presence change between paths.
package search

import (
	"context"
	"errors"
	"strings"

	"driftboard/internal/featureflags"
	"driftboard/internal/models"
	"driftboard/internal/observability"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// FlagFullText is the kill switch for the primary path. Unset means on.
const FlagFullText = "search_fts"

// Index answers board-scoped search queries.
type Index struct {
	db    *gorm.DB
	flags *featureflags.Manager
}

// NewIndex creates a search index over the given database handle.
func NewIndex(db *gorm.DB, flags *featureflags.Manager) *Index {
	return &Index{db: db, flags: flags}
}

// Search returns up to limit hits for query within one board, best match
// first. When the ranked path is structurally unavailable (missing index
// table, non-postgres driver, flag off) it transparently serves the
// substring fallback: recency order, nil snippets, no error.
func (ix *Index) Search(ctx context.Context, boardID uint, query string, limit, offset int) ([]models.SearchHit, error) {
	if ix.flags.Enabled(FlagFullText, true) {
		hits, err := ix.searchRanked(ctx, boardID, query, limit, offset)
		if err == nil {
			return hits, nil
		}
		if !isStructurallyUnavailable(err) {
			return nil, err
		}
	}

	observability.SearchFallbacks.Inc()
	return ix.searchFallback(ctx, boardID, query, limit, offset)
}

// searchRanked is the primary path: Postgres full-text match over the search
// projection, ts_rank ordering with created_at DESC tie-break, highlighted
// snippet per hit.
func (ix *Index) searchRanked(ctx context.Context, boardID uint, query string, limit, offset int) ([]models.SearchHit, error) {
	rows := []struct {
		PostID  uint
		Snippet string
	}{}

	err := ix.db.WithContext(ctx).Raw(`
		SELECT p.id AS post_id,
		       ts_headline('simple', s.body, websearch_to_tsquery('simple', @q),
		                   'StartSel=<mark>, StopSel=</mark>, MaxWords=18, MinWords=8, MaxFragments=1, FragmentDelimiter=" … "') AS snippet
		FROM post_search_index s
		JOIN posts p ON p.id = s.post_id
		WHERE p.board_id = @board
		  AND to_tsvector('simple', s.title || ' ' || s.body) @@ websearch_to_tsquery('simple', @q)
		ORDER BY ts_rank(to_tsvector('simple', s.title || ' ' || s.body), websearch_to_tsquery('simple', @q)) DESC,
		         p.created_at DESC
		LIMIT @limit OFFSET @offset`,
		map[string]any{
			"q":      query,
			"board":  boardID,
			"limit":  limit,
			"offset": offset,
		}).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	hits := make([]models.SearchHit, 0, len(rows))
	for _, row := range rows {
		snippet := row.Snippet
		hits = append(hits, models.SearchHit{PostID: row.PostID, Snippet: &snippet})
	}
	return hits, nil
}

// searchFallback matches by substring containment over title and body,
// ordered by recency. Snippets are absent on this path.
func (ix *Index) searchFallback(ctx context.Context, boardID uint, query string, limit, offset int) ([]models.SearchHit, error) {
	like := "%" + query + "%"
	match := "title LIKE ? OR body LIKE ?"
	if ix.db.Dialector.Name() == "postgres" {
		match = "title ILIKE ? OR body ILIKE ?"
	}

	var ids []uint
	err := ix.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("board_id = ?", boardID).
		Where(match, like, like).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}

	hits := make([]models.SearchHit, 0, len(ids))
	for _, id := range ids {
		hits = append(hits, models.SearchHit{PostID: id})
	}
	return hits, nil
}

// UpsertEntry replaces the indexed row for a post. Delete-then-insert keeps
// the semantics identical for create and edit; run inside the post's
// transaction so index and post never diverge.
func UpsertEntry(tx *gorm.DB, post *models.Post) error {
	if err := tx.Where("post_id = ?", post.ID).Delete(&models.SearchEntry{}).Error; err != nil {
		return err
	}
	entry := &models.SearchEntry{
		PostID: post.ID,
		Title:  post.Title,
		Body:   post.Body,
	}
	return tx.Create(entry).Error
}

// DeleteEntry removes the indexed row for a post.
func DeleteEntry(tx *gorm.DB, postID uint) error {
	return tx.Where("post_id = ?", postID).Delete(&models.SearchEntry{}).Error
}

// isStructurallyUnavailable reports whether an error means the ranked path
// cannot work at all, as opposed to a per-query failure. Covers a missing
// index table and drivers without the Postgres full-text functions.
func isStructurallyUnavailable(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 42P01 undefined_table, 42883 undefined_function
		return pgErr.Code == "42P01" || pgErr.Code == "42883"
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "no such table") ||
		strings.Contains(msg, "no such function") ||
		strings.Contains(msg, "no such column") ||
		strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "syntax error") // sqlite rejects @@ at parse time
}
