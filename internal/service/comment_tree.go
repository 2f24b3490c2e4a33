package service

import "driftboard/internal/models"

// BuildCommentTree turns a flat, creation-time-ordered comment list into a
// forest of nested nodes. Grouping preserves input order, so siblings stay
// time-ascending without re-sorting; equal timestamps keep row order.
// Soft-deleted comments are kept in place with a placeholder body so their
// replies remain attached. A comment whose parent is not in the input set is
// dropped; callers pass a consistent scope (all comments of one post).
func BuildCommentTree(comments []models.Comment) []*models.CommentNode {
	children := make(map[uint][]*models.Comment, len(comments))
	var roots []*models.Comment

	for i := range comments {
		c := &comments[i]
		if c.ParentID == nil {
			roots = append(roots, c)
		} else {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		}
	}

	var materialize func(c *models.Comment) *models.CommentNode
	materialize = func(c *models.Comment) *models.CommentNode {
		node := &models.CommentNode{
			ID:        c.ID,
			PostID:    c.PostID,
			ParentID:  c.ParentID,
			Body:      c.Body,
			IsDeleted: c.IsDeleted,
			Author:    c.User,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
			Children:  []*models.CommentNode{},
		}
		if c.IsDeleted {
			node.Body = models.DeletedCommentBody
		}
		for _, child := range children[c.ID] {
			node.Children = append(node.Children, materialize(child))
		}
		return node
	}

	forest := make([]*models.CommentNode, 0, len(roots))
	for _, root := range roots {
		forest = append(forest, materialize(root))
	}
	return forest
}
