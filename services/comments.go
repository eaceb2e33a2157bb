package services

import (
	"errors"
	"fmt"
	"sort"

	"github.com/adelelawady/stacktogether/constants"
	"github.com/adelelawady/stacktogether/models"

	"gorm.io/gorm"
)

// CommentService owns the reply tree and reaction toggling for tasks.
// Comments are stored flat with a parent_id edge; the tree is assembled in
// memory from a single query rather than a fixed-depth join, so the read
// path and the write-time depth check agree on one limit.
type CommentService struct {
	DB *gorm.DB
}

func NewCommentService(db *gorm.DB) *CommentService {
	return &CommentService{DB: db}
}

// Post stores a comment, optionally as a reply. Replies below the depth
// limit are rejected outright instead of being stored and never rendered.
func (s *CommentService) Post(taskID, content, createdBy string, parentID *string) (*models.Comment, error) {
	if content == "" {
		return nil, ErrInvalidInput
	}

	comment := models.Comment{
		TaskID:    taskID,
		Content:   content,
		CreatedBy: createdBy,
		ParentID:  parentID,
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("find task: %w", err)
		}
		if parentID != nil {
			var parent models.Comment
			if err := tx.First(&parent, "id = ?", *parentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return fmt.Errorf("find parent comment: %w", err)
			}
			if parent.TaskID != taskID {
				return ErrInvalidInput
			}
			depth, err := s.depthOf(tx, parent)
			if err != nil {
				return err
			}
			if depth+1 > constants.MaxCommentDepth {
				return ErrDepthExceeded
			}
		}
		return tx.Create(&comment).Error
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// depthOf walks the parent chain to the root. Chains are acyclic because a
// parent must exist before its reply is written.
func (s *CommentService) depthOf(tx *gorm.DB, c models.Comment) (int, error) {
	depth := 0
	for c.ParentID != nil {
		var parent models.Comment
		if err := tx.First(&parent, "id = ?", *c.ParentID).Error; err != nil {
			return 0, fmt.Errorf("walk parent chain: %w", err)
		}
		c = parent
		depth++
	}
	return depth, nil
}

// TreeForTask loads every comment on the task in one query and assembles
// the reply tree, capped at the documented depth, with roots ordered by
// the requested sort option.
func (s *CommentService) TreeForTask(taskID, sortOption string) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := s.DB.
		Where("task_id = ?", taskID).
		Order("created_at asc").
		Preload("Profile").
		Preload("Reactions").
		Preload("Reactions.Profile").
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}

	roots := BuildTree(comments, constants.MaxCommentDepth)
	SortComments(roots, sortOption)
	return roots, nil
}

// ToggleReaction removes the (comment, user, type) reaction when present,
// otherwise adds it. Double-toggle is an involution. The check-then-act
// runs in a transaction and duplicates are fenced by a unique index.
func (s *CommentService) ToggleReaction(commentID, profileID, reactionType string) (added bool, err error) {
	if !constants.IsReactionType(reactionType) {
		return false, ErrInvalidInput
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, "id = ?", commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("find comment: %w", err)
		}

		var existing models.CommentReaction
		findErr := tx.
			Where("comment_id = ? AND created_by = ? AND type = ?",
				commentID, profileID, reactionType).
			First(&existing).Error
		switch {
		case findErr == nil:
			added = false
			return tx.Delete(&existing).Error
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			added = true
			reaction := models.CommentReaction{
				CommentID: commentID,
				CreatedBy: profileID,
				Type:      reactionType,
			}
			return tx.Create(&reaction).Error
		default:
			return fmt.Errorf("find reaction: %w", findErr)
		}
	})
	return added, err
}

// BuildTree links flat rows into root-comment trees. Rows deeper than
// maxDepth are dropped; with write-time enforcement in place they should
// not exist, so the cap is a read-side guarantee rather than a filter.
func BuildTree(comments []*models.Comment, maxDepth int) []*models.Comment {
	byID := make(map[string]*models.Comment, len(comments))
	for _, c := range comments {
		c.Replies = nil
		byID[c.ID] = c
	}

	depths := make(map[string]int, len(comments))
	var depthOf func(c *models.Comment) int
	depthOf = func(c *models.Comment) int {
		if d, ok := depths[c.ID]; ok {
			return d
		}
		d := 0
		if c.ParentID != nil {
			if parent, ok := byID[*c.ParentID]; ok {
				d = depthOf(parent) + 1
			}
		}
		depths[c.ID] = d
		return d
	}

	var roots []*models.Comment
	for _, c := range comments {
		if depthOf(c) > maxDepth {
			continue
		}
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Replies = append(parent.Replies, c)
		}
	}
	return roots
}

// SortComments orders root comments in place. Replies keep creation order.
// The sort is stable, so ties keep the input order.
func SortComments(roots []*models.Comment, option string) {
	switch option {
	case constants.SortNewest:
		sort.SliceStable(roots, func(i, j int) bool {
			return roots[i].CreatedAt.After(roots[j].CreatedAt)
		})
	case constants.SortMostReactions:
		sort.SliceStable(roots, func(i, j int) bool {
			return reactionTotal(roots[i]) > reactionTotal(roots[j])
		})
	default: // oldest
		sort.SliceStable(roots, func(i, j int) bool {
			return roots[i].CreatedAt.Before(roots[j].CreatedAt)
		})
	}
}

func reactionTotal(c *models.Comment) int {
	return len(c.Reactions)
}
