package controllers

import (
	"errors"
	"net/http"

	"github.com/adelelawady/stacktogether/constants"
	"github.com/adelelawady/stacktogether/models"
	"github.com/adelelawady/stacktogether/services"
	"github.com/adelelawady/stacktogether/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type CommentController struct {
	DB       *gorm.DB
	Comments *services.CommentService
}

// CreateComment posts a comment on a task, optionally as a reply. Replies
// past the depth limit are rejected, not silently hidden.
func (cc *CommentController) CreateComment(c *gin.Context) {
	taskID := c.Param("id")
	userID := c.GetString("user_id")
	role := c.GetString("role")

	if !cc.canCommentOn(c, taskID, userID, role) {
		return
	}

	var input struct {
		Content  string  `json:"content" binding:"required"`
		ParentID *string `json:"parent_id"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := cc.Comments.Post(taskID, input.Content, userID, input.ParentID)
	switch {
	case errors.Is(err, services.ErrDepthExceeded):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Replies are limited to two levels"})
		return
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task or parent comment not found"})
		return
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid comment"})
		return
	case err != nil:
		log.Error().Err(err).Str("task_id", taskID).Msg("create comment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add comment"})
		return
	}

	c.JSON(http.StatusOK, comment)
}

// GetComments returns the task's comment tree; ?sort= orders the roots.
func (cc *CommentController) GetComments(c *gin.Context) {
	taskID := c.Param("id")
	userID := c.GetString("user_id")
	role := c.GetString("role")

	if !cc.canCommentOn(c, taskID, userID, role) {
		return
	}

	sortOption := c.DefaultQuery("sort", constants.SortOldest)
	if !constants.IsSortOption(sortOption) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort option"})
		return
	}

	tree, err := cc.Comments.TreeForTask(taskID, sortOption)
	if err != nil {
		log.Error().Err(err).Str("task_id", taskID).Msg("load comments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load comments"})
		return
	}

	c.JSON(http.StatusOK, tree)
}

func (cc *CommentController) DeleteComment(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString("user_id")
	role := c.GetString("role")

	var comment models.Comment
	if err := cc.DB.First(&comment, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	}
	if comment.CreatedBy != userID && role != constants.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own comments"})
		return
	}

	err := cc.DB.Transaction(func(tx *gorm.DB) error {
		// Replies and their reactions go with the comment.
		var ids []string
		if err := collectCommentIDs(tx, id, &ids); err != nil {
			return err
		}
		if err := tx.Where("comment_id IN ?", ids).Delete(&models.CommentReaction{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Comment{}).Error
	})
	if err != nil {
		log.Error().Err(err).Str("comment_id", id).Msg("delete comment")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// ToggleReaction adds the reaction when absent and removes it when present.
func (cc *CommentController) ToggleReaction(c *gin.Context) {
	commentID := c.Param("id")
	userID := c.GetString("user_id")

	var input struct {
		Type string `json:"type" binding:"required"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	added, err := cc.Comments.ToggleReaction(commentID, userID, input.Type)
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reaction type"})
		return
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
		return
	case err != nil:
		log.Error().Err(err).Str("comment_id", commentID).Msg("toggle reaction")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle reaction"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"added": added})
}

func (cc *CommentController) canCommentOn(c *gin.Context, taskID, userID, role string) bool {
	var task models.Task
	if err := cc.DB.First(&task, "id = ?", taskID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return false
	}
	var list models.TaskList
	if err := cc.DB.First(&list, "id = ?", task.ListID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		return false
	}
	var project models.Project
	if err := cc.DB.First(&project, "id = ?", list.ProjectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return false
	}
	if !utils.CanViewProject(cc.DB, project, userID, role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this task"})
		return false
	}
	return true
}

// collectCommentIDs gathers a comment and all of its descendants.
func collectCommentIDs(tx *gorm.DB, id string, out *[]string) error {
	*out = append(*out, id)

	var children []models.Comment
	if err := tx.Where("parent_id = ?", id).Find(&children).Error; err != nil {
		return err
	}
	for _, child := range children {
		if err := collectCommentIDs(tx, child.ID, out); err != nil {
			return err
		}
	}
	return nil
}
