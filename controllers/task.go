package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/adelelawady/stacktogether/constants"
	"github.com/adelelawady/stacktogether/models"
	"github.com/adelelawady/stacktogether/services"
	"github.com/adelelawady/stacktogether/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type TaskController struct {
	DB    *gorm.DB
	Board *services.BoardService
}

type taskInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  *string    `json:"assigned_to"`
}

// CreateTask appends a task to the bottom of a list.
func (tc *TaskController) CreateTask(c *gin.Context) {
	listID := c.Param("id")
	userID := c.GetString("user_id")
	role := c.GetString("role")

	var list models.TaskList
	if err := tc.DB.First(&list, "id = ?", listID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		return
	}
	if !utils.IsProjectMember(tc.DB, list.ProjectID, userID) && role != constants.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only project members can create tasks"})
		return
	}

	var input taskInput
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := models.Task{
		ListID:      listID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Status:      input.Status,
		DueDate:     input.DueDate,
		AssignedTo:  input.AssignedTo,
		CreatedBy:   userID,
	}

	err := tc.Board.CreateTask(&task)
	if errors.Is(err, services.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task fields"})
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("list_id", listID).Msg("create task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// GetTask returns the task with profiles and its comment tree. ?sort=
// selects newest, oldest, or most_reactions for root comments.
func (tc *TaskController) GetTask(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString("user_id")
	role := c.GetString("role")

	var task models.Task
	if err := tc.DB.
		Preload("CreatedByProfile").
		Preload("AssignedToProfile").
		First(&task, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	var list models.TaskList
	if err := tc.DB.First(&list, "id = ?", task.ListID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		return
	}
	var project models.Project
	if err := tc.DB.First(&project, "id = ?", list.ProjectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if !utils.CanViewProject(tc.DB, project, userID, role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this task"})
		return
	}

	sortOption := c.DefaultQuery("sort", constants.SortOldest)
	if !constants.IsSortOption(sortOption) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort option"})
		return
	}

	tree, err := tc.Board.Comments.TreeForTask(id, sortOption)
	if err != nil {
		log.Error().Err(err).Str("task_id", id).Msg("load comments")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load comments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"task":     task,
		"comments": tree,
	})
}

func (tc *TaskController) UpdateTask(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString("user_id")
	role := c.GetString("role")

	var task models.Task
	if err := tc.DB.First(&task, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	var list models.TaskList
	if err := tc.DB.First(&list, "id = ?", task.ListID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		return
	}
	if !utils.IsProjectMember(tc.DB, list.ProjectID, userID) && role != constants.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only project members can edit tasks"})
		return
	}

	var input struct {
		Title       *string    `json:"title"`
		Description *string    `json:"description"`
		Priority    *string    `json:"priority"`
		Status      *string    `json:"status"`
		DueDate     *time.Time `json:"due_date"`
		AssignedTo  *string    `json:"assigned_to"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Title != nil {
		if *input.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Title cannot be empty"})
			return
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !constants.IsPriority(*input.Priority) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid priority"})
			return
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		if !constants.IsTaskStatus(*input.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
			return
		}
		task.Status = *input.Status
	}
	if input.DueDate != nil {
		task.DueDate = input.DueDate
	}
	if input.AssignedTo != nil {
		if *input.AssignedTo == "" {
			task.AssignedTo = nil
		} else {
			if !utils.IsProjectMember(tc.DB, list.ProjectID, *input.AssignedTo) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Assignee must be a project member"})
				return
			}
			task.AssignedTo = input.AssignedTo
		}
	}

	if err := tc.DB.Save(&task).Error; err != nil {
		log.Error().Err(err).Str("task_id", id).Msg("update task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask removes the task and renumbers the list it left.
func (tc *TaskController) DeleteTask(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString("user_id")
	role := c.GetString("role")

	var task models.Task
	if err := tc.DB.First(&task, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	var list models.TaskList
	if err := tc.DB.First(&list, "id = ?", task.ListID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		return
	}
	if !utils.IsProjectMember(tc.DB, list.ProjectID, userID) && role != constants.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only project members can delete tasks"})
		return
	}

	if err := tc.Board.DeleteTask(id); err != nil {
		log.Error().Err(err).Str("task_id", id).Msg("delete task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
