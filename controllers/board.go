package controllers

import (
	"errors"
	"net/http"

	"github.com/adelelawady/stacktogether/models"
	"github.com/adelelawady/stacktogether/services"
	"github.com/adelelawady/stacktogether/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type BoardController struct {
	DB    *gorm.DB
	Board *services.BoardService
}

// GetBoard returns the project's fully hydrated board. Opening a board
// with no lists bootstraps the four defaults.
func (bc *BoardController) GetBoard(c *gin.Context) {
	projectID := c.Param("id")
	userID := c.GetString("user_id")
	role := c.GetString("role")

	var project models.Project
	if err := bc.DB.First(&project, "id = ?", projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if !utils.CanViewProject(bc.DB, project, userID, role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this project"})
		return
	}

	lists, err := bc.Board.LoadBoard(projectID)
	if err != nil {
		log.Error().Err(err).Str("project_id", projectID).Msg("load board")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load board"})
		return
	}

	c.JSON(http.StatusOK, lists)
}

func (bc *BoardController) CreateList(c *gin.Context) {
	projectID := c.Param("id")
	userID := c.GetString("user_id")
	role := c.GetString("role")

	if !bc.requireMember(c, projectID, userID, role) {
		return
	}

	var input struct {
		Name string `json:"name" binding:"required"`
		Type string `json:"type" binding:"required"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := bc.Board.CreateList(projectID, input.Name, input.Type)
	if errors.Is(err, services.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid list name or type"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("project_id", projectID).Msg("create list")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create list"})
		return
	}

	c.JSON(http.StatusOK, list)
}

// ReorderList moves a task inside one list. The whole list is renumbered
// to a dense 0..n-1 sequence before the transaction commits.
func (bc *BoardController) ReorderList(c *gin.Context) {
	listID := c.Param("id")
	userID := c.GetString("user_id")
	role := c.GetString("role")

	list, ok := bc.listForUpdate(c, listID, userID, role)
	if !ok {
		return
	}

	var input struct {
		FromIndex *int `json:"from_index" binding:"required"`
		ToIndex   *int `json:"to_index" binding:"required"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := bc.Board.ReorderWithinList(list.ID, *input.FromIndex, *input.ToIndex)
	if errors.Is(err, services.ErrIndexRange) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Index out of range"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("list_id", listID).Msg("reorder list")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reorder tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reordered"})
}

// MoveTask reparents a task into another list at a target index. Both the
// source and destination lists are renumbered in the same transaction.
func (bc *BoardController) MoveTask(c *gin.Context) {
	taskID := c.Param("id")
	userID := c.GetString("user_id")
	role := c.GetString("role")

	task, ok := bc.taskForUpdate(c, taskID, userID, role)
	if !ok {
		return
	}

	var input struct {
		DestListID string `json:"dest_list_id" binding:"required"`
		DestIndex  *int   `json:"dest_index" binding:"required"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var dest models.TaskList
	if err := bc.DB.First(&dest, "id = ?", input.DestListID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Destination list not found"})
		return
	}
	var source models.TaskList
	if err := bc.DB.First(&source, "id = ?", task.ListID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Source list not found"})
		return
	}
	if dest.ProjectID != source.ProjectID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot move tasks between projects"})
		return
	}

	err := bc.Board.MoveAcrossLists(taskID, input.DestListID, *input.DestIndex)
	if errors.Is(err, services.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task is already in that list"})
		return
	}
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task or list not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("task_id", taskID).Msg("move task")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move task"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Moved"})
}

func (bc *BoardController) requireMember(c *gin.Context, projectID, userID, role string) bool {
	var project models.Project
	if err := bc.DB.First(&project, "id = ?", projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return false
	}
	if !utils.CanManageProject(bc.DB, projectID, userID, role) &&
		!utils.IsProjectMember(bc.DB, projectID, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only project members can modify the board"})
		return false
	}
	return true
}

func (bc *BoardController) listForUpdate(c *gin.Context, listID, userID, role string) (models.TaskList, bool) {
	var list models.TaskList
	if err := bc.DB.First(&list, "id = ?", listID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		return list, false
	}
	if !bc.requireMember(c, list.ProjectID, userID, role) {
		return list, false
	}
	return list, true
}

func (bc *BoardController) taskForUpdate(c *gin.Context, taskID, userID, role string) (models.Task, bool) {
	var task models.Task
	if err := bc.DB.First(&task, "id = ?", taskID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return task, false
	}
	var list models.TaskList
	if err := bc.DB.First(&list, "id = ?", task.ListID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "List not found"})
		return task, false
	}
	if !bc.requireMember(c, list.ProjectID, userID, role) {
		return task, false
	}
	return task, true
}
