package services

import (
	"errors"
	"fmt"

	"github.com/adelelawady/stacktogether/constants"
	"github.com/adelelawady/stacktogether/models"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrIndexRange    = errors.New("index out of range")
	ErrInvalidInput  = errors.New("invalid input")
	ErrDepthExceeded = errors.New("reply depth limit exceeded")
)

// BoardService owns every write to list and task positions. Positions are
// only ever written as a dense 0..n-1 renumbering of a whole list, so gaps
// and duplicates cannot outlive the transaction that would create them.
type BoardService struct {
	DB       *gorm.DB
	Comments *CommentService
}

func NewBoardService(db *gorm.DB) *BoardService {
	return &BoardService{DB: db, Comments: NewCommentService(db)}
}

// LoadBoard returns the project's lists ordered by position, each hydrated
// with its tasks (ordered by position) and their comment trees. A project
// with no lists gets the four defaults first; a second load creates nothing.
func (s *BoardService) LoadBoard(projectID string) ([]models.TaskList, error) {
	if err := s.ensureDefaultLists(projectID); err != nil {
		return nil, err
	}

	var lists []models.TaskList
	err := s.DB.
		Where("project_id = ?", projectID).
		Order("position asc").
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Preload("Tasks.CreatedByProfile").
		Preload("Tasks.AssignedToProfile").
		Find(&lists).Error
	if err != nil {
		return nil, fmt.Errorf("load task lists: %w", err)
	}

	for i := range lists {
		for j := range lists[i].Tasks {
			tree, err := s.Comments.TreeForTask(lists[i].Tasks[j].ID, constants.SortOldest)
			if err != nil {
				return nil, err
			}
			lists[i].Tasks[j].Comments = flatten(tree)
		}
	}
	return lists, nil
}

func (s *BoardService) ensureDefaultLists(projectID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.TaskList{}).
			Where("project_id = ?", projectID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("count task lists: %w", err)
		}
		if count > 0 {
			return nil
		}
		for i, def := range constants.DefaultLists {
			list := models.TaskList{
				ProjectID: projectID,
				Name:      def.Name,
				Type:      def.Type,
				Position:  i,
			}
			if err := tx.Create(&list).Error; err != nil {
				return fmt.Errorf("create default list %q: %w", def.Name, err)
			}
		}
		return nil
	})
}

// CreateList appends a list after the project's current rightmost one.
func (s *BoardService) CreateList(projectID, name, listType string) (*models.TaskList, error) {
	if name == "" || !constants.IsListType(listType) {
		return nil, ErrInvalidInput
	}

	list := models.TaskList{ProjectID: projectID, Name: name, Type: listType}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var max int
		if err := tx.Model(&models.TaskList{}).
			Where("project_id = ?", projectID).
			Select("COALESCE(MAX(position), -1)").
			Scan(&max).Error; err != nil {
			return fmt.Errorf("max list position: %w", err)
		}
		list.Position = max + 1
		return tx.Create(&list).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create list: %w", err)
	}
	return &list, nil
}

// CreateTask appends a task at the bottom of its list.
func (s *BoardService) CreateTask(task *models.Task) error {
	if task.Title == "" {
		return ErrInvalidInput
	}
	if task.Priority != "" && !constants.IsPriority(task.Priority) {
		return ErrInvalidInput
	}
	if task.Status != "" && !constants.IsTaskStatus(task.Status) {
		return ErrInvalidInput
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var list models.TaskList
		if err := tx.First(&list, "id = ?", task.ListID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("find list: %w", err)
		}
		var count int64
		if err := tx.Model(&models.Task{}).
			Where("list_id = ?", task.ListID).
			Count(&count).Error; err != nil {
			return fmt.Errorf("count tasks: %w", err)
		}
		task.Position = int(count)
		if err := tx.Create(task).Error; err != nil {
			return fmt.Errorf("create task: %w", err)
		}
		return nil
	})
}

// DeleteTask removes the task and closes the gap it leaves behind.
func (s *BoardService) DeleteTask(taskID string) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("find task: %w", err)
		}
		if err := tx.Where("comment_id IN (?)",
			tx.Model(&models.Comment{}).Select("id").Where("task_id = ?", taskID),
		).Delete(&models.CommentReaction{}).Error; err != nil {
			return fmt.Errorf("delete reactions: %w", err)
		}
		if err := tx.Where("task_id = ?", taskID).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		if err := tx.Delete(&task).Error; err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		return renumberList(tx, task.ListID)
	})
}

// ReorderWithinList moves the task at fromIndex to toIndex and rewrites the
// whole list's positions as a dense sequence in one transaction.
func (s *BoardService) ReorderWithinList(listID string, fromIndex, toIndex int) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		tasks, err := listTasks(tx, listID)
		if err != nil {
			return err
		}
		reordered, err := splice(tasks, fromIndex, toIndex)
		if err != nil {
			return err
		}
		return writePositions(tx, reordered)
	})
}

// MoveAcrossLists reparents the task into destListID at destIndex and
// renumbers both lists. destIndex is clamped to the destination's bounds.
func (s *BoardService) MoveAcrossLists(taskID, destListID string, destIndex int) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, "id = ?", taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("find task: %w", err)
		}
		if task.ListID == destListID {
			return ErrInvalidInput
		}
		var dest models.TaskList
		if err := tx.First(&dest, "id = ?", destListID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("find destination list: %w", err)
		}

		sourceListID := task.ListID
		if err := tx.Model(&task).Update("list_id", destListID).Error; err != nil {
			return fmt.Errorf("reparent task: %w", err)
		}

		destTasks, err := listTasks(tx, destListID)
		if err != nil {
			return err
		}
		// The moved task was appended by the reparent; pull it out and
		// reinsert at the requested slot.
		var moved models.Task
		rest := destTasks[:0]
		for _, t := range destTasks {
			if t.ID == taskID {
				moved = t
				continue
			}
			rest = append(rest, t)
		}
		if destIndex < 0 {
			destIndex = 0
		}
		if destIndex > len(rest) {
			destIndex = len(rest)
		}
		ordered := make([]models.Task, 0, len(rest)+1)
		ordered = append(ordered, rest[:destIndex]...)
		ordered = append(ordered, moved)
		ordered = append(ordered, rest[destIndex:]...)

		if err := writePositions(tx, ordered); err != nil {
			return err
		}
		return renumberList(tx, sourceListID)
	})
}

func listTasks(tx *gorm.DB, listID string) ([]models.Task, error) {
	var tasks []models.Task
	if err := tx.
		Where("list_id = ?", listID).
		Order("position asc").
		Order("created_at asc").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("load tasks for list: %w", err)
	}
	return tasks, nil
}

// splice removes the element at from and reinserts it at to, returning the
// new order. Index validation is the caller's contract with the client.
func splice(tasks []models.Task, from, to int) ([]models.Task, error) {
	if from < 0 || from >= len(tasks) || to < 0 || to >= len(tasks) {
		return nil, ErrIndexRange
	}
	out := make([]models.Task, 0, len(tasks))
	out = append(out, tasks[:from]...)
	out = append(out, tasks[from+1:]...)
	moved := tasks[from]
	out = append(out[:to], append([]models.Task{moved}, out[to:]...)...)
	return out, nil
}

// writePositions persists each task's index as its position.
func writePositions(tx *gorm.DB, tasks []models.Task) error {
	for i := range tasks {
		if tasks[i].Position == i {
			continue
		}
		if err := tx.Model(&models.Task{}).
			Where("id = ?", tasks[i].ID).
			Update("position", i).Error; err != nil {
			return fmt.Errorf("write position: %w", err)
		}
	}
	return nil
}

// renumberList rewrites a list's positions as 0..n-1 in current sort order.
func renumberList(tx *gorm.DB, listID string) error {
	tasks, err := listTasks(tx, listID)
	if err != nil {
		return err
	}
	return writePositions(tx, tasks)
}

// flatten turns a comment tree back into root-ordered rows with Replies
// kept nested, which is what the board payload serializes.
func flatten(roots []*models.Comment) []models.Comment {
	out := make([]models.Comment, 0, len(roots))
	for _, c := range roots {
		out = append(out, *c)
	}
	return out
}
