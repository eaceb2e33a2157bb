package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskList is a named column on a project board. Position orders lists
// left to right within a project.
type TaskList struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string    `gorm:"size:36;index" json:"project_id"`
	Name      string    `gorm:"size:100" json:"name"`
	Type      string    `gorm:"default:'todo'" json:"type"`
	Position  int       `gorm:"not null" json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Tasks []Task `gorm:"foreignKey:ListID" json:"tasks,omitempty"`
}

func (l *TaskList) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// Task belongs to exactly one list at a time. Position orders tasks top
// to bottom within the list and is rewritten to a dense 0..n-1 sequence
// on every structural change.
type Task struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	ListID      string     `gorm:"size:36;index" json:"list_id"`
	Title       string     `gorm:"size:200" json:"title"`
	Description string     `json:"description"`
	Priority    string     `gorm:"default:'medium'" json:"priority"`
	Status      string     `gorm:"default:'todo'" json:"status"`
	Position    int        `gorm:"not null" json:"position"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  *string    `gorm:"size:36" json:"assigned_to"`
	CreatedBy   string     `gorm:"size:36" json:"created_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	CreatedByProfile  Profile   `gorm:"foreignKey:CreatedBy" json:"created_by_profile,omitempty"`
	AssignedToProfile *Profile  `gorm:"foreignKey:AssignedTo" json:"assigned_to_profile,omitempty"`
	Comments          []Comment `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
