package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a node in a task's reply tree. ParentID is nil for root
// comments. Replies is populated in memory by the comment service, not
// by a recursive database association.
type Comment struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	TaskID    string    `gorm:"size:36;index" json:"task_id"`
	ParentID  *string   `gorm:"size:36;index" json:"parent_id"`
	Content   string    `json:"content"`
	CreatedBy string    `gorm:"size:36" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Profile   Profile           `gorm:"foreignKey:CreatedBy" json:"profile,omitempty"`
	Reactions []CommentReaction `gorm:"foreignKey:CommentID" json:"reactions"`
	Replies   []*Comment        `gorm:"-" json:"replies"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CommentReaction rows are unique per (comment, creator, type); the index
// backs the toggle's check-then-act so a race cannot store duplicates.
type CommentReaction struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CommentID string    `gorm:"size:36;uniqueIndex:idx_reaction_once" json:"comment_id"`
	CreatedBy string    `gorm:"size:36;uniqueIndex:idx_reaction_once" json:"created_by"`
	Type      string    `gorm:"size:20;uniqueIndex:idx_reaction_once" json:"type"`
	CreatedAt time.Time `json:"created_at"`

	Profile Profile `gorm:"foreignKey:CreatedBy" json:"profile,omitempty"`
}

func (r *CommentReaction) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
