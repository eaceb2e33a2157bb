package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:200" json:"name"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	CodeURL     string    `json:"code_url"`
	DemoURL     string    `json:"demo_url"`
	IsPublic    bool      `gorm:"default:true" json:"is_public"`
	Status      string    `gorm:"default:'draft'" json:"status"`
	OwnerID     string    `gorm:"size:36" json:"owner_id"`
	Categories  []string  `gorm:"serializer:json" json:"categories"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Owner        Profile              `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Skills       []ProjectSkill       `json:"skills,omitempty"`
	Members      []ProjectMember      `json:"members,omitempty"`
	JoinRequests []ProjectJoinRequest `json:"join_requests,omitempty"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProjectSkill tags a project with an entry from the skill vocabulary.
type ProjectSkill struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string    `gorm:"size:36;uniqueIndex:idx_project_skill" json:"project_id"`
	SkillID   string    `gorm:"size:36;uniqueIndex:idx_project_skill" json:"skill_id"`
	CreatedAt time.Time `json:"created_at"`

	Skill Skill `gorm:"foreignKey:SkillID" json:"skill"`
}

func (ps *ProjectSkill) BeforeCreate(tx *gorm.DB) error {
	if ps.ID == "" {
		ps.ID = uuid.NewString()
	}
	return nil
}

type ProjectMember struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string    `gorm:"size:36;uniqueIndex:idx_project_profile" json:"project_id"`
	ProfileID string    `gorm:"size:36;uniqueIndex:idx_project_profile" json:"profile_id"`
	Role      string    `gorm:"default:'member'" json:"role"`
	Status    string    `gorm:"default:'pending'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Profile Profile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}

func (m *ProjectMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type ProjectJoinRequest struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string    `gorm:"size:36;index" json:"project_id"`
	ProfileID string    `gorm:"size:36;index" json:"profile_id"`
	Message   string    `json:"message"`
	Status    string    `gorm:"default:'pending'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Profile Profile `gorm:"foreignKey:ProfileID" json:"profile,omitempty"`
}

func (r *ProjectJoinRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
