package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is both the auth principal and the public directory entry.
type Profile struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	Email             string    `gorm:"uniqueIndex;size:255" json:"email"`
	Password          string    `json:"-"`
	FullName          string    `json:"full_name"`
	Title             string    `json:"title"`
	Bio               string    `json:"bio"`
	Location          string    `json:"location"`
	AvatarURL         string    `json:"avatar_url"`
	Role              string    `gorm:"default:'user'" json:"role"`
	YearsOfExperience int       `gorm:"default:0" json:"years_of_experience"`
	GithubURL         string    `json:"github_url"`
	LinkedinURL       string    `json:"linkedin_url"`
	TwitterURL        string    `json:"twitter_url"`
	WebsiteURL        string    `json:"website_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`

	Skills []UserSkill `json:"skills,omitempty"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type Skill struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100" json:"name"`
	Category  string    `json:"category"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Skill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

type UserSkill struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ProfileID string    `gorm:"size:36;uniqueIndex:idx_profile_skill" json:"profile_id"`
	SkillID   string    `gorm:"size:36;uniqueIndex:idx_profile_skill" json:"skill_id"`
	CreatedAt time.Time `json:"created_at"`

	Skill Skill `gorm:"foreignKey:SkillID" json:"skill"`
}

func (us *UserSkill) BeforeCreate(tx *gorm.DB) error {
	if us.ID == "" {
		us.ID = uuid.NewString()
	}
	return nil
}

type Category struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100" json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Bookmark marks another profile as saved by the owning profile.
type Bookmark struct {
	ID                  string    `gorm:"primaryKey;size:36" json:"id"`
	ProfileID           string    `gorm:"size:36;uniqueIndex:idx_bookmark_pair" json:"profile_id"`
	BookmarkedProfileID string    `gorm:"size:36;uniqueIndex:idx_bookmark_pair" json:"bookmarked_profile_id"`
	CreatedAt           time.Time `json:"created_at"`

	BookmarkedProfile Profile `gorm:"foreignKey:BookmarkedProfileID" json:"bookmarked_profile,omitempty"`
}

func (b *Bookmark) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Endorsement is a one-way vouch between profiles.
type Endorsement struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	ProfileID         string    `gorm:"size:36;uniqueIndex:idx_endorsement_pair" json:"profile_id"`
	EndorsedProfileID string    `gorm:"size:36;uniqueIndex:idx_endorsement_pair" json:"endorsed_profile_id"`
	CreatedAt         time.Time `json:"created_at"`
}

func (e *Endorsement) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
