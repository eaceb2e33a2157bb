package controllers

import (
	"net/http"

	"github.com/adelelawady/stacktogether/constants"
	"github.com/adelelawady/stacktogether/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ProfileController struct {
	DB *gorm.DB
}

// GetProfiles lists the directory. ?search= matches name/title/location as
// a substring; ?skill= filters by skill id.
func (pc *ProfileController) GetProfiles(c *gin.Context) {
	query := pc.DB.Model(&models.Profile{}).Preload("Skills.Skill")

	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"full_name LIKE ? OR title LIKE ? OR location LIKE ?",
			like, like, like,
		)
	}
	if skillID := c.Query("skill"); skillID != "" {
		query = query.Where(
			"id IN (?)",
			pc.DB.Model(&models.UserSkill{}).Select("profile_id").Where("skill_id = ?", skillID),
		)
	}

	var profiles []models.Profile
	if err := query.Find(&profiles).Error; err != nil {
		log.Error().Err(err).Msg("list profiles")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profiles"})
		return
	}

	c.JSON(http.StatusOK, profiles)
}

func (pc *ProfileController) GetProfile(c *gin.Context) {
	id := c.Param("id")

	var profile models.Profile
	if err := pc.DB.Preload("Skills.Skill").First(&profile, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile lets a user edit their own row; admins can edit anyone.
func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString("user_id")
	role := c.GetString("role")

	if id != userID && role != constants.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own profile"})
		return
	}

	var profile models.Profile
	if err := pc.DB.First(&profile, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	var input struct {
		FullName          *string `json:"full_name"`
		Title             *string `json:"title"`
		Bio               *string `json:"bio"`
		Location          *string `json:"location"`
		AvatarURL         *string `json:"avatar_url"`
		YearsOfExperience *int    `json:"years_of_experience"`
		GithubURL         *string `json:"github_url"`
		LinkedinURL       *string `json:"linkedin_url"`
		TwitterURL        *string `json:"twitter_url"`
		WebsiteURL        *string `json:"website_url"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.FullName != nil {
		profile.FullName = *input.FullName
	}
	if input.Title != nil {
		profile.Title = *input.Title
	}
	if input.Bio != nil {
		profile.Bio = *input.Bio
	}
	if input.Location != nil {
		profile.Location = *input.Location
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = *input.AvatarURL
	}
	if input.YearsOfExperience != nil {
		profile.YearsOfExperience = *input.YearsOfExperience
	}
	if input.GithubURL != nil {
		profile.GithubURL = *input.GithubURL
	}
	if input.LinkedinURL != nil {
		profile.LinkedinURL = *input.LinkedinURL
	}
	if input.TwitterURL != nil {
		profile.TwitterURL = *input.TwitterURL
	}
	if input.WebsiteURL != nil {
		profile.WebsiteURL = *input.WebsiteURL
	}

	if err := pc.DB.Save(&profile).Error; err != nil {
		log.Error().Err(err).Str("profile_id", id).Msg("update profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (pc *ProfileController) AddSkill(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		SkillID string `json:"skill_id" binding:"required"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var skill models.Skill
	if err := pc.DB.First(&skill, "id = ?", input.SkillID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Skill not found"})
		return
	}

	userSkill := models.UserSkill{ProfileID: userID, SkillID: input.SkillID}
	if err := pc.DB.Create(&userSkill).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Skill already added"})
		return
	}

	c.JSON(http.StatusOK, userSkill)
}

func (pc *ProfileController) RemoveSkill(c *gin.Context) {
	userID := c.GetString("user_id")
	skillID := c.Param("id")

	res := pc.DB.
		Where("profile_id = ? AND skill_id = ?", userID, skillID).
		Delete(&models.UserSkill{})
	if res.Error != nil {
		log.Error().Err(res.Error).Msg("remove skill")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove skill"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Skill not on profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

func (pc *ProfileController) GetBookmarks(c *gin.Context) {
	userID := c.GetString("user_id")

	var bookmarks []models.Bookmark
	if err := pc.DB.
		Where("profile_id = ?", userID).
		Preload("BookmarkedProfile").
		Find(&bookmarks).Error; err != nil {
		log.Error().Err(err).Msg("list bookmarks")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load bookmarks"})
		return
	}

	c.JSON(http.StatusOK, bookmarks)
}

func (pc *ProfileController) AddBookmark(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		ProfileID string `json:"profile_id" binding:"required"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bookmark := models.Bookmark{ProfileID: userID, BookmarkedProfileID: input.ProfileID}
	if err := pc.DB.Create(&bookmark).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already bookmarked"})
		return
	}

	c.JSON(http.StatusOK, bookmark)
}

func (pc *ProfileController) RemoveBookmark(c *gin.Context) {
	userID := c.GetString("user_id")
	id := c.Param("id")

	res := pc.DB.
		Where("id = ? AND profile_id = ?", id, userID).
		Delete(&models.Bookmark{})
	if res.Error != nil {
		log.Error().Err(res.Error).Msg("remove bookmark")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove bookmark"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

func (pc *ProfileController) AddEndorsement(c *gin.Context) {
	userID := c.GetString("user_id")

	var input struct {
		ProfileID string `json:"profile_id" binding:"required"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.ProfileID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot endorse yourself"})
		return
	}

	endorsement := models.Endorsement{ProfileID: userID, EndorsedProfileID: input.ProfileID}
	if err := pc.DB.Create(&endorsement).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Already endorsed"})
		return
	}

	c.JSON(http.StatusOK, endorsement)
}

func (pc *ProfileController) RemoveEndorsement(c *gin.Context) {
	userID := c.GetString("user_id")
	id := c.Param("id")

	res := pc.DB.
		Where("id = ? AND profile_id = ?", id, userID).
		Delete(&models.Endorsement{})
	if res.Error != nil {
		log.Error().Err(res.Error).Msg("remove endorsement")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove endorsement"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endorsement not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
