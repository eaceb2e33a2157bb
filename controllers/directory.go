package controllers

import (
	"net/http"

	"github.com/adelelawady/stacktogether/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DirectoryController serves the skill and category vocabularies. Writes
// are admin-only (enforced in the route table).
type DirectoryController struct {
	DB *gorm.DB
}

func (dc *DirectoryController) GetSkills(c *gin.Context) {
	query := dc.DB.Model(&models.Skill{}).Where("is_active = ?", true)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var skills []models.Skill
	if err := query.Order("name asc").Find(&skills).Error; err != nil {
		log.Error().Err(err).Msg("list skills")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load skills"})
		return
	}
	c.JSON(http.StatusOK, skills)
}

func (dc *DirectoryController) CreateSkill(c *gin.Context) {
	var skill models.Skill
	if err := c.BindJSON(&skill); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if skill.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	skill.ID = ""
	skill.IsActive = true

	var existing int64
	if err := dc.DB.Model(&models.Skill{}).
		Where("name = ?", skill.Name).
		Count(&existing).Error; err != nil {
		log.Error().Err(err).Msg("create skill")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create skill"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Skill already exists"})
		return
	}

	if err := dc.DB.Create(&skill).Error; err != nil {
		log.Error().Err(err).Str("name", skill.Name).Msg("create skill")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create skill"})
		return
	}
	c.JSON(http.StatusOK, skill)
}

func (dc *DirectoryController) UpdateSkill(c *gin.Context) {
	id := c.Param("id")

	var skill models.Skill
	if err := dc.DB.First(&skill, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Skill not found"})
		return
	}

	var input struct {
		Name     *string `json:"name"`
		Category *string `json:"category"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Name != nil {
		skill.Name = *input.Name
	}
	if input.Category != nil {
		skill.Category = *input.Category
	}
	if input.IsActive != nil {
		skill.IsActive = *input.IsActive
	}

	if err := dc.DB.Save(&skill).Error; err != nil {
		log.Error().Err(err).Str("skill_id", id).Msg("update skill")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update skill"})
		return
	}
	c.JSON(http.StatusOK, skill)
}

func (dc *DirectoryController) DeleteSkill(c *gin.Context) {
	id := c.Param("id")

	res := dc.DB.Delete(&models.Skill{}, "id = ?", id)
	if res.Error != nil {
		log.Error().Err(res.Error).Msg("delete skill")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete skill"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Skill not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

func (dc *DirectoryController) GetCategories(c *gin.Context) {
	var categories []models.Category
	if err := dc.DB.
		Where("is_active = ?", true).
		Order("name asc").
		Find(&categories).Error; err != nil {
		log.Error().Err(err).Msg("list categories")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load categories"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (dc *DirectoryController) CreateCategory(c *gin.Context) {
	var category models.Category
	if err := c.BindJSON(&category); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if category.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name is required"})
		return
	}
	category.ID = ""
	category.IsActive = true

	var existing int64
	if err := dc.DB.Model(&models.Category{}).
		Where("name = ?", category.Name).
		Count(&existing).Error; err != nil {
		log.Error().Err(err).Msg("create category")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Category already exists"})
		return
	}

	if err := dc.DB.Create(&category).Error; err != nil {
		log.Error().Err(err).Str("name", category.Name).Msg("create category")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
		return
	}
	c.JSON(http.StatusOK, category)
}

func (dc *DirectoryController) UpdateCategory(c *gin.Context) {
	id := c.Param("id")

	var category models.Category
	if err := dc.DB.First(&category, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	var input struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Name != nil {
		category.Name = *input.Name
	}
	if input.Description != nil {
		category.Description = *input.Description
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := dc.DB.Save(&category).Error; err != nil {
		log.Error().Err(err).Str("category_id", id).Msg("update category")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
		return
	}
	c.JSON(http.StatusOK, category)
}

func (dc *DirectoryController) DeleteCategory(c *gin.Context) {
	id := c.Param("id")

	res := dc.DB.Delete(&models.Category{}, "id = ?", id)
	if res.Error != nil {
		log.Error().Err(res.Error).Msg("delete category")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}
