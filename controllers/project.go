package controllers

import (
	"errors"
	"net/http"

	"github.com/adelelawady/stacktogether/constants"
	"github.com/adelelawady/stacktogether/models"
	"github.com/adelelawady/stacktogether/utils"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ProjectController struct {
	DB *gorm.DB
}

type projectInput struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Content     string   `json:"content"`
	CodeURL     string   `json:"code_url"`
	DemoURL     string   `json:"demo_url"`
	IsPublic    *bool    `json:"is_public"`
	Status      string   `json:"status"`
	Categories  []string `json:"categories"`
}

// CreateProject inserts the project and the owner membership in one
// transaction, so a failed membership insert cannot orphan the project.
func (pc *ProjectController) CreateProject(c *gin.Context) {
	userID := c.GetString("user_id")

	var input projectInput
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Status != "" && !constants.IsProjectStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	project := models.Project{
		Name:        input.Name,
		Description: input.Description,
		Content:     input.Content,
		CodeURL:     input.CodeURL,
		DemoURL:     input.DemoURL,
		Status:      input.Status,
		Categories:  input.Categories,
		OwnerID:     userID,
	}
	if input.IsPublic != nil {
		project.IsPublic = *input.IsPublic
	} else {
		project.IsPublic = true
	}

	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}
		member := models.ProjectMember{
			ProjectID: project.ID,
			ProfileID: userID,
			Role:      constants.ProjectRoleOwner,
			Status:    constants.MemberStatusApproved,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		log.Error().Err(err).Msg("create project")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	c.JSON(http.StatusOK, project)
}

// GetProjects lists projects the caller may see: public ones plus any the
// caller owns or belongs to. ?search= matches name/description substrings;
// ?status= filters by lifecycle status.
func (pc *ProjectController) GetProjects(c *gin.Context) {
	userID := c.GetString("user_id")
	role := c.GetString("role")

	query := pc.DB.Model(&models.Project{}).
		Preload("Owner").
		Preload("Skills.Skill").
		Preload("Members.Profile")

	if role != constants.RoleAdmin {
		query = query.Where(
			"is_public = ? OR owner_id = ? OR id IN (?)",
			true, userID,
			pc.DB.Model(&models.ProjectMember{}).
				Select("project_id").
				Where("profile_id = ? AND status = ?", userID, constants.MemberStatusApproved),
		)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var projects []models.Project
	if err := query.Order("created_at desc").Find(&projects).Error; err != nil {
		log.Error().Err(err).Msg("list projects")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load projects"})
		return
	}

	c.JSON(http.StatusOK, projects)
}

func (pc *ProjectController) GetProject(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString("user_id")
	role := c.GetString("role")

	var project models.Project
	if err := pc.DB.
		Preload("Owner").
		Preload("Skills.Skill").
		Preload("Members.Profile").
		Preload("JoinRequests.Profile").
		First(&project, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	if !utils.CanViewProject(pc.DB, project, userID, role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this project"})
		return
	}

	c.JSON(http.StatusOK, project)
}

func (pc *ProjectController) UpdateProject(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString("user_id")
	role := c.GetString("role")

	var project models.Project
	if err := pc.DB.First(&project, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	if !utils.CanManageProject(pc.DB, id, userID, role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only project owners and admins can edit"})
		return
	}

	var input projectInput
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Status != "" && !constants.IsProjectStatus(input.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	project.Name = input.Name
	project.Description = input.Description
	project.Content = input.Content
	project.CodeURL = input.CodeURL
	project.DemoURL = input.DemoURL
	if input.Status != "" {
		project.Status = input.Status
	}
	if input.IsPublic != nil {
		project.IsPublic = *input.IsPublic
	}
	if input.Categories != nil {
		project.Categories = input.Categories
	}

	if err := pc.DB.Save(&project).Error; err != nil {
		log.Error().Err(err).Str("project_id", id).Msg("update project")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	c.JSON(http.StatusOK, project)
}

// DeleteProject is the administrative hard-delete path.
func (pc *ProjectController) DeleteProject(c *gin.Context) {
	id := c.Param("id")

	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		listIDs := tx.Model(&models.TaskList{}).Select("id").Where("project_id = ?", id)
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("list_id IN (?)", listIDs)
		commentIDs := tx.Model(&models.Comment{}).Select("id").Where("task_id IN (?)", taskIDs)

		if err := tx.Where("comment_id IN (?)", commentIDs).Delete(&models.CommentReaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("list_id IN (?)", listIDs).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.TaskList{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectSkill{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectJoinRequest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectMember{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Project{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("project_id", id).Msg("delete project")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

func (pc *ProjectController) GetMembers(c *gin.Context) {
	projectID := c.Param("id")
	userID := c.GetString("user_id")
	role := c.GetString("role")

	var project models.Project
	if err := pc.DB.First(&project, "id = ?", projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if !utils.CanViewProject(pc.DB, project, userID, role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have access to this project"})
		return
	}

	var members []models.ProjectMember
	if err := pc.DB.
		Where("project_id = ?", projectID).
		Preload("Profile").
		Find(&members).Error; err != nil {
		log.Error().Err(err).Msg("list members")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load members"})
		return
	}

	c.JSON(http.StatusOK, members)
}

// AddProjectSkill tags the project with a skill from the vocabulary.
func (pc *ProjectController) AddProjectSkill(c *gin.Context) {
	projectID := c.Param("id")
	userID := c.GetString("user_id")
	role := c.GetString("role")

	var project models.Project
	if err := pc.DB.First(&project, "id = ?", projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if !utils.CanManageProject(pc.DB, projectID, userID, role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only project owners and admins can edit"})
		return
	}

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

	projectSkill := models.ProjectSkill{ProjectID: projectID, SkillID: input.SkillID}
	if err := pc.DB.Create(&projectSkill).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Skill already added"})
		return
	}
	projectSkill.Skill = skill

	c.JSON(http.StatusOK, projectSkill)
}

func (pc *ProjectController) RemoveProjectSkill(c *gin.Context) {
	projectID := c.Param("id")
	skillID := c.Param("skill_id")
	userID := c.GetString("user_id")
	role := c.GetString("role")

	if !utils.CanManageProject(pc.DB, projectID, userID, role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only project owners and admins can edit"})
		return
	}

	res := pc.DB.
		Where("project_id = ? AND skill_id = ?", projectID, skillID).
		Delete(&models.ProjectSkill{})
	if res.Error != nil {
		log.Error().Err(res.Error).Msg("remove project skill")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove skill"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Skill not on project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

// UpdateMember changes a membership role. Demoting the only owner is
// rejected so every project keeps at least one.
func (pc *ProjectController) UpdateMember(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString("user_id")
	role := c.GetString("role")

	var member models.ProjectMember
	if err := pc.DB.First(&member, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	if !utils.CanManageProject(pc.DB, member.ProjectID, userID, role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only project owners and admins can manage members"})
		return
	}

	var input struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !constants.IsProjectRole(input.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
		return
	}

	if member.Role == constants.ProjectRoleOwner && input.Role != constants.ProjectRoleOwner {
		ownerCount, err := pc.ownerCount(member.ProjectID)
		if err != nil {
			log.Error().Err(err).Msg("count owners")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
			return
		}
		if ownerCount <= 1 {
			c.JSON(http.StatusConflict, gin.H{"error": "A project must keep at least one owner"})
			return
		}
	}

	member.Role = input.Role
	if err := pc.DB.Save(&member).Error; err != nil {
		log.Error().Err(err).Str("member_id", id).Msg("update member")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}

	c.JSON(http.StatusOK, member)
}

func (pc *ProjectController) RemoveMember(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString("user_id")
	role := c.GetString("role")

	var member models.ProjectMember
	if err := pc.DB.First(&member, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	if !utils.CanManageProject(pc.DB, member.ProjectID, userID, role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only project owners and admins can manage members"})
		return
	}

	if member.Role == constants.ProjectRoleOwner {
		ownerCount, err := pc.ownerCount(member.ProjectID)
		if err != nil {
			log.Error().Err(err).Msg("count owners")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
			return
		}
		if ownerCount <= 1 {
			c.JSON(http.StatusConflict, gin.H{"error": "A project must keep at least one owner"})
			return
		}
	}

	if err := pc.DB.Delete(&member).Error; err != nil {
		log.Error().Err(err).Str("member_id", id).Msg("remove member")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Deleted"})
}

func (pc *ProjectController) ownerCount(projectID string) (int64, error) {
	var count int64
	err := pc.DB.Model(&models.ProjectMember{}).
		Where("project_id = ? AND role = ? AND status = ?",
			projectID, constants.ProjectRoleOwner, constants.MemberStatusApproved).
		Count(&count).Error
	return count, err
}

// CreateJoinRequest files a pending request to join the project.
func (pc *ProjectController) CreateJoinRequest(c *gin.Context) {
	projectID := c.Param("id")
	userID := c.GetString("user_id")

	var project models.Project
	if err := pc.DB.First(&project, "id = ?", projectID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}
	if utils.IsProjectMember(pc.DB, projectID, userID) {
		c.JSON(http.StatusConflict, gin.H{"error": "You are already a member"})
		return
	}

	var pending int64
	if err := pc.DB.Model(&models.ProjectJoinRequest{}).
		Where("project_id = ? AND profile_id = ? AND status = ?",
			projectID, userID, constants.MemberStatusPending).
		Count(&pending).Error; err != nil {
		log.Error().Err(err).Msg("count join requests")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send join request"})
		return
	}
	if pending > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "A join request is already pending"})
		return
	}

	var input struct {
		Message string `json:"message"`
	}
	// Body is optional for join requests.
	_ = c.ShouldBindJSON(&input)

	request := models.ProjectJoinRequest{
		ProjectID: projectID,
		ProfileID: userID,
		Message:   input.Message,
		Status:    constants.MemberStatusPending,
	}
	if err := pc.DB.Create(&request).Error; err != nil {
		log.Error().Err(err).Msg("create join request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send join request"})
		return
	}

	c.JSON(http.StatusOK, request)
}

// ResolveJoinRequest approves or rejects a pending request. Approval also
// upserts an approved membership, in the same transaction.
func (pc *ProjectController) ResolveJoinRequest(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString("user_id")
	role := c.GetString("role")

	var request models.ProjectJoinRequest
	if err := pc.DB.First(&request, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Join request not found"})
		return
	}

	if !utils.CanManageProject(pc.DB, request.ProjectID, userID, role) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only project owners and admins can resolve requests"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.BindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Status != constants.MemberStatusApproved && input.Status != constants.MemberStatusRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be approved or rejected"})
		return
	}
	if request.Status != constants.MemberStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Request already resolved"})
		return
	}

	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		request.Status = input.Status
		if err := tx.Save(&request).Error; err != nil {
			return err
		}
		if input.Status != constants.MemberStatusApproved {
			return nil
		}
		var existing models.ProjectMember
		err := tx.Where("project_id = ? AND profile_id = ?",
			request.ProjectID, request.ProfileID).
			First(&existing).Error
		if err == nil {
			existing.Status = constants.MemberStatusApproved
			return tx.Save(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		member := models.ProjectMember{
			ProjectID: request.ProjectID,
			ProfileID: request.ProfileID,
			Role:      constants.ProjectRoleMember,
			Status:    constants.MemberStatusApproved,
		}
		return tx.Create(&member).Error
	})
	if err != nil {
		log.Error().Err(err).Str("request_id", id).Msg("resolve join request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve join request"})
		return
	}

	c.JSON(http.StatusOK, request)
}
