package utils

import (
	"time"

	"github.com/adelelawady/stacktogether/constants"
	"github.com/adelelawady/stacktogether/models"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var jwtSecret = []byte("supersecretkey")

// SetJWTSecret installs the signing key loaded from configuration. Called
// once at startup, before the router starts serving.
func SetJWTSecret(secret string) {
	if secret != "" {
		jwtSecret = []byte(secret)
	}
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(
		[]byte(password),
		bcrypt.DefaultCost,
	)
	return string(bytes), err
}

func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword(
		[]byte(hash),
		[]byte(password),
	)
	return err == nil
}

func GenerateJWT(profile models.Profile) (string, error) {
	claims := jwt.MapClaims{
		"user_id": profile.ID,
		"role":    profile.Role,
		"exp":     time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		claims,
	)

	return token.SignedString(jwtSecret)
}

// ProjectRole returns the approved membership role of a profile within a
// project, or "" when the profile is not an approved member.
func ProjectRole(db *gorm.DB, projectID, profileID string) string {
	var member models.ProjectMember
	err := db.
		Where("project_id = ? AND profile_id = ? AND status = ?",
			projectID, profileID, constants.MemberStatusApproved).
		First(&member).Error
	if err != nil {
		return ""
	}
	return member.Role
}

// IsProjectMember reports whether the profile holds an approved membership.
func IsProjectMember(db *gorm.DB, projectID, profileID string) bool {
	return ProjectRole(db, projectID, profileID) != ""
}

// CanManageProject reports whether the profile may mutate project settings,
// memberships, and join requests. Platform admins always can.
func CanManageProject(db *gorm.DB, projectID, profileID, platformRole string) bool {
	if platformRole == constants.RoleAdmin {
		return true
	}
	switch ProjectRole(db, projectID, profileID) {
	case constants.ProjectRoleOwner, constants.ProjectRoleAdmin:
		return true
	}
	return false
}

// CanViewProject reports whether the profile may read a project and its
// board. Public projects are readable by anyone.
func CanViewProject(db *gorm.DB, project models.Project, profileID, platformRole string) bool {
	if project.IsPublic {
		return true
	}
	if platformRole == constants.RoleAdmin {
		return true
	}
	if project.OwnerID == profileID {
		return true
	}
	return IsProjectMember(db, project.ID, profileID)
}

func JwtSecret() []byte {
	return jwtSecret
}
