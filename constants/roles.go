package constants

// Platform-wide roles carried in the JWT.
const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

// Per-project membership roles.
const (
	ProjectRoleOwner     = "owner"
	ProjectRoleAdmin     = "admin"
	ProjectRoleModerator = "moderator"
	ProjectRoleMember    = "member"
)

// Membership and join-request statuses.
const (
	MemberStatusPending  = "pending"
	MemberStatusApproved = "approved"
	MemberStatusRejected = "rejected"
)

// Project lifecycle statuses.
const (
	ProjectStatusDraft    = "draft"
	ProjectStatusActive   = "active"
	ProjectStatusArchived = "archived"
)

func IsProjectRole(role string) bool {
	switch role {
	case ProjectRoleOwner, ProjectRoleAdmin, ProjectRoleModerator, ProjectRoleMember:
		return true
	}
	return false
}

func IsProjectStatus(status string) bool {
	switch status {
	case ProjectStatusDraft, ProjectStatusActive, ProjectStatusArchived:
		return true
	}
	return false
}
