package auth

import "schoolapp/internal/apperr"

// Roles known to the system. Every user carries exactly one.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleParent  = "parent"
)

// Staff is the set allowed to mark attendance and manage records.
var Staff = []string{RoleAdmin, RoleTeacher}

// AllRoles is the set accepted at registration.
var AllRoles = []string{RoleAdmin, RoleTeacher, RoleParent}

// Identity is the decoded caller extracted from a verified token.
// It lives for one request only.
type Identity struct {
	ID   int
	Role string
}

// Authorize permits the identity iff its role is in the allowed set.
func Authorize(id Identity, allowed ...string) error {
	for _, role := range allowed {
		if id.Role == role {
			return nil
		}
	}
	return apperr.ErrForbidden
}

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	for _, r := range AllRoles {
		if role == r {
			return true
		}
	}
	return false
}
