package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"schoolapp/internal/apperr"
	"schoolapp/internal/auth"
)

func intParam(c *gin.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, apperr.Invalidf("invalid %s", name)
	}
	return v, nil
}

// requireOwnChild allows staff through and restricts parents to students
// whose parent_id matches the caller.
func (h *handlers) requireOwnChild(c *gin.Context, caller auth.Identity, studentID int) error {
	if caller.Role != auth.RoleParent {
		return nil
	}
	parentID, err := h.d.Students.ParentID(c.Request.Context(), studentID)
	if err != nil {
		return err
	}
	if parentID == nil || *parentID != caller.ID {
		return apperr.ErrForbidden
	}
	return nil
}
