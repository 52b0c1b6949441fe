package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolapp/internal/apperr"
	"schoolapp/internal/auth"
	"schoolapp/internal/salaries"
)

func (h *handlers) addSalary(c *gin.Context) {
	var req struct {
		TeacherID int     `json:"teacher_id" binding:"required"`
		Month     string  `json:"month" binding:"required"`
		Amount    float64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.d.Salaries.Add(c.Request.Context(), salaries.Salary{
		TeacherID: req.TeacherID, Month: req.Month, Amount: req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *handlers) paySalary(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	s, err := h.d.Salaries.MarkPaid(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *handlers) salariesByTeacher(c *gin.Context) {
	teacherID, err := intParam(c, "teacher_id")
	if err != nil {
		respondError(c, err)
		return
	}
	caller, _ := auth.FromContext(c)
	// teachers may only read their own records
	if caller.Role == auth.RoleTeacher && caller.ID != teacherID {
		respondError(c, apperr.ErrForbidden)
		return
	}

	list, err := h.d.Salaries.ListByTeacher(c.Request.Context(), teacherID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
