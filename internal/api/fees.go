package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolapp/internal/auth"
	"schoolapp/internal/fees"
)

func (h *handlers) listFees(c *gin.Context) {
	list, err := h.d.Fees.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handlers) addFee(c *gin.Context) {
	var req struct {
		StudentID int     `json:"student_id" binding:"required"`
		Amount    float64 `json:"amount" binding:"required"`
		DueDate   string  `json:"due_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	f, err := h.d.Fees.Add(c.Request.Context(), fees.Fee{
		StudentID: req.StudentID, Amount: req.Amount, DueDate: req.DueDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (h *handlers) feesByStudent(c *gin.Context) {
	studentID, err := intParam(c, "student_id")
	if err != nil {
		respondError(c, err)
		return
	}
	caller, _ := auth.FromContext(c)
	if err := h.requireOwnChild(c, caller, studentID); err != nil {
		respondError(c, err)
		return
	}

	list, err := h.d.Fees.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handlers) payFee(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	f, err := h.d.Fees.MarkPaid(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, f)
}
