package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolapp/internal/auth"
	"schoolapp/internal/results"
)

func (h *handlers) addResults(c *gin.Context) {
	var req struct {
		StudentID int    `json:"student_id" binding:"required"`
		Exam      string `json:"exam" binding:"required"`
		Subjects  []struct {
			Subject    string `json:"subject" binding:"required"`
			Marks      int    `json:"marks"`
			TotalMarks int    `json:"totalMarks" binding:"required"`
			Grade      string `json:"grade" binding:"required"`
		} `json:"subjects" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subjects := make([]results.Result, 0, len(req.Subjects))
	for _, s := range req.Subjects {
		subjects = append(subjects, results.Result{
			Subject: s.Subject, Marks: s.Marks, TotalMarks: s.TotalMarks, Grade: s.Grade,
		})
	}

	inserted, err := h.d.Results.AddBatch(c.Request.Context(), req.StudentID, req.Exam, subjects)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "results added", "results": inserted})
}

func (h *handlers) resultsByStudent(c *gin.Context) {
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

	list, err := h.d.Results.ListByStudent(c.Request.Context(), studentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
