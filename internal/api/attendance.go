package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"schoolapp/internal/apperr"
	"schoolapp/internal/attendance"
	"schoolapp/internal/auth"
)

func (h *handlers) markAttendance(c *gin.Context) {
	var req struct {
		StudentID int    `json:"student_id" binding:"required"`
		Date      string `json:"date" binding:"required"`
		Status    string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caller, _ := auth.FromContext(c)

	rec, err := h.d.Attendance.Mark(c.Request.Context(), caller, req.StudentID, req.Date, attendance.Status(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *handlers) bulkMarkAttendance(c *gin.Context) {
	var req struct {
		Entries []attendance.Entry `json:"entries"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	caller, _ := auth.FromContext(c)

	if err := h.d.Attendance.BulkMark(c.Request.Context(), caller, req.Entries); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "attendance recorded"})
}

func (h *handlers) attendanceByStudent(c *gin.Context) {
	studentID, err := strconv.Atoi(c.Param("student_id"))
	if err != nil {
		respondError(c, apperr.Invalidf("invalid student id"))
		return
	}
	caller, _ := auth.FromContext(c)

	records, err := h.d.Attendance.GetByStudent(c.Request.Context(), caller, studentID, c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *handlers) attendanceByDate(c *gin.Context) {
	caller, _ := auth.FromContext(c)

	records, err := h.d.Attendance.GetByDate(c.Request.Context(), caller, c.Param("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}
