package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schoolapp/internal/students"
)

type studentRequest struct {
	Name     string `json:"name" binding:"required"`
	Class    string `json:"class" binding:"required"`
	ParentID *int   `json:"parent_id"`
	RollNo   string `json:"roll_no" binding:"required"`
}

func (h *handlers) addStudent(c *gin.Context) {
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.d.Students.Add(c.Request.Context(), students.Student{
		Name: req.Name, Class: req.Class, ParentID: req.ParentID, RollNo: req.RollNo,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *handlers) updateStudent(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req studentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := h.d.Students.Update(c.Request.Context(), students.Student{
		ID: id, Name: req.Name, Class: req.Class, ParentID: req.ParentID, RollNo: req.RollNo,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *handlers) listStudents(c *gin.Context) {
	list, err := h.d.Students.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handlers) deleteStudent(c *gin.Context) {
	id, err := intParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.d.Students.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "student deleted"})
}
