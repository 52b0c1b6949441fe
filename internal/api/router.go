// Package api wires the HTTP surface: route groups, per-route role sets and
// request/response shapes.
package api

import (
	"github.com/gin-gonic/gin"

	"schoolapp/internal/announcements"
	"schoolapp/internal/attendance"
	"schoolapp/internal/auth"
	"schoolapp/internal/config"
	"schoolapp/internal/fees"
	"schoolapp/internal/notifications"
	"schoolapp/internal/queue"
	"schoolapp/internal/results"
	"schoolapp/internal/salaries"
	"schoolapp/internal/students"
	"schoolapp/internal/users"
)

// Deps collects everything the handlers need.
type Deps struct {
	Cfg           config.App
	Users         *users.Service
	UserRepo      *users.Repository
	Students      *students.Repository
	Attendance    *attendance.Service
	Fees          *fees.Repository
	Salaries      *salaries.Repository
	Results       *results.Repository
	Announcements *announcements.Repository
	Notifications *notifications.Repository
	Queue         queue.Queue
}

// Register mounts all /api routes. Role sets are declared once per route
// here; handlers only add ownership checks.
func Register(r gin.IRouter, d Deps) {
	h := &handlers{d: d}

	apiGroup := r.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", h.register)
	authGroup.POST("/login", h.login)

	authed := apiGroup.Group("", auth.RequireAuth(d.Cfg.JWTSecret, d.Cfg.JWTIssuer))

	usersGroup := authed.Group("/users", auth.RequireRoles(auth.RoleAdmin))
	usersGroup.GET("", h.listUsers)
	usersGroup.DELETE("/:id", h.deleteTeacher)

	studentsGroup := authed.Group("/students")
	studentsGroup.POST("", auth.RequireRoles(auth.RoleAdmin), h.addStudent)
	studentsGroup.PUT("/:id", auth.RequireRoles(auth.RoleAdmin), h.updateStudent)
	studentsGroup.GET("", auth.RequireRoles(auth.Staff...), h.listStudents)
	studentsGroup.DELETE("/:id", auth.RequireRoles(auth.RoleAdmin), h.deleteStudent)

	attendanceGroup := authed.Group("/attendance")
	attendanceGroup.POST("/mark", auth.RequireRoles(auth.Staff...), h.markAttendance)
	attendanceGroup.POST("/bulk-mark", auth.RequireRoles(auth.Staff...), h.bulkMarkAttendance)
	attendanceGroup.GET("/student/:student_id", h.attendanceByStudent)
	attendanceGroup.GET("/date/:date", h.attendanceByDate)

	feesGroup := authed.Group("/fees")
	feesGroup.GET("", auth.RequireRoles(auth.RoleAdmin), h.listFees)
	feesGroup.POST("", auth.RequireRoles(auth.RoleAdmin), h.addFee)
	feesGroup.GET("/student/:student_id", h.feesByStudent)
	feesGroup.PUT("/:id/pay", auth.RequireRoles(auth.RoleAdmin), h.payFee)

	salariesGroup := authed.Group("/salaries", auth.RequireRoles(auth.Staff...))
	salariesGroup.POST("", auth.RequireRoles(auth.RoleAdmin), h.addSalary)
	salariesGroup.PUT("/:id/pay", auth.RequireRoles(auth.RoleAdmin), h.paySalary)
	salariesGroup.GET("/teacher/:teacher_id", h.salariesByTeacher)

	resultsGroup := authed.Group("/results")
	resultsGroup.POST("", auth.RequireRoles(auth.Staff...), h.addResults)
	resultsGroup.GET("/student/:student_id", h.resultsByStudent)

	announcementsGroup := authed.Group("/announcements")
	announcementsGroup.POST("", auth.RequireRoles(auth.RoleAdmin), h.addAnnouncement)
	announcementsGroup.GET("", h.listAnnouncements)

	notificationsGroup := authed.Group("/notifications")
	notificationsGroup.POST("", auth.RequireRoles(auth.RoleAdmin), h.addNotification)
	notificationsGroup.GET("/user/:user_id", h.notificationsForUser)
}

type handlers struct {
	d Deps
}
