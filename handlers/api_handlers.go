package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"classroom-roster/db"
	"classroom-roster/logger"
	"classroom-roster/models"
	"classroom-roster/roster"
	"classroom-roster/validator"

	"github.com/gin-gonic/gin"
)

// APIHandler holds the dependencies for API handlers
type APIHandler struct {
	Classrooms *db.ClassroomRepository
	Roster     *roster.Manager
	Validator  *validator.Validator
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(classrooms *db.ClassroomRepository, manager *roster.Manager, v *validator.Validator) *APIHandler {
	return &APIHandler{
		Classrooms: classrooms,
		Roster:     manager,
		Validator:  v,
	}
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type classroomRequest struct {
	ClassName string `json:"className" validate:"notblank,max=100"`
}

type studentRequest struct {
	Name string `json:"name" validate:"notblank,max=100"`
}

// RegisterRoutes mounts every endpoint under /api
func (h *APIHandler) RegisterRoutes(router gin.IRouter) {
	api := router.Group("/api")
	{
		api.GET("/classes", h.GetAllClasses)
		api.POST("/classes", h.AddClass)
		api.DELETE("/classes/:className", h.DeleteClass)

		api.GET("/classes/:className/students", h.GetStudentsByClass)
		api.POST("/classes/:className/students", h.AddStudent)
		api.PUT("/classes/:className/students/:studentId", h.RenameStudent)
		api.DELETE("/classes/:className/students/:studentId", h.DeleteStudent)
		api.GET("/classes/:className/random-student", h.GetRandomStudent)
		api.GET("/classes/:className/export", h.ExportStudents)

		api.POST("/import/students", h.ImportStudents)

		api.GET("/ping", PingHandler)
	}
}

// --- Class Handlers ---

// GetAllClasses handles GET /api/classes
func (h *APIHandler) GetAllClasses(c *gin.Context) {
	classes, err := h.Classrooms.ListClassrooms(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve classes"})
		return
	}
	c.JSON(http.StatusOK, classes)
}

// AddClass handles POST /api/classes
func (h *APIHandler) AddClass(c *gin.Context) {
	var req classroomRequest
	if !h.bind(c, &req) {
		return
	}

	clazz, err := h.Classrooms.AddClassroom(c.Request.Context(), req.ClassName)
	switch {
	case errors.Is(err, db.ErrClassroomExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Class already exists"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add class"})
	default:
		c.JSON(http.StatusCreated, clazz)
	}
}

// DeleteClass handles DELETE /api/classes/:className
func (h *APIHandler) DeleteClass(c *gin.Context) {
	err := h.Classrooms.DeleteClassroom(c.Request.Context(), c.Param("className"))
	switch {
	case errors.Is(err, db.ErrClassroomNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete class"})
	default:
		c.Status(http.StatusNoContent)
	}
}

// --- Student Handlers ---

// GetStudentsByClass handles GET /api/classes/:className/students.
// An unknown class is an empty roster, not a 404.
func (h *APIHandler) GetStudentsByClass(c *gin.Context) {
	students, err := h.Roster.LoadRoster(c.Request.Context(), c.Param("className"))
	h.respondRoster(c, http.StatusOK, students, err)
}

// AddStudent handles POST /api/classes/:className/students
func (h *APIHandler) AddStudent(c *gin.Context) {
	var req studentRequest
	if !h.bind(c, &req) {
		return
	}
	students, err := h.Roster.AddStudent(c.Request.Context(), c.Param("className"), req.Name)
	h.respondRoster(c, http.StatusOK, students, err)
}

// RenameStudent handles PUT /api/classes/:className/students/:studentId
func (h *APIHandler) RenameStudent(c *gin.Context) {
	var req studentRequest
	if !h.bind(c, &req) {
		return
	}
	students, err := h.Roster.RenameStudent(c.Request.Context(), c.Param("className"), c.Param("studentId"), req.Name)
	h.respondRoster(c, http.StatusOK, students, err)
}

// DeleteStudent handles DELETE /api/classes/:className/students/:studentId
func (h *APIHandler) DeleteStudent(c *gin.Context) {
	students, err := h.Roster.DeleteStudent(c.Request.Context(), c.Param("className"), c.Param("studentId"))
	h.respondRoster(c, http.StatusOK, students, err)
}

// GetRandomStudent handles GET /api/classes/:className/random-student
func (h *APIHandler) GetRandomStudent(c *gin.Context) {
	student, err := h.Roster.RandomStudent(c.Request.Context(), c.Param("className"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get random student"})
		return
	}
	if student == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No students found in this class"})
		return
	}
	c.JSON(http.StatusOK, student)
}

// --- Import / Export ---

// ImportStudents handles POST /api/import/students
func (h *APIHandler) ImportStudents(c *gin.Context) {
	className := c.PostForm("className")
	if err := h.Validator.Var(className, "notblank"); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing 'className' in form data"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Error retrieving uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	logger.Logger.Info().Str("file", header.Filename).Str("class", className).Msg("Received roster upload")

	importedCount, err := h.Roster.ImportFromExcel(c.Request.Context(), className, file)
	if err != nil {
		logger.Logger.Error().Err(err).Str("file", header.Filename).Msg("Import failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to import students: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Import successful",
		"importedCount": importedCount,
		"className":     className,
	})
}

// ExportStudents handles GET /api/classes/:className/export
func (h *APIHandler) ExportStudents(c *gin.Context) {
	className := c.Param("className")

	var buf bytes.Buffer
	if err := h.Roster.ExportToExcel(c.Request.Context(), className, &buf); err != nil {
		logger.Logger.Error().Err(err).Str("class", className).Msg("Export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export students"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="roster.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// --- Ping Handler ---
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}

func (h *APIHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return false
	}
	if err := h.Validator.Validate(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": err})
		return false
	}
	return true
}

func (h *APIHandler) respondRoster(c *gin.Context, status int, students []models.Student, err error) {
	switch {
	case errors.Is(err, roster.ErrInvalidStudentName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "students": students})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage unavailable"})
	default:
		c.JSON(status, students)
	}
}
