package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"todo-tracker/internal/domain"
	"todo-tracker/internal/service"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Config carries the collaborators of Handler. DB and Metrics are optional.
type Config struct {
	Auth     service.AuthService
	Tasks    service.TaskService
	Tokens   TokenVerifier
	DB       Pinger
	Metrics  *Metrics
	Logger   logrus.FieldLogger
	BasePath string
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth     service.AuthService
	tasks    service.TaskService
	tokens   TokenVerifier
	db       Pinger
	metrics  *Metrics
	logger   logrus.FieldLogger
	basePath string
}

func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{
		auth:     cfg.Auth,
		tasks:    cfg.Tasks,
		tokens:   cfg.Tokens,
		db:       cfg.DB,
		metrics:  cfg.Metrics,
		logger:   logger,
		basePath: cfg.BasePath,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(), h.requestLogger())
	if h.metrics != nil {
		router.Use(h.metrics.middleware())
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	api := router.Group(h.basePath)
	{
		api.GET("/health", h.health)

		authGroup := api.Group("/auth")
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)

		todos := api.Group("/todos", h.requireAuth())
		todos.GET("", h.listTasks)
		todos.POST("", h.createTask)
		todos.POST("/export", h.exportTasks)
		todos.GET("/:id", h.getTask)
		todos.PUT("/:id", h.updateTask)
		todos.DELETE("/:id", h.deleteTask)
		todos.PATCH("/:id/toggle", h.toggleTask)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
		}
		if id, ok := currentIdentity(c); ok {
			fields["user_id"] = id.UserID
		}
		h.logger.WithFields(fields).Debug("request handled")
	}
}

func (h *Handler) health(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.WithError(err).Warn("health check: database unreachable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "ERROR", "message": "database unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Server is running"})
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

type TaskResponse struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	CreatedAt   string `json:"created_at"`
}

type ExportResponse struct {
	Location  string `json:"location"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
	Count     int    `json:"count"`
}

func (h *Handler) listTasks(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasks(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]TaskResponse, len(tasks))
	for i := range tasks {
		resp[i] = taskToResponse(tasks[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createTask(c *gin.Context) {
	owner, ok := h.identity(c)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.tasks.CreateTask(c.Request.Context(), owner, req.Title, req.Description)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, taskToResponse(*task))
}

func (h *Handler) getTask(c *gin.Context) {
	owner, id, ok := h.taskTarget(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c.Request.Context(), id, owner)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(*task))
}

func (h *Handler) updateTask(c *gin.Context) {
	owner, id, ok := h.taskTarget(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.tasks.UpdateTask(c.Request.Context(), id, owner, domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(*task))
}

func (h *Handler) deleteTask(c *gin.Context) {
	owner, id, ok := h.taskTarget(c)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(c.Request.Context(), id, owner); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully", "id": id})
}

func (h *Handler) toggleTask(c *gin.Context) {
	owner, id, ok := h.taskTarget(c)
	if !ok {
		return
	}

	task, err := h.tasks.ToggleTask(c.Request.Context(), id, owner)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskToResponse(*task))
}

func (h *Handler) exportTasks(c *gin.Context) {
	owner, ok := h.identity(c)
	if !ok {
		return
	}

	export, err := h.tasks.ExportTasks(c.Request.Context(), owner)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ExportResponse{
		Location:  export.Location,
		URL:       export.URL,
		ExpiresAt: export.ExpiresAt.UTC().Format(time.RFC3339),
		Count:     export.Count,
	})
}

func (h *Handler) identity(c *gin.Context) (int64, bool) {
	id, ok := currentIdentity(c)
	if !ok {
		writeError(c, http.StatusUnauthorized, msgUnauthorized)
		return 0, false
	}
	return id.UserID, true
}

// taskTarget resolves the caller and the :id parameter. An unparsable id is
// reported like any other missing task.
func (h *Handler) taskTarget(c *gin.Context) (owner, id int64, ok bool) {
	owner, ok = h.identity(c)
	if !ok {
		return 0, 0, false
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusNotFound, msgTaskNotFound)
		return 0, 0, false
	}
	return owner, id, true
}

func taskToResponse(task domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		UserID:      task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt.UTC().Format(time.RFC3339),
	}
}
