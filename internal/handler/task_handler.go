package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teamcollab-api/internal/model"
	"teamcollab-api/internal/service"
)

type TaskHandler struct {
	taskService service.TaskService
	logger      *zap.Logger
}

func NewTaskHandler(taskService service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

type AssignTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	AssignedTo  uint   `json:"assigned_to"`
	Priority    string `json:"priority"`
}

type UpdateTaskRequest struct {
	Status string `json:"status"`
	// Optional actor id; an admin actor stamps updated_by=admin on the push.
	UserID *uint `json:"user_id"`
}

// ListTasks godoc
// @Summary      Fetch the board, scoped by the requesting user's role
// @Tags         task
// @Produce      json
// @Param        userId path int true "Requesting user ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /tasks/{userId} [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	tasks, err := h.taskService.ListFor(uint(userID))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		h.logger.Error("failed to fetch tasks", zap.Uint64("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "tasks": tasks})
}

// AssignTask godoc
// @Summary      Create a task in the pending column and push it out
// @Tags         task
// @Accept       json
// @Produce      json
// @Param        request body AssignTaskRequest true "Task data"
// @Success      201 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /assign-task [post]
func (h *TaskHandler) AssignTask(c *gin.Context) {
	var req AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Title and assigned_to are required"})
		return
	}
	if req.Title == "" || req.AssignedTo == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Title and assigned_to are required"})
		return
	}

	task, err := h.taskService.Assign(service.AssignTaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssignedTo:  req.AssignedTo,
		Priority:    model.TaskPriority(req.Priority),
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Assignee not found"})
			return
		}
		h.logger.Error("failed to assign task", zap.String("title", req.Title), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Server error while assigning task"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Task assigned successfully",
		"task":    task,
	})
}

// UpdateTask godoc
// @Summary      Move a task to another column
// @Tags         task
// @Accept       json
// @Produce      json
// @Param        taskId path int true "Task ID"
// @Param        request body UpdateTaskRequest true "New status"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{}
// @Router       /tasks/{taskId} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	taskID, err := strconv.ParseUint(c.Param("taskId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid task ID"})
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Status is required"})
		return
	}

	task, err := h.taskService.UpdateStatus(uint(taskID), model.TaskStatus(req.Status), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status value"})
		case errors.Is(err, service.ErrTaskNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		default:
			h.logger.Error("failed to update task", zap.Uint64("taskId", taskID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update task"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Task updated successfully",
		"task":    task,
	})
}
