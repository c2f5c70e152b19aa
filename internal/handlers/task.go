package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/projecthub/projecthub/internal/dto"
	apierrors "github.com/projecthub/projecthub/internal/errors"
	"github.com/projecthub/projecthub/internal/middleware"
	"github.com/projecthub/projecthub/internal/models"
	"github.com/projecthub/projecthub/internal/services"
	"github.com/projecthub/projecthub/internal/utils"
)

// TaskHandler coordinates task-related HTTP handlers.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks returns a project's tasks for a user who can read the project.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	tasks, total, err := h.taskService.ListByProject(user, projectID, params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskListResponse(tasks, params, total))
}

// CreateTask creates a task under a project.
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	projectID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Title       string              `json:"title"`
		Description string              `json:"description"`
		Status      models.TaskStatus   `json:"status"`
		Priority    models.TaskPriority `json:"priority"`
		DueDate     *time.Time          `json:"due_date"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.Create(user, projectID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// GetTask returns a single task by ID.
func (h *TaskHandler) GetTask(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(user, taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateTask applies a partial update to a task. The raw JSON is
// inspected so that an explicit `"due_date": null` clears the date
// while an absent field leaves it unchanged.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var rawReq map[string]any
	if err := c.ShouldBindJSON(&rawReq); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input, ok := buildTaskPatch(c, rawReq)
	if !ok {
		return
	}

	task, err := h.taskService.Update(user, taskID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task.
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(user, taskID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Task deleted successfully"})
}

// AddCollaborator grants a user access to a task.
func (h *TaskHandler) AddCollaborator(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	type AddCollaboratorRequest struct {
		UserID uuid.UUID `json:"user_id" binding:"required"`
	}

	var req AddCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	task, err := h.taskService.AddCollaborator(user, taskID, req.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// RemoveCollaborator revokes a user's access to a task.
func (h *TaskHandler) RemoveCollaborator(c *gin.Context) {
	user, exists := middleware.GetCurrentUser(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	taskID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	targetID, ok := parseIDParam(c, "user_id")
	if !ok {
		return
	}

	if err := h.taskService.RemoveCollaborator(user, taskID, targetID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Collaborator removed successfully"})
}

// buildTaskPatch translates a raw JSON object into an UpdateTaskInput,
// distinguishing absent fields from explicit nulls.
func buildTaskPatch(c *gin.Context, rawReq map[string]any) (services.UpdateTaskInput, bool) {
	var input services.UpdateTaskInput

	if v, ok := rawReq["title"]; ok {
		s, ok := v.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid title")
			return input, false
		}
		input.Title = &s
	}
	if v, ok := rawReq["description"]; ok {
		s, ok := v.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid description")
			return input, false
		}
		input.Description = &s
	}
	if v, ok := rawReq["status"]; ok {
		s, ok := v.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid status")
			return input, false
		}
		status := models.TaskStatus(s)
		input.Status = &status
	}
	if v, ok := rawReq["priority"]; ok {
		s, ok := v.(string)
		if !ok {
			apierrors.BadRequest(c, "Invalid priority")
			return input, false
		}
		priority := models.TaskPriority(s)
		input.Priority = &priority
	}
	if v, ok := rawReq["due_date"]; ok {
		if v == nil {
			input.ClearDueDate = true
		} else {
			s, ok := v.(string)
			if !ok {
				apierrors.BadRequest(c, "Invalid due_date")
				return input, false
			}
			parsed, err := time.Parse(time.RFC3339, s)
			if err != nil {
				apierrors.BadRequest(c, "Invalid due_date")
				return input, false
			}
			input.DueDate = &parsed
		}
	}

	return input, true
}
