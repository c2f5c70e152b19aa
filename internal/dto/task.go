package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/projecthub/projecthub/internal/models"
	"github.com/projecthub/projecthub/internal/utils"
)

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID            uuid.UUID           `json:"id"`
	Title         string              `json:"title"`
	Description   string              `json:"description"`
	Status        models.TaskStatus   `json:"status"`
	Priority      models.TaskPriority `json:"priority"`
	DueDate       *time.Time          `json:"due_date"`
	ProjectID     uuid.UUID           `json:"project_id"`
	OwnerID       uuid.UUID           `json:"owner_id"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
	Collaborators []UserDTO           `json:"collaborators"`
}

// TaskListResponse represents a paginated list of tasks
type TaskListResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToTaskDTO converts a Task model to TaskDTO. The collaborator list is
// always present, empty when there are none.
func ToTaskDTO(task models.Task) TaskDTO {
	dto := TaskDTO{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		Status:        task.Status,
		Priority:      task.Priority,
		DueDate:       task.DueDate,
		ProjectID:     task.ProjectID,
		OwnerID:       task.OwnerID,
		CreatedAt:     task.CreatedAt,
		UpdatedAt:     task.UpdatedAt,
		Collaborators: []UserDTO{},
	}

	if len(task.Collaborators) > 0 {
		dto.Collaborators = ToUserDTOs(task.Collaborators)
	}

	return dto
}

// ToTaskListResponse converts a slice of tasks to TaskListResponse
func ToTaskListResponse(tasks []models.Task, params utils.PaginationParams, total int64) TaskListResponse {
	items := make([]TaskDTO, len(tasks))
	for i, t := range tasks {
		items[i] = ToTaskDTO(t)
	}

	return TaskListResponse{
		Tasks: items,
		Pagination: utils.PaginationResponse{
			Page:  params.Page,
			Limit: params.Limit,
			Total: total,
		},
	}
}
