package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/projecthub/projecthub/internal/models"
	"github.com/projecthub/projecthub/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// WithTx returns a repository bound to the given transaction
	WithTx(tx *gorm.DB) UserRepository

	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uuid.UUID) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// WithTx returns a repository bound to the given transaction
	WithTx(tx *gorm.DB) ProjectRepository

	// Create creates a new project
	Create(project *models.Project) error

	// FindByID finds a project by ID with optional preloading
	FindByID(id uuid.UUID, preload ...string) (*models.Project, error)

	// ListAll retrieves all projects with pagination (superuser view)
	ListAll(params utils.PaginationParams) ([]models.Project, int64, error)

	// ListVisible retrieves projects the user owns or collaborates on
	ListVisible(userID uuid.UUID, params utils.PaginationParams) ([]models.Project, int64, error)

	// Update updates a project
	Update(project *models.Project) error

	// Delete removes a project together with its tasks and collaborator rows
	Delete(id uuid.UUID) error

	// AddCollaborator grants a user access to a project
	AddCollaborator(projectID, userID uuid.UUID) error

	// RemoveCollaborator revokes a user's access to a project
	RemoveCollaborator(projectID, userID uuid.UUID) error

	// FindCollaborator finds a specific project collaborator row
	FindCollaborator(projectID, userID uuid.UUID) (*models.ProjectCollaborator, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// WithTx returns a repository bound to the given transaction
	WithTx(tx *gorm.DB) TaskRepository

	// Create creates a new task
	Create(task *models.Task) error

	// FindByID finds a task by ID with optional preloading
	FindByID(id uuid.UUID, preload ...string) (*models.Task, error)

	// ListByProject retrieves a project's tasks with pagination
	ListByProject(projectID uuid.UUID, params utils.PaginationParams) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete removes a task together with its collaborator rows
	Delete(id uuid.UUID) error

	// AddCollaborator grants a user access to a task
	AddCollaborator(taskID, userID uuid.UUID) error

	// RemoveCollaborator revokes a user's access to a task
	RemoveCollaborator(taskID, userID uuid.UUID) error

	// FindCollaborator finds a specific task collaborator row
	FindCollaborator(taskID, userID uuid.UUID) (*models.TaskCollaborator, error)
}
