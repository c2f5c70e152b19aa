package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/projecthub/projecthub/internal/constants"
	"github.com/projecthub/projecthub/internal/models"
	"github.com/projecthub/projecthub/internal/permissions"
	"github.com/projecthub/projecthub/internal/repository"
	"github.com/projecthub/projecthub/internal/utils"
)

var (
	ErrTaskNotFound = errors.New("task not found")
)

// TaskService orchestrates task operations. Reads are authorized
// against both the task and its parent project (inherited read);
// mutations are authorized against the task alone, and run their whole
// load-check-write sequence inside one transaction.
type TaskService struct {
	db          *gorm.DB
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(db *gorm.DB, taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *TaskService {
	return &TaskService{
		db:          db,
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
}

// UpdateTaskInput represents a partial task update; nil fields stay unchanged.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Status       *models.TaskStatus
	Priority     *models.TaskPriority
	DueDate      *time.Time
	ClearDueDate bool
}

// Create validates the input and persists a task under the given
// project, owned by the caller. A missing project is reported before
// any permission check.
func (s *TaskService) Create(user *models.User, projectID uuid.UUID, input CreateTaskInput) (*models.Task, error) {
	var task *models.Task

	err := s.db.Transaction(func(tx *gorm.DB) error {
		projects := s.projectRepo.WithTx(tx)
		tasks := s.taskRepo.WithTx(tx)

		project, err := findProject(projects, projectID)
		if err != nil {
			return err
		}

		if !permissions.CanCreateTask(user, project) {
			return ErrPermissionDenied
		}

		if err := validateTaskTitle(input.Title); err != nil {
			return err
		}
		if err := validateTaskDescription(input.Description); err != nil {
			return err
		}

		if input.Status == "" {
			input.Status = models.TaskStatusPending
		} else if !models.ValidTaskStatus(input.Status) {
			return validationErrorf("status", "invalid status %q", input.Status)
		}
		if input.Priority == "" {
			input.Priority = models.TaskPriorityMedium
		} else if !models.ValidTaskPriority(input.Priority) {
			return validationErrorf("priority", "invalid priority %q", input.Priority)
		}

		t := &models.Task{
			Title:       input.Title,
			Description: input.Description,
			Status:      input.Status,
			Priority:    input.Priority,
			DueDate:     input.DueDate,
			ProjectID:   projectID,
			OwnerID:     user.ID,
		}

		if err := tasks.Create(t); err != nil {
			return fmt.Errorf("failed to create task: %w", err)
		}

		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	// A fresh task has no collaborators yet; return an empty set rather
	// than a nil one.
	task.Collaborators = []models.User{}
	return task, nil
}

// Get returns a task if the user may read it, directly or through
// access to the parent project.
func (s *TaskService) Get(user *models.User, taskID uuid.UUID) (*models.Task, error) {
	task, err := findTask(s.taskRepo, taskID)
	if err != nil {
		return nil, err
	}

	project, err := findProject(s.projectRepo, task.ProjectID)
	if err != nil {
		return nil, err
	}

	if !permissions.CanReadTask(user, task, project) {
		return nil, ErrPermissionDenied
	}

	return task, nil
}

// ListByProject returns a project's tasks for a user who may read the project.
func (s *TaskService) ListByProject(user *models.User, projectID uuid.UUID, params utils.PaginationParams) ([]models.Task, int64, error) {
	project, err := findProject(s.projectRepo, projectID)
	if err != nil {
		return nil, 0, err
	}

	if !permissions.CanReadProject(user, project) {
		return nil, 0, ErrPermissionDenied
	}

	tasks, total, err := s.taskRepo.ListByProject(projectID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// Update applies a partial patch to a task the user may edit. Project
// access alone is not enough here: inherited access is read-only.
func (s *TaskService) Update(user *models.User, taskID uuid.UUID, input UpdateTaskInput) (*models.Task, error) {
	var task *models.Task

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.taskRepo.WithTx(tx)

		t, err := findTask(repo, taskID)
		if err != nil {
			return err
		}

		if !permissions.CanEditTask(user, t) {
			return ErrPermissionDenied
		}

		if input.Title != nil {
			if err := validateTaskTitle(*input.Title); err != nil {
				return err
			}
			t.Title = *input.Title
		}
		if input.Description != nil {
			if err := validateTaskDescription(*input.Description); err != nil {
				return err
			}
			t.Description = *input.Description
		}
		if input.Status != nil {
			// Any transition between valid statuses is allowed; the status
			// field is not a guarded state machine.
			if !models.ValidTaskStatus(*input.Status) {
				return validationErrorf("status", "invalid status %q", *input.Status)
			}
			t.Status = *input.Status
		}
		if input.Priority != nil {
			if !models.ValidTaskPriority(*input.Priority) {
				return validationErrorf("priority", "invalid priority %q", *input.Priority)
			}
			t.Priority = *input.Priority
		}
		if input.ClearDueDate {
			t.DueDate = nil
		} else if input.DueDate != nil {
			t.DueDate = input.DueDate
		}

		if err := repo.Update(t); err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}

		task = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// Delete removes a task the user may edit.
func (s *TaskService) Delete(user *models.User, taskID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.taskRepo.WithTx(tx)

		task, err := findTask(repo, taskID)
		if err != nil {
			return err
		}

		if !permissions.CanEditTask(user, task) {
			return ErrPermissionDenied
		}

		if err := repo.Delete(taskID); err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}

		return nil
	})
}

// AddCollaborator grants a user access to a task. Only the task owner
// or a superuser can manage the collaborator set.
func (s *TaskService) AddCollaborator(user *models.User, taskID, targetID uuid.UUID) (*models.Task, error) {
	var task *models.Task

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.taskRepo.WithTx(tx)
		users := s.userRepo.WithTx(tx)

		t, err := findTask(repo, taskID)
		if err != nil {
			return err
		}

		if !s.canManageCollaborators(user, t) {
			return ErrPermissionDenied
		}

		if _, err := users.FindByID(targetID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to find user: %w", err)
		}

		if targetID == t.OwnerID {
			return ErrOwnerAsCollaborator
		}

		if _, err := repo.FindCollaborator(taskID, targetID); err == nil {
			return ErrCollaboratorExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check collaborator: %w", err)
		}

		if err := repo.AddCollaborator(taskID, targetID); err != nil {
			return fmt.Errorf("failed to add collaborator: %w", err)
		}

		task, err = findTask(repo, taskID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return task, nil
}

// RemoveCollaborator revokes a user's access to a task.
func (s *TaskService) RemoveCollaborator(user *models.User, taskID, targetID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.taskRepo.WithTx(tx)

		task, err := findTask(repo, taskID)
		if err != nil {
			return err
		}

		if !s.canManageCollaborators(user, task) {
			return ErrPermissionDenied
		}

		if _, err := repo.FindCollaborator(taskID, targetID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCollaboratorNotFound
			}
			return fmt.Errorf("failed to check collaborator: %w", err)
		}

		if err := repo.RemoveCollaborator(taskID, targetID); err != nil {
			return fmt.Errorf("failed to remove collaborator: %w", err)
		}

		return nil
	})
}

func (s *TaskService) canManageCollaborators(user *models.User, task *models.Task) bool {
	return user.IsSuperuser || user.ID == task.OwnerID
}

// findTask loads a task with its collaborator set eagerly.
func findTask(repo repository.TaskRepository, taskID uuid.UUID) (*models.Task, error) {
	task, err := repo.FindByID(taskID, "Collaborators")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

func validateTaskTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return validationErrorf("title", "title is required")
	}
	if utf8.RuneCountInString(title) > constants.MaxTitleLength {
		return validationErrorf("title", "title must be at most %d characters", constants.MaxTitleLength)
	}
	return nil
}

func validateTaskDescription(description string) error {
	if utf8.RuneCountInString(description) > constants.MaxTaskDescriptionLength {
		return validationErrorf("description", "description must be at most %d characters", constants.MaxTaskDescriptionLength)
	}
	return nil
}
