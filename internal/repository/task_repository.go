package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/projecthub/projecthub/internal/database"
	"github.com/projecthub/projecthub/internal/models"
	"github.com/projecthub/projecthub/internal/utils"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormTaskRepository) WithTx(tx *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: tx}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uuid.UUID, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// ListByProject retrieves a project's tasks with pagination
func (r *GormTaskRepository) ListByProject(projectID uuid.UUID, params utils.PaginationParams) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("tasks.project_id = ?", projectID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("tasks.created_at DESC").
		Scopes(database.Paginate(params)).
		Preload("Collaborators").
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete removes a task and its collaborator rows in a transaction
func (r *GormTaskRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.TaskCollaborator{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, "id = ?", id).Error
	})
}

// AddCollaborator grants a user access to a task
func (r *GormTaskRepository) AddCollaborator(taskID, userID uuid.UUID) error {
	return r.db.Create(&models.TaskCollaborator{
		TaskID: taskID,
		UserID: userID,
	}).Error
}

// RemoveCollaborator revokes a user's access to a task
func (r *GormTaskRepository) RemoveCollaborator(taskID, userID uuid.UUID) error {
	return r.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		Delete(&models.TaskCollaborator{}).Error
}

// FindCollaborator finds a specific task collaborator row
func (r *GormTaskRepository) FindCollaborator(taskID, userID uuid.UUID) (*models.TaskCollaborator, error) {
	var row models.TaskCollaborator
	if err := r.db.Where("task_id = ? AND user_id = ?", taskID, userID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
