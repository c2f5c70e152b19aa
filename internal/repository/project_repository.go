package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/projecthub/projecthub/internal/database"
	"github.com/projecthub/projecthub/internal/models"
	"github.com/projecthub/projecthub/internal/utils"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormProjectRepository) WithTx(tx *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: tx}
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Create(project).Error
}

// FindByID finds a project by ID with optional preloading
func (r *GormProjectRepository) FindByID(id uuid.UUID, preload ...string) (*models.Project, error) {
	var project models.Project
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}

	return &project, nil
}

// ListAll retrieves all projects with pagination (superuser view)
func (r *GormProjectRepository) ListAll(params utils.PaginationParams) ([]models.Project, int64, error) {
	var projects []models.Project

	query := r.db.Model(&models.Project{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("projects.created_at DESC").
		Scopes(database.Paginate(params)).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// ListVisible retrieves projects the user owns or collaborates on
func (r *GormProjectRepository) ListVisible(userID uuid.UUID, params utils.PaginationParams) ([]models.Project, int64, error) {
	var projects []models.Project

	collabSubQuery := r.db.Model(&models.ProjectCollaborator{}).
		Select("1").
		Where("project_collaborators.project_id = projects.id").
		Where("project_collaborators.user_id = ?", userID)

	query := r.db.Model(&models.Project{}).
		Where("projects.owner_id = ? OR EXISTS (?)", userID, collabSubQuery)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("projects.created_at DESC").
		Scopes(database.Paginate(params)).
		Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Save(project).Error
}

// Delete removes a project and all dependent rows in a transaction
func (r *GormProjectRepository) Delete(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Collaborator rows of the project's tasks
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.TaskCollaborator{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectCollaborator{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, "id = ?", id).Error
	})
}

// AddCollaborator grants a user access to a project
func (r *GormProjectRepository) AddCollaborator(projectID, userID uuid.UUID) error {
	return r.db.Create(&models.ProjectCollaborator{
		ProjectID: projectID,
		UserID:    userID,
	}).Error
}

// RemoveCollaborator revokes a user's access to a project
func (r *GormProjectRepository) RemoveCollaborator(projectID, userID uuid.UUID) error {
	return r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&models.ProjectCollaborator{}).Error
}

// FindCollaborator finds a specific project collaborator row
func (r *GormProjectRepository) FindCollaborator(projectID, userID uuid.UUID) (*models.ProjectCollaborator, error) {
	var row models.ProjectCollaborator
	if err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
