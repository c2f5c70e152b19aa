package services

import (
	"errors"
	"fmt"
	"strings"
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
	ErrProjectNotFound      = errors.New("project not found")
	ErrPermissionDenied     = errors.New("not enough permissions")
	ErrCollaboratorExists   = errors.New("user is already a collaborator")
	ErrCollaboratorNotFound = errors.New("user is not a collaborator")
	ErrOwnerAsCollaborator  = errors.New("the owner cannot be added as a collaborator")
)

// ProjectService orchestrates project operations: load, authorize,
// mutate, in that order, stopping at the first violation. Every
// mutation runs the whole sequence inside one transaction so the
// membership checked is the membership written against.
type ProjectService struct {
	db          *gorm.DB
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
}

// NewProjectService creates a new ProjectService
func NewProjectService(db *gorm.DB, projectRepo repository.ProjectRepository, userRepo repository.UserRepository) *ProjectService {
	return &ProjectService{
		db:          db,
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Title       string
	Description string
}

// UpdateProjectInput represents a partial project update; nil fields stay unchanged.
type UpdateProjectInput struct {
	Title       *string
	Description *string
}

// List returns the projects visible to the user with the total count.
// Superusers see everything; everyone else sees the projects they own
// or collaborate on, matching the read permission exactly.
func (s *ProjectService) List(user *models.User, params utils.PaginationParams) ([]models.Project, int64, error) {
	if user.IsSuperuser {
		projects, total, err := s.projectRepo.ListAll(params)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list projects: %w", err)
		}
		return projects, total, nil
	}

	projects, total, err := s.projectRepo.ListVisible(user.ID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, total, nil
}

// Get returns a project if the user may read it.
func (s *ProjectService) Get(user *models.User, projectID uuid.UUID) (*models.Project, error) {
	project, err := findProject(s.projectRepo, projectID)
	if err != nil {
		return nil, err
	}

	if !permissions.CanReadProject(user, project) {
		return nil, ErrPermissionDenied
	}

	return project, nil
}

// Create validates the input and persists a project owned by the caller.
func (s *ProjectService) Create(user *models.User, input CreateProjectInput) (*models.Project, error) {
	if err := validateProjectTitle(input.Title); err != nil {
		return nil, err
	}
	if err := validateProjectDescription(input.Description); err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:       input.Title,
		Description: input.Description,
		OwnerID:     user.ID,
	}

	if err := s.projectRepo.Create(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	return project, nil
}

// Update applies a partial patch to a project the user may write.
func (s *ProjectService) Update(user *models.User, projectID uuid.UUID, input UpdateProjectInput) (*models.Project, error) {
	var project *models.Project

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.projectRepo.WithTx(tx)

		p, err := findProject(repo, projectID)
		if err != nil {
			return err
		}

		if !permissions.CanWriteProject(user, p) {
			return ErrPermissionDenied
		}

		if input.Title != nil {
			if err := validateProjectTitle(*input.Title); err != nil {
				return err
			}
			p.Title = *input.Title
		}
		if input.Description != nil {
			if err := validateProjectDescription(*input.Description); err != nil {
				return err
			}
			p.Description = *input.Description
		}

		if err := repo.Update(p); err != nil {
			return fmt.Errorf("failed to update project: %w", err)
		}

		project = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return project, nil
}

// Delete removes a project the user owns, cascading to its tasks.
// Collaborators may update a project but not delete it.
func (s *ProjectService) Delete(user *models.User, projectID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.projectRepo.WithTx(tx)

		project, err := findProject(repo, projectID)
		if err != nil {
			return err
		}

		if !permissions.CanDeleteProject(user, project) {
			return ErrPermissionDenied
		}

		if err := repo.Delete(projectID); err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}

		return nil
	})
}

// AddCollaborator grants a user access to a project. Only the owner or
// a superuser can manage the collaborator set.
func (s *ProjectService) AddCollaborator(user *models.User, projectID, targetID uuid.UUID) (*models.Project, error) {
	var project *models.Project

	err := s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.projectRepo.WithTx(tx)
		users := s.userRepo.WithTx(tx)

		p, err := findProject(repo, projectID)
		if err != nil {
			return err
		}

		if !permissions.CanManageProjectCollaborators(user, p) {
			return ErrPermissionDenied
		}

		if _, err := users.FindByID(targetID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to find user: %w", err)
		}

		if targetID == p.OwnerID {
			return ErrOwnerAsCollaborator
		}

		if _, err := repo.FindCollaborator(projectID, targetID); err == nil {
			return ErrCollaboratorExists
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check collaborator: %w", err)
		}

		if err := repo.AddCollaborator(projectID, targetID); err != nil {
			return fmt.Errorf("failed to add collaborator: %w", err)
		}

		project, err = findProject(repo, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return project, nil
}

// RemoveCollaborator revokes a user's access to a project.
func (s *ProjectService) RemoveCollaborator(user *models.User, projectID, targetID uuid.UUID) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		repo := s.projectRepo.WithTx(tx)

		project, err := findProject(repo, projectID)
		if err != nil {
			return err
		}

		if !permissions.CanManageProjectCollaborators(user, project) {
			return ErrPermissionDenied
		}

		if _, err := repo.FindCollaborator(projectID, targetID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCollaboratorNotFound
			}
			return fmt.Errorf("failed to check collaborator: %w", err)
		}

		if err := repo.RemoveCollaborator(projectID, targetID); err != nil {
			return fmt.Errorf("failed to remove collaborator: %w", err)
		}

		return nil
	})
}

// findProject loads a project with its collaborator set so that the
// authorization checks never traverse lazy relations.
func findProject(repo repository.ProjectRepository, projectID uuid.UUID) (*models.Project, error) {
	project, err := repo.FindByID(projectID, "Collaborators")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	return project, nil
}

func validateProjectTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return validationErrorf("title", "title is required")
	}
	if utf8.RuneCountInString(title) > constants.MaxTitleLength {
		return validationErrorf("title", "title must be at most %d characters", constants.MaxTitleLength)
	}
	return nil
}

func validateProjectDescription(description string) error {
	if utf8.RuneCountInString(description) > constants.MaxProjectDescriptionLength {
		return validationErrorf("description", "description must be at most %d characters", constants.MaxProjectDescriptionLength)
	}
	return nil
}
