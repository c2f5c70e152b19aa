// Package permissions is the single authorization decision point for
// projects and tasks. Every function is pure: it inspects only the
// principal and the already-loaded target entities and returns a
// boolean, never an error. Callers are responsible for loading
// owner/collaborator sets eagerly before asking for a decision.
package permissions

import (
	"github.com/google/uuid"

	"github.com/projecthub/projecthub/internal/models"
)

// CanReadProject reports whether the user may view a project:
// superusers, the owner, and collaborators.
func CanReadProject(user *models.User, project *models.Project) bool {
	if user.IsSuperuser {
		return true
	}
	if user.ID == project.OwnerID {
		return true
	}
	return isCollaborator(user.ID, project.Collaborators)
}

// CanWriteProject reports whether the user may update a project.
// Projects deliberately have no read/write split: any user who can
// read a project can also mutate it.
func CanWriteProject(user *models.User, project *models.Project) bool {
	return CanReadProject(user, project)
}

// CanDeleteProject reports whether the user may delete a project.
// Stricter than write: collaborators may not delete, only the owner
// (or a superuser) can.
func CanDeleteProject(user *models.User, project *models.Project) bool {
	if user.IsSuperuser {
		return true
	}
	return user.ID == project.OwnerID
}

// CanManageProjectCollaborators reports whether the user may add or
// remove project collaborators. Same principals as delete: the owner
// or a superuser, never a collaborator.
func CanManageProjectCollaborators(user *models.User, project *models.Project) bool {
	return CanDeleteProject(user, project)
}

// CanCreateTask reports whether the user may create a task under the
// given project. Same membership rule as reading the project.
func CanCreateTask(user *models.User, project *models.Project) bool {
	return CanReadProject(user, project)
}

// CanReadTask reports whether the user may view a task. Task-level
// owner/collaborators have full visibility; in addition, access to the
// parent project grants inherited read-only visibility into every task
// under it.
func CanReadTask(user *models.User, task *models.Task, project *models.Project) bool {
	if CanEditTask(user, task) {
		return true
	}
	return CanReadProject(user, project)
}

// CanEditTask reports whether the user may mutate or delete a task.
// Only the task owner and task collaborators qualify; project-level
// access alone grants read, never edit.
func CanEditTask(user *models.User, task *models.Task) bool {
	if user.IsSuperuser {
		return true
	}
	if user.ID == task.OwnerID {
		return true
	}
	return isCollaborator(user.ID, task.Collaborators)
}

// isCollaborator is membership by user ID, never by struct identity.
func isCollaborator(userID uuid.UUID, collaborators []models.User) bool {
	for _, u := range collaborators {
		if u.ID == userID {
			return true
		}
	}
	return false
}
