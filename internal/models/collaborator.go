package models

import "github.com/google/uuid"

// ProjectCollaborator is the join row granting a user access to a project.
// It is registered as the join table for Project.Collaborators.
type ProjectCollaborator struct {
	ProjectID uuid.UUID `gorm:"type:uuid;primarykey" json:"project_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primarykey" json:"user_id"`
}

func (ProjectCollaborator) TableName() string {
	return "project_collaborators"
}

// TaskCollaborator is the join row granting a user access to a task.
// It is registered as the join table for Task.Collaborators.
type TaskCollaborator struct {
	TaskID uuid.UUID `gorm:"type:uuid;primarykey" json:"task_id"`
	UserID uuid.UUID `gorm:"type:uuid;primarykey" json:"user_id"`
}

func (TaskCollaborator) TableName() string {
	return "task_collaborators"
}
