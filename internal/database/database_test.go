package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/projecthub/projecthub/internal/models"
)

func setupFKTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, MigrateWith(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

func TestDeletingUserCascadesProjectsAndTasks(t *testing.T) {
	db := setupFKTestDB(t)

	owner := &models.User{Email: "owner@example.com", PasswordHash: "x", IsActive: true}
	collab := &models.User{Email: "collab@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(owner).Error)
	require.NoError(t, db.Create(collab).Error)

	project := &models.Project{Title: "P1", OwnerID: owner.ID}
	require.NoError(t, db.Create(project).Error)

	task := &models.Task{
		Title:     "T1",
		Status:    models.TaskStatusPending,
		Priority:  models.TaskPriorityMedium,
		ProjectID: project.ID,
		OwnerID:   owner.ID,
	}
	require.NoError(t, db.Create(task).Error)

	require.NoError(t, db.Create(&models.ProjectCollaborator{ProjectID: project.ID, UserID: collab.ID}).Error)
	require.NoError(t, db.Create(&models.TaskCollaborator{TaskID: task.ID, UserID: collab.ID}).Error)

	require.NoError(t, db.Delete(&models.User{}, "id = ?", owner.ID).Error)

	var projects, tasks, projectLinks, taskLinks int64
	require.NoError(t, db.Model(&models.Project{}).Count(&projects).Error)
	require.NoError(t, db.Model(&models.Task{}).Count(&tasks).Error)
	require.NoError(t, db.Model(&models.ProjectCollaborator{}).Count(&projectLinks).Error)
	require.NoError(t, db.Model(&models.TaskCollaborator{}).Count(&taskLinks).Error)

	require.Zero(t, projects)
	require.Zero(t, tasks)
	require.Zero(t, projectLinks)
	require.Zero(t, taskLinks)
}

func TestDeletingCollaboratorRemovesOnlyLinkRows(t *testing.T) {
	db := setupFKTestDB(t)

	owner := &models.User{Email: "owner@example.com", PasswordHash: "x", IsActive: true}
	collab := &models.User{Email: "collab@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, db.Create(owner).Error)
	require.NoError(t, db.Create(collab).Error)

	project := &models.Project{Title: "P1", OwnerID: owner.ID}
	require.NoError(t, db.Create(project).Error)
	require.NoError(t, db.Create(&models.ProjectCollaborator{ProjectID: project.ID, UserID: collab.ID}).Error)

	require.NoError(t, db.Delete(&models.User{}, "id = ?", collab.ID).Error)

	var projects, projectLinks int64
	require.NoError(t, db.Model(&models.Project{}).Count(&projects).Error)
	require.NoError(t, db.Model(&models.ProjectCollaborator{}).Count(&projectLinks).Error)

	require.EqualValues(t, 1, projects)
	require.Zero(t, projectLinks)
}
