package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/projecthub/projecthub/internal/dto"
	"github.com/projecthub/projecthub/internal/models"
)

// TaskHandlerTestSuite defines the test suite for TaskHandler
type TaskHandlerTestSuite struct {
	suite.Suite
	env *testEnv

	owner         *models.User
	ownerToken    string
	collab        *models.User
	collabToken   string
	outsider      *models.User
	outsiderToken string

	project dto.ProjectDTO
}

// SetupTest runs before each test
func (suite *TaskHandlerTestSuite) SetupTest() {
	t := suite.T()
	suite.env = setupTestEnv(t)

	suite.owner, suite.ownerToken = suite.env.signup(t, "owner@example.com", false)
	suite.collab, suite.collabToken = suite.env.signup(t, "collab@example.com", false)
	suite.outsider, suite.outsiderToken = suite.env.signup(t, "outsider@example.com", false)

	w := suite.env.request(t, http.MethodPost, "/api/projects", suite.ownerToken, map[string]string{
		"title": "Test Project",
	})
	suite.Require().Equal(http.StatusCreated, w.Code)
	decodeJSON(t, w, &suite.project)

	w = suite.env.request(t, http.MethodPost, "/api/projects/"+suite.project.ID.String()+"/collaborators", suite.ownerToken, map[string]string{
		"user_id": suite.collab.ID.String(),
	})
	suite.Require().Equal(http.StatusOK, w.Code)
}

// createTask creates a task under the suite project as the given user.
func (suite *TaskHandlerTestSuite) createTask(token, title string) dto.TaskDTO {
	w := suite.env.request(suite.T(), http.MethodPost, "/api/projects/"+suite.project.ID.String()+"/tasks", token, map[string]string{
		"title": title,
	})
	suite.Require().Equal(http.StatusCreated, w.Code)

	var task dto.TaskDTO
	decodeJSON(suite.T(), w, &task)
	return task
}

func (suite *TaskHandlerTestSuite) TestCreateTaskAppliesDefaults() {
	task := suite.createTask(suite.ownerToken, "First task")

	suite.Equal("First task", task.Title)
	suite.Equal(models.TaskStatusPending, task.Status)
	suite.Equal(models.TaskPriorityMedium, task.Priority)
	suite.Equal(suite.owner.ID, task.OwnerID)
	suite.NotNil(task.Collaborators)
	suite.Empty(task.Collaborators)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskByProjectCollaborator() {
	task := suite.createTask(suite.collabToken, "Collab task")

	// The creator owns the task even when they only collaborate on the project
	suite.Equal(suite.collab.ID, task.OwnerID)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskDeniedForOutsider() {
	w := suite.env.request(suite.T(), http.MethodPost, "/api/projects/"+suite.project.ID.String()+"/tasks", suite.outsiderToken, map[string]string{
		"title": "Nope",
	})
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestCreateTaskValidation() {
	w := suite.env.request(suite.T(), http.MethodPost, "/api/projects/"+suite.project.ID.String()+"/tasks", suite.ownerToken, map[string]string{
		"title": "",
	})
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	w = suite.env.request(suite.T(), http.MethodPost, "/api/projects/"+suite.project.ID.String()+"/tasks", suite.ownerToken, map[string]string{
		"title":  "Bad status",
		"status": "archived",
	})
	suite.Equal(http.StatusUnprocessableEntity, w.Code)

	w = suite.env.request(suite.T(), http.MethodPost, "/api/projects/"+suite.project.ID.String()+"/tasks", suite.ownerToken, map[string]string{
		"title":    "Bad priority",
		"priority": "urgent",
	})
	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *TaskHandlerTestSuite) TestInheritedReadDoesNotGrantEdit() {
	task := suite.createTask(suite.ownerToken, "Owner task")
	taskURL := "/api/tasks/" + task.ID.String()

	// The project collaborator can read the task through the project
	w := suite.env.request(suite.T(), http.MethodGet, taskURL, suite.collabToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	// But cannot edit or delete it
	w = suite.env.request(suite.T(), http.MethodPatch, taskURL, suite.collabToken, map[string]string{
		"title": "Hijacked",
	})
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.env.request(suite.T(), http.MethodDelete, taskURL, suite.collabToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestTaskCollaboratorCanEdit() {
	task := suite.createTask(suite.ownerToken, "Shared task")
	taskURL := "/api/tasks/" + task.ID.String()

	w := suite.env.request(suite.T(), http.MethodPost, taskURL+"/collaborators", suite.ownerToken, map[string]string{
		"user_id": suite.collab.ID.String(),
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	var updated dto.TaskDTO
	decodeJSON(suite.T(), w, &updated)
	suite.Len(updated.Collaborators, 1)

	w = suite.env.request(suite.T(), http.MethodPatch, taskURL, suite.collabToken, map[string]string{
		"status": "in_progress",
	})
	suite.Equal(http.StatusOK, w.Code)

	var patched dto.TaskDTO
	decodeJSON(suite.T(), w, &patched)
	suite.Equal(models.TaskStatusInProgress, patched.Status)
}

func (suite *TaskHandlerTestSuite) TestGetTaskDeniedForOutsider() {
	task := suite.createTask(suite.ownerToken, "Private task")

	w := suite.env.request(suite.T(), http.MethodGet, "/api/tasks/"+task.ID.String(), suite.outsiderToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskDueDate() {
	task := suite.createTask(suite.ownerToken, "Dated task")
	taskURL := "/api/tasks/" + task.ID.String()

	due := time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)
	w := suite.env.request(suite.T(), http.MethodPatch, taskURL, suite.ownerToken, map[string]any{
		"due_date": due.Format(time.RFC3339),
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	var updated dto.TaskDTO
	decodeJSON(suite.T(), w, &updated)
	suite.Require().NotNil(updated.DueDate)
	suite.True(updated.DueDate.Equal(due))

	// An explicit null clears the date
	w = suite.env.request(suite.T(), http.MethodPatch, taskURL, suite.ownerToken, map[string]any{
		"due_date": nil,
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	decodeJSON(suite.T(), w, &updated)
	suite.Nil(updated.DueDate)
}

func (suite *TaskHandlerTestSuite) TestUpdateTaskRejectsMalformedDueDate() {
	task := suite.createTask(suite.ownerToken, "Dated task")

	w := suite.env.request(suite.T(), http.MethodPatch, "/api/tasks/"+task.ID.String(), suite.ownerToken, map[string]any{
		"due_date": "next tuesday",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *TaskHandlerTestSuite) TestListTasks() {
	suite.createTask(suite.ownerToken, "Task one")
	suite.createTask(suite.collabToken, "Task two")

	w := suite.env.request(suite.T(), http.MethodGet, "/api/projects/"+suite.project.ID.String()+"/tasks", suite.collabToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	var list dto.TaskListResponse
	decodeJSON(suite.T(), w, &list)
	suite.EqualValues(2, list.Pagination.Total)
	suite.Len(list.Tasks, 2)

	w = suite.env.request(suite.T(), http.MethodGet, "/api/projects/"+suite.project.ID.String()+"/tasks", suite.outsiderToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestDeleteTask() {
	task := suite.createTask(suite.ownerToken, "Doomed task")
	taskURL := "/api/tasks/" + task.ID.String()

	w := suite.env.request(suite.T(), http.MethodDelete, taskURL, suite.ownerToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	w = suite.env.request(suite.T(), http.MethodGet, taskURL, suite.ownerToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TaskHandlerTestSuite) TestTaskCollaboratorManagementRequiresTaskOwner() {
	task := suite.createTask(suite.ownerToken, "Guarded task")
	taskURL := "/api/tasks/" + task.ID.String()

	// A project collaborator who does not own the task cannot share it
	w := suite.env.request(suite.T(), http.MethodPost, taskURL+"/collaborators", suite.collabToken, map[string]string{
		"user_id": suite.outsider.ID.String(),
	})
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *TaskHandlerTestSuite) TestSuperuserBypassesChecks() {
	_, adminToken := suite.env.signup(suite.T(), "admin@example.com", true)

	task := suite.createTask(suite.ownerToken, "Audited task")
	taskURL := "/api/tasks/" + task.ID.String()

	w := suite.env.request(suite.T(), http.MethodGet, taskURL, adminToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	w = suite.env.request(suite.T(), http.MethodPatch, taskURL, adminToken, map[string]string{
		"status": "completed",
	})
	suite.Equal(http.StatusOK, w.Code)

	w = suite.env.request(suite.T(), http.MethodDelete, taskURL, adminToken, nil)
	suite.Equal(http.StatusOK, w.Code)
}

// TestTaskHandlerTestSuite runs the test suite
func TestTaskHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TaskHandlerTestSuite))
}
