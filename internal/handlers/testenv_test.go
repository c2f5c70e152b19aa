package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/projecthub/projecthub/internal/database"
	"github.com/projecthub/projecthub/internal/middleware"
	"github.com/projecthub/projecthub/internal/models"
	"github.com/projecthub/projecthub/internal/repository"
	"github.com/projecthub/projecthub/internal/services"
	"github.com/projecthub/projecthub/internal/utils"
)

type testEnv struct {
	db          *gorm.DB
	router      *gin.Engine
	tokens      *utils.TokenManager
	authService *services.AuthService
}

// setupTestEnv builds an in-memory database and a router wired exactly
// like cmd/server.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, database.MigrateWith(db))
	database.SetDB(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	tokens := utils.NewTokenManager("test-secret", time.Hour)

	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(db, projectRepo, userRepo)
	taskService := services.NewTaskService(db, taskRepo, projectRepo, userRepo)

	authHandler := NewAuthHandler(authService, tokens)
	projectHandler := NewProjectHandler(projectService)
	taskHandler := NewTaskHandler(taskService)

	r := gin.New()
	requireAuth := middleware.RequireAuth(tokens, authService)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
			auth.PATCH("/me", requireAuth, authHandler.UpdateMe)
			auth.POST("/me/password", requireAuth, authHandler.ChangePassword)
		}

		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.POST("", projectHandler.CreateProject)
			projects.GET("/:id", projectHandler.GetProject)
			projects.PATCH("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.POST("/:id/collaborators", projectHandler.AddCollaborator)
			projects.DELETE("/:id/collaborators/:user_id", projectHandler.RemoveCollaborator)
			projects.GET("/:id/tasks", taskHandler.ListTasks)
			projects.POST("/:id/tasks", taskHandler.CreateTask)
		}

		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("/:id", taskHandler.GetTask)
			tasks.PATCH("/:id", taskHandler.UpdateTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
			tasks.POST("/:id/collaborators", taskHandler.AddCollaborator)
			tasks.DELETE("/:id/collaborators/:user_id", taskHandler.RemoveCollaborator)
		}
	}

	return &testEnv{
		db:          db,
		router:      r,
		tokens:      tokens,
		authService: authService,
	}
}

// signup registers a user through the service and returns the user with
// a valid bearer token.
func (env *testEnv) signup(t *testing.T, email string, superuser bool) (*models.User, string) {
	t.Helper()

	user, err := env.authService.Register(services.RegisterInput{
		Email:    email,
		Password: "supersecret",
	})
	require.NoError(t, err)

	if superuser {
		require.NoError(t, env.db.Model(user).Update("is_superuser", true).Error)
		user.IsSuperuser = true
	}

	token, err := env.tokens.Issue(user.ID)
	require.NoError(t, err)

	return user, token
}

// request performs an authenticated JSON request against the router.
func (env *testEnv) request(t *testing.T, method, url, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
}
