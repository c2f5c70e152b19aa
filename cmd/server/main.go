package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/projecthub/projecthub/internal/config"
	"github.com/projecthub/projecthub/internal/database"
	"github.com/projecthub/projecthub/internal/handlers"
	"github.com/projecthub/projecthub/internal/middleware"
	"github.com/projecthub/projecthub/internal/repository"
	"github.com/projecthub/projecthub/internal/services"
	"github.com/projecthub/projecthub/internal/utils"
)

func main() {
	cfg := config.Load()

	gin.SetMode(cfg.GinMode)
	if cfg.GinMode == gin.ReleaseMode {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	if err := database.Connect(cfg); err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}

	if err := database.Migrate(); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	tokens := utils.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.TokenExpireMinutes)*time.Minute)

	authService := services.NewAuthService(userRepo)
	projectService := services.NewProjectService(db, projectRepo, userRepo)
	taskService := services.NewTaskService(db, taskRepo, projectRepo, userRepo)

	authHandler := handlers.NewAuthHandler(authService, tokens)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

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

	logrus.WithField("port", cfg.ServerPort).Info("server starting")
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		logrus.WithError(err).Fatal("failed to start server")
	}
}
