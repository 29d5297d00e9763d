package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"teamcollab-api/internal/config"
	"teamcollab-api/internal/handler"
	"teamcollab-api/internal/middleware"
	"teamcollab-api/internal/realtime"
	"teamcollab-api/internal/repository"
	"teamcollab-api/internal/service"
)

// Setup wires repositories, services and handlers onto the HTTP surface.
func Setup(
	cfg *config.Config,
	db *gorm.DB,
	redisClient *redis.Client,
	hub *realtime.Hub,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(middleware.Metrics())

	// Repositories
	userRepo := repository.NewUserRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	// Services
	userService := service.NewUserService(userRepo)
	messageService := service.NewMessageService(messageRepo, userRepo, hub, logger)
	taskService := service.NewTaskService(taskRepo, userRepo, hub, logger)

	// Handlers
	userHandler := handler.NewUserHandler(userService, logger)
	messageHandler := handler.NewMessageHandler(messageService, logger)
	taskHandler := handler.NewTaskHandler(taskService, logger)
	wsHandler := handler.NewWSHandler(hub, userService, messageService, logger)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "TeamCollab backend running")
	})
	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", middleware.MetricsHandler())

	api := r.Group(cfg.Server.BasePath)
	{
		api.POST("/register", userHandler.Register)
		api.POST("/login", userHandler.Login)
		api.GET("/users", middleware.APIKeyAuth(cfg.Auth.APIKey), userHandler.ListUsers)

		api.GET("/messages", messageHandler.ListMessages)
		api.POST("/messages", messageHandler.SendMessage)

		api.GET("/tasks/:userId", taskHandler.ListTasks)
		api.POST("/assign-task", taskHandler.AssignTask)
		api.PUT("/tasks/:taskId", taskHandler.UpdateTask)

		api.GET("/ws", wsHandler.HandleWebSocket)
	}

	return r
}
