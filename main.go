package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"gemini-chat/handlers"
	"gemini-chat/services"
	"gemini-chat/store"
	"gemini-chat/workflows"

	"github.com/dbos-inc/dbos-transact-golang/dbos"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Get database URL from environment
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL environment variable is required")
	}

	// Connect to PostgreSQL for app data
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Test the connection
	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Connected to PostgreSQL database")

	userStore := store.New(db)
	if err := userStore.EnsureSchema(context.Background()); err != nil {
		logger.Fatal("Failed to ensure database schema", zap.Error(err))
	}

	// Initialize Gemini service
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		logger.Fatal("GEMINI_API_KEY environment variable is required")
	}
	geminiService := services.NewGeminiService(apiKey)

	// Initialize workflows
	userWorkflows := workflows.NewUserWorkflows(userStore)

	// Initialize DBOS context for durable workflows
	dbosCtx, err := dbos.NewDBOSContext(context.Background(), dbos.Config{
		DatabaseURL: dbURL,
		AppName:     "gemini-chat",
	})
	if err != nil {
		logger.Fatal("Failed to initialize DBOS", zap.Error(err))
	}

	// Register workflows with DBOS (MUST be before Launch)
	dbos.RegisterWorkflow(dbosCtx, userWorkflows.SyncUserWorkflow)
	dbos.RegisterWorkflow(dbosCtx, userWorkflows.UpsertChatWorkflow)
	dbos.RegisterWorkflow(dbosCtx, userWorkflows.RenameChatWorkflow)
	dbos.RegisterWorkflow(dbosCtx, userWorkflows.DeleteChatWorkflow)

	// Launch DBOS (starts workflow recovery)
	if err := dbos.Launch(dbosCtx); err != nil {
		logger.Fatal("Failed to launch DBOS", zap.Error(err))
	}
	defer dbos.Shutdown(dbosCtx, 5*time.Second)
	logger.Info("DBOS initialized - durable workflows enabled")

	// Initialize handlers
	chatHandler := handlers.NewChatHandler(geminiService, logger)
	userHandler := handlers.NewUserHandler(userStore, dbosCtx, userWorkflows, logger)

	// Setup Gin router
	router := gin.Default()
	router.Use(handlers.CORSMiddleware())
	router.Use(handlers.RequestIDMiddleware())

	// Chat routes
	chat := router.Group("/chat")
	{
		chat.POST("", chatHandler.HandleChat)
		chat.POST("/image-upload", chatHandler.HandleImageUpload)
	}

	// User routes
	user := router.Group("/user")
	{
		user.POST("/sync", userHandler.HandleSync)
		user.POST("/update", userHandler.HandleUpdate)
		user.POST("/titleupdate", userHandler.HandleTitleUpdate)
		user.POST("/delete", userHandler.HandleDelete)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "dbos": "enabled"})
	})

	// Serve static files
	router.Static("/static", "./static")
	router.GET("/", func(c *gin.Context) {
		c.File("./static/index.html")
	})

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("Starting server", zap.String("port", port))
	if err := router.Run(":" + port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}
