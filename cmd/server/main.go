package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"phongtro/internal/config"
	"phongtro/internal/handler"
	"phongtro/internal/repository"
	"phongtro/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Print version info
	log.Printf("Phong Tro Chatbot Service")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database connection
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
		cfg.OpenAI.EmbeddingDimensions,
	)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.Migrate(context.Background()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("✅ Connected to PostgreSQL database")

	// Initialize OpenAI client
	openaiClient := service.NewOpenAIClient(&cfg.OpenAI)
	if cfg.OpenAI.Enabled {
		log.Printf("✅ OpenAI client initialized")
		log.Printf("   - API Base: %s", cfg.OpenAI.APIBase)
		log.Printf("   - Chat model: %s", cfg.OpenAI.ChatModel)
		log.Printf("   - Embedding model: %s", cfg.OpenAI.EmbeddingModel)
		log.Printf("   - Chat Temperature: %.2f", cfg.OpenAI.ChatTemperature)
		log.Printf("   - Chat MaxTokens: %d", cfg.OpenAI.ChatMaxTokens)
	} else {
		log.Println("⚠️  OpenAI is disabled - answers will degrade and embeddings fall back to hashing")
		log.Println("   Set OPENAI_API_KEY environment variable to enable AI features")
	}

	// Initialize services
	catalog := service.NewCatalogClient(&cfg.Catalog)
	indexer := service.NewIndexer(repo, catalog, openaiClient, cfg.Indexer.BatchSize)
	provider := service.NewCompletionProvider(openaiClient)
	processor := service.NewQuestionProcessor(
		service.NewExtractor(),
		service.NewFilter(),
		service.NewPromptBuilder(cfg.Search.PromptRooms),
		service.NewResponseParser(indexer),
		provider,
		indexer,
		repo,
		cfg.Search.TopK,
	)

	log.Println("✅ Services initialized")

	// Initialize handlers
	chatHandler := handler.NewChatHandler(processor, indexer)
	reindexHandler := handler.NewReindexHandler(indexer)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		count, _ := indexer.Count(c.Request.Context())
		c.JSON(200, gin.H{
			"status":        "healthy",
			"service":       "phongtro-chatbot",
			"version":       Version,
			"indexed_rooms": count,
		})
	})

	// Root endpoint
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Phong Tro Chatbot API",
			"version": Version,
		})
	})

	// Chat endpoints
	router.POST("/chat", chatHandler.Chat)
	router.POST("/reindex", reindexHandler.Reindex)

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/rooms/:id", chatHandler.GetRoom)
	}

	// Build the index on startup, then keep it fresh in the background
	go runIndexLoop(indexer, cfg.Indexer.IntervalMinutes)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)

	// Graceful shutdown
	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}

// runIndexLoop performs the initial index build and reindexes periodically.
// Failures are logged and retried on the next tick.
func runIndexLoop(indexer *service.Indexer, intervalMinutes int) {
	reindex := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := indexer.Reindex(ctx, false); err != nil {
			log.Printf("Warning: background reindex failed: %v", err)
		}
	}

	reindex()

	if intervalMinutes <= 0 {
		return
	}
	ticker := time.NewTicker(time.Duration(intervalMinutes) * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		reindex()
	}
}
