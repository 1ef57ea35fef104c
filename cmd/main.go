package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/estoico/stoic-rag-backend/internal/db"
	"github.com/estoico/stoic-rag-backend/internal/handlers"
	"github.com/estoico/stoic-rag-backend/internal/logger"
	"github.com/estoico/stoic-rag-backend/internal/middleware"
	"github.com/estoico/stoic-rag-backend/internal/observability"
	"github.com/estoico/stoic-rag-backend/internal/platform/llm"
	"github.com/estoico/stoic-rag-backend/internal/platform/objectstore"
	"github.com/estoico/stoic-rag-backend/internal/platform/ragstore"
	"github.com/estoico/stoic-rag-backend/internal/platform/rediscache"
	"github.com/estoico/stoic-rag-backend/internal/repos"
	"github.com/estoico/stoic-rag-backend/internal/server"
	"github.com/estoico/stoic-rag-backend/internal/services"
	"github.com/estoico/stoic-rag-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// Tracing
	shutdownTracing := observability.InitTracing(ctx, log, observability.Config{
		Environment: logMode,
		Version:     os.Getenv("APP_VERSION"),
	})
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			log.Warn("Tracer shutdown failed", "error", err)
		}
	}()

	// Env
	log.Info("Loading environment variables...")
	jwtSecret := utils.GetEnv("JWT_SECRET", "", log)
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// MySQL (Laravel app database)
	mysqlService, err := db.NewMySQLService(log)
	if err != nil {
		log.Fatal("MySQL init failed", "error", err)
	}
	theDB := mysqlService.DB()

	// LLM (constructed first so the vector store can size its column from
	// the embed model's dimension)
	llmClient, err := llm.NewClient(log)
	if err != nil {
		log.Fatal("LLM client init failed", "error", err)
	}

	// RAG Postgres
	rag, err := ragstore.NewStore(ctx, log, llmClient.EmbeddingDim())
	if err != nil {
		log.Fatal("RAG store init failed", "error", err)
	}

	// Object store
	objects, err := objectstore.NewService(ctx, log)
	if err != nil {
		log.Fatal("Object store init failed", "error", err)
	}

	// Redis (optional entitlement cache)
	var cache rediscache.Cache
	if utils.GetEnvAsBool("REDIS_ENABLED", true, log) {
		cache, err = rediscache.NewCache(log)
		if err != nil {
			log.Warn("Redis init failed, entitlement reads go straight to MySQL", "error", err)
			cache = nil
		}
	}

	// Repos
	log.Info("Setting up repos...")
	userRepo := repos.NewUserRepo(theDB, log)
	quizRepo := repos.NewQuizRepo(theDB, log)
	subscriptionRepo := repos.NewSubscriptionRepo(theDB, log)
	exerciseRepo := repos.NewExerciseRepo(theDB, log)

	// Services
	log.Info("Setting up services...")
	catalog, err := services.LoadFocusCatalog()
	if err != nil {
		log.Fatal("Focus catalog load failed", "error", err)
	}
	profileService := services.NewProfileService(log, quizRepo)
	entitlementService := services.NewEntitlementService(log, subscriptionRepo, cache)
	retrievalService := services.NewRetrievalService(log, rag, llmClient)
	generationService := services.NewGenerationService(log, profileService, entitlementService, retrievalService, llmClient, exerciseRepo, catalog)
	exerciseService := services.NewExerciseService(log, exerciseRepo, entitlementService, generationService)
	ingestionService := services.NewIngestionService(log, rag, objects, llmClient)

	// Handlers
	log.Info("Setting up handlers...")
	authHandler := handlers.NewAuthHandler(log)
	exerciseHandler := handlers.NewExerciseHandler(log, generationService, exerciseService)
	documentHandler := handlers.NewDocumentHandler(log, ingestionService)
	entitlementHandler := handlers.NewEntitlementHandler(log, entitlementService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, userRepo, jwtSecret)

	// Router
	log.Info("Setting up router...")
	origins := strings.Split(utils.GetEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000", log), ",")
	router := server.NewRouter(server.RouterConfig{
		AuthMiddleware:     authMiddleware,
		AuthHandler:        authHandler,
		ExerciseHandler:    exerciseHandler,
		DocumentHandler:    documentHandler,
		EntitlementHandler: entitlementHandler,
		AllowOrigins:       origins,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
