package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"talentprep/internal/cache"
	"talentprep/internal/config"
	"talentprep/internal/repository"
	"talentprep/internal/service"
	"talentprep/internal/transport/rest"
)

func main() {
	log.Println("started")
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	cfg := config.Load()
	aiConfig := config.DefaultAIConfig()
	log.Printf("AI Config:")
	log.Printf("  Model:        %s", aiConfig.Model)
	log.Printf("  Max attempts: %d", aiConfig.MaxAttempts)
	log.Printf("  Timeout:      %dms per attempt", aiConfig.TimeoutMS)
	log.Printf("  Target count: %d questions", aiConfig.TargetCount)
	log.Printf("  On exhaustion: fallback=%t", aiConfig.FallbackOnExhaustion)
	if aiConfig.IsEnabled() {
		log.Println("  API Key:      configured")
	} else {
		log.Println("  API Key:      NOT SET (every request will serve fallback questions)")
	}

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}
	log.Println("Connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	redisAddr := cfg.RedisAddr
	if len(redisAddr) > 8 && redisAddr[:8] == "redis://" {
		redisAddr = redisAddr[8:]
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("Failed to ping Redis:", err)
	}
	log.Println("Connected to Redis")

	// Repositories and cache
	talentRepo := repository.NewTalentRepo(db)
	pathRepo := repository.NewCareerPathRepo(db)
	questionCache := cache.NewQuestionCache(rdb, time.Duration(cfg.CacheTTLSec)*time.Second)

	// Services
	authSvc := service.NewAuthService()
	gemini := service.NewGeminiClient(aiConfig)
	generator := service.NewGeneratorService(talentRepo, pathRepo, questionCache, gemini, aiConfig)

	router := rest.NewRouter(&rest.Container{
		AuthService: authSvc,
		Generator:   generator,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST /v1/questions/generate")
		log.Println("  GET  /health")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
