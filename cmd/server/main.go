package main

import (
	"context"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"groupchat-backend/internal/ai"
	"groupchat-backend/internal/config"
	"groupchat-backend/internal/database"
	"groupchat-backend/internal/handlers"
	"groupchat-backend/internal/middleware"
	"groupchat-backend/internal/repositories"
	"groupchat-backend/internal/routes"
	"groupchat-backend/internal/services"
	"groupchat-backend/internal/ws"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if cfg.JWTSecret == "change-me-in-production" && cfg.IsProduction() {
		log.Fatal("JWT_SECRET must be set in production")
	}

	// Connect to MongoDB
	log.Printf("Connecting to MongoDB...")
	mongoClient, db, err := database.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.DisconnectMongo(mongoClient)

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	rdb, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer rdb.Close()

	// Ensure unique indexes backing the signup and group-name conflict checks
	if err := repositories.EnsureUserIndexes(context.Background(), db); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure user indexes: %v", err)
	}
	if err := repositories.EnsureGroupIndexes(context.Background(), db); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure group indexes: %v", err)
	}

	// Repositories and services, constructed once and injected
	userRepo := repositories.NewMongoUserRepository(db)
	groupRepo := repositories.NewMongoGroupRepository(db)
	tokens := services.NewTokenService(cfg.JWTSecret)

	// Cloudinary is optional; avatar uploads degrade gracefully without it
	var cloud *services.CloudinaryService
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cloud, err = services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			cloud = nil
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. Avatar uploads will not be available")
	}

	// AI provider chain, tried in order
	bridge := ai.NewBridge(
		ai.NewCohereProvider(cfg.CohereAPIKey),
		ai.NewGeminiProvider(cfg.GeminiAPIKey),
		ai.NewOpenAIProvider(cfg.OpenAIAPIKey),
	)

	// Realtime hub plus the Redis fan-out path
	hub := ws.NewHub()
	publisher := ws.NewRedisPublisher(rdb)
	ws.StartRoomSubscriber(context.Background(), rdb, hub)

	h := routes.Handlers{
		Auth:   handlers.NewAuthHandler(userRepo, tokens),
		Group:  handlers.NewGroupHandler(groupRepo, userRepo),
		Ask:    handlers.NewAskHandler(groupRepo, bridge),
		Upload: handlers.NewUploadHandler(cloud),
		ChatWS: handlers.NewChatWSHandler(hub, publisher, groupRepo, tokens),
	}

	// Setup router
	r := chi.NewRouter()
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	if cfg.IsProduction() {
		r.Use(middleware.SecurityHeaders)
		r.Use(middleware.RateLimit(rdb))
		log.Println("✅ Production security enabled (security headers, per-IP rate limiting)")
	}

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r, h, tokens, middleware.NewLoginLimiter())

	log.Printf("🚀 Group chat backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
