package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"github.com/createex/circle/internal/config"
	"github.com/createex/circle/internal/database"
	"github.com/createex/circle/internal/handlers"
	"github.com/createex/circle/internal/websocket"
	"github.com/createex/circle/pkg/auth"
)

type Server struct {
	Router     *gin.Engine
	Config     *config.Config
	DB         *database.Database
	Redis      *redis.Client
	JWTManager *auth.JWTManager
	Hub        *websocket.Hub
}

func NewServer() *Server {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	db := &database.Database{}
	if err := db.Connect(cfg.DatabaseURL); err != nil {
		log.Fatalf("Postgres connect failed: %v", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connect failed: %v", err)
	}

	jwtMgr := auth.NewJWTManager(
		cfg.JWTSecret,
		time.Duration(cfg.JWTTTLHours)*time.Hour,
	)

	hub := websocket.NewHub(db)
	go hub.Run()

	messengerH := handlers.NewMessengerHandler(db, hub)
	messageH := handlers.NewMessageHandler(messengerH)
	wsH := handlers.NewWebSocketHandler(hub, messageH)
	authH := handlers.NewAuthHandler(db, jwtMgr, rdb, handlers.LogSMS)
	circleH := handlers.NewCircleHandler(db, handlers.LogSMS)
	todoH := handlers.NewTodoHandler(db)
	planH := handlers.NewPlanHandler(db)
	storyH := handlers.NewStoryHandler(db)
	itineraryH := handlers.NewItineraryHandler(db)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: cfg.CORSOrigin != "*",
	}))
	APIEndpoints(router, jwtMgr, rdb, authH, circleH, messengerH, todoH, planH, storyH, itineraryH, wsH)

	s := &Server{
		Router:     router,
		Config:     cfg,
		DB:         db,
		Redis:      rdb,
		JWTManager: jwtMgr,
		Hub:        hub,
	}
	go s.reapStories()
	return s
}

// reapStories deletes stories past their 24h lifetime once a minute.
func (s *Server) reapStories() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		n, err := s.DB.DeleteExpiredStories()
		if err != nil {
			log.Printf("story cleanup failed: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("removed %d expired stories", n)
		}
	}
}

func (s *Server) Run() {
	log.Printf("Server starting on port %s", s.Config.Port)
	if err := s.Router.Run(":" + s.Config.Port); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}
