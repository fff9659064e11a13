package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/avoronova/callmesh/internal/handlers"
	"github.com/avoronova/callmesh/internal/services"
	"github.com/avoronova/callmesh/internal/signaling"
)

type Server struct {
	Router      *gin.Engine
	Coordinator *signaling.Coordinator
	Redis       *redis.Client
	Events      *services.RoomEvents
}

func NewServer() *Server {
	if err := godotenv.Load(".env.local"); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println(".env not found, using environment variables")
		}
	}

	// Redis нужен только для ленты событий комнат; без него сервер
	// полностью функционален
	var (
		rdb    *redis.Client
		events *services.RoomEvents
		sink   signaling.EventSink
	)
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisOpts, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		rdb = redis.NewClient(redisOpts)
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Redis connect failed: %v", err)
		}
		events = services.NewRoomEvents(rdb)
		sink = events
	} else {
		log.Println("REDIS_URL not set, room event feed disabled")
	}

	coordinator := signaling.NewCoordinator(sink)

	eventH := handlers.NewEventHandler(coordinator)
	wsH := handlers.NewWebSocketHandler(coordinator, eventH)
	roomH := handlers.NewRoomHandler(coordinator)

	router := gin.Default()
	APIEndpoints(router, wsH, roomH)

	return &Server{
		Router:      router,
		Coordinator: coordinator,
		Redis:       rdb,
		Events:      events,
	}
}

func (s *Server) Run() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Server starting on port %s", port)
	if err := s.Router.Run(":" + port); err != nil {
		log.Fatalf("Server run error: %v", err)
	}
}
