package main

import (
	"github.com/gin-gonic/gin"

	"github.com/avoronova/callmesh/internal/handlers"
)

func APIEndpoints(r *gin.Engine, wsH *handlers.WebSocketHandler, roomH *handlers.RoomHandler) {
	// Сигнальный канал
	r.GET("/ws", wsH.HandleWebSocket)

	// API endpoints
	api := r.Group("/api/v1")
	{
		api.GET("/rooms", roomH.ListRooms)
		api.GET("/rooms/:id", roomH.GetRoom)
	}
}
