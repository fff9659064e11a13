package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/avoronova/callmesh/internal/signaling"
)

// WebSocketHandler управляет websocket-соединениями
type WebSocketHandler struct {
	coordinator  *signaling.Coordinator
	eventHandler *EventHandler
	upgrader     websocket.Upgrader
}

func NewWebSocketHandler(coordinator *signaling.Coordinator, eventHandler *EventHandler) *WebSocketHandler {
	return &WebSocketHandler{
		coordinator:  coordinator,
		eventHandler: eventHandler,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Ограничение origin отдано внешнему слою (reverse proxy)
				return true
			},
		},
	}
}

// HandleWebSocket апгрейдит соединение и запускает насосы клиента.
// Id соединения назначается здесь и живет до отключения.
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := signaling.NewClient(h.coordinator, conn)

	h.coordinator.Register(client)

	go client.WritePump()
	go client.ReadPump(h.eventHandler)
}
