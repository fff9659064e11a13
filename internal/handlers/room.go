package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avoronova/callmesh/internal/handlers/dto"
	"github.com/avoronova/callmesh/internal/signaling"
)

// RoomHandler отдает состояние живых комнат. Только чтение: комнаты
// создаются и умирают исключительно через членство, REST их не мутирует.
type RoomHandler struct {
	coordinator *signaling.Coordinator
}

func NewRoomHandler(coordinator *signaling.Coordinator) *RoomHandler {
	return &RoomHandler{coordinator: coordinator}
}

// ListRooms возвращает список активных комнат
func (h *RoomHandler) ListRooms(c *gin.Context) {
	ids := h.coordinator.RoomIDs()

	rooms := make([]dto.RoomSummary, 0, len(ids))
	for _, id := range ids {
		rooms = append(rooms, dto.RoomSummary{
			ID:          id,
			MemberCount: h.coordinator.MemberCount(id),
		})
	}

	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}

// GetRoom возвращает участников и размер истории конкретной комнаты
func (h *RoomHandler) GetRoom(c *gin.Context) {
	roomID := c.Param("id")

	members, historyCount, ok := h.coordinator.RoomSnapshot(roomID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	c.JSON(http.StatusOK, dto.RoomDetail{
		ID:           roomID,
		Members:      members,
		HistoryCount: historyCount,
	})
}
