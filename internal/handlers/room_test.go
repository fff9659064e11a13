package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronova/callmesh/internal/handlers/dto"
	"github.com/avoronova/callmesh/internal/signaling"
)

func newRoomsAPI(coord *signaling.Coordinator) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewRoomHandler(coord)
	r := gin.New()
	r.GET("/api/v1/rooms", h.ListRooms)
	r.GET("/api/v1/rooms/:id", h.GetRoom)
	return r
}

func TestListRooms(t *testing.T) {
	coord := signaling.NewCoordinator(nil)
	router := newRoomsAPI(coord)

	a := connect(t, coord)
	coord.Join(a, "r1", "alice")
	b := connect(t, coord)
	coord.Join(b, "r1", "bob")
	c := connect(t, coord)
	coord.Join(c, "r2", "carol")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Rooms []dto.RoomSummary `json:"rooms"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Rooms, 2)

	counts := map[string]int{}
	for _, room := range resp.Rooms {
		counts[room.ID] = room.MemberCount
	}
	assert.Equal(t, map[string]int{"r1": 2, "r2": 1}, counts)
}

func TestGetRoom(t *testing.T) {
	coord := signaling.NewCoordinator(nil)
	router := newRoomsAPI(coord)

	a := connect(t, coord)
	coord.Join(a, "r1", "alice")
	coord.SendMessage(a, signaling.SendMessagePayload{RoomID: "r1", Message: "hi", Username: "alice"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/r1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.RoomDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "r1", resp.ID)
	require.Len(t, resp.Members, 1)
	assert.Equal(t, "alice", resp.Members[0].Username)
	assert.Equal(t, 1, resp.HistoryCount)
}

func TestGetRoomNotFound(t *testing.T) {
	coord := signaling.NewCoordinator(nil)
	router := newRoomsAPI(coord)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/rooms/ghost", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
