package handlers

import (
	"encoding/json"

	"github.com/avoronova/callmesh/internal/signaling"
)

// EventHandler разбирает события клиента и диспетчеризует их координатору
type EventHandler struct {
	coordinator *signaling.Coordinator
}

func NewEventHandler(coordinator *signaling.Coordinator) *EventHandler {
	return &EventHandler{coordinator: coordinator}
}

func (h *EventHandler) HandleEvent(client *signaling.Client, ev *signaling.Event) error {
	switch ev.Type {
	case signaling.TypeJoinRoom:
		return h.handleJoinRoom(client, ev)

	case signaling.TypeSendSignal:
		var p signaling.SendSignalPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return signaling.ErrInvalidEvent
		}
		h.coordinator.ForwardSignal(p)
		return nil

	case signaling.TypeReturnSignal:
		var p signaling.ReturnSignalPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return signaling.ErrInvalidEvent
		}
		h.coordinator.ReturnSignal(client, p)
		return nil

	case signaling.TypeSendMessage:
		var p signaling.SendMessagePayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return signaling.ErrInvalidEvent
		}
		h.coordinator.SendMessage(client, p)
		return nil

	case signaling.TypeToggleAudio:
		var p signaling.ToggleAudioPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return signaling.ErrInvalidEvent
		}
		h.coordinator.ToggleAudio(client, p.RoomID, p.IsMuted)
		return nil

	case signaling.TypeToggleScreen:
		var p signaling.ToggleScreenPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil {
			return signaling.ErrInvalidEvent
		}
		h.coordinator.ToggleScreen(client, p.RoomID, p.IsScreenSharing)
		return nil

	default:
		return signaling.ErrUnknownEvent
	}
}

// handleJoinRoom вводит клиента в комнату и возвращает ему снимок
// остальных участников и историю чата — двумя отдельными событиями,
// как их ждет клиент
func (h *EventHandler) handleJoinRoom(client *signaling.Client, ev *signaling.Event) error {
	var p signaling.JoinRoomPayload
	if err := json.Unmarshal(ev.Data, &p); err != nil {
		return signaling.ErrInvalidEvent
	}

	others, history := h.coordinator.Join(client, p.RoomID, p.Username)

	if err := client.Push(signaling.TypeAllUsers, others); err != nil {
		return err
	}
	return client.Push(signaling.TypeMessageHistory, history)
}
