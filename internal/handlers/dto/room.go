package dto

import "github.com/avoronova/callmesh/internal/signaling"

// RoomSummary краткая сводка по комнате для списка
type RoomSummary struct {
	ID          string `json:"id"`
	MemberCount int    `json:"member_count"`
}

// RoomDetail подробности одной комнаты
type RoomDetail struct {
	ID           string           `json:"id"`
	Members      []signaling.User `json:"members"`
	HistoryCount int              `json:"history_count"`
}
