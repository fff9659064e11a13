package signaling

import (
	"encoding/json"
	"time"
)

// EventType определяет типы событий протокола
type EventType string

const (
	// Клиент -> сервер
	TypeJoinRoom     EventType = "join-room"
	TypeSendSignal   EventType = "send-signal"
	TypeReturnSignal EventType = "return-signal"
	TypeSendMessage  EventType = "send-message"
	TypeToggleAudio  EventType = "toggle-audio"
	TypeToggleScreen EventType = "toggle-screen"

	// Сервер -> клиент
	TypeAllUsers         EventType = "all-users"
	TypeMessageHistory   EventType = "message-history"
	TypeUserJoined       EventType = "user-joined"
	TypeReturnedSignal   EventType = "receiving-returned-signal"
	TypeReceiveMessage   EventType = "receive-message"
	TypeUserToggledAudio EventType = "user-toggled-audio"
	TypeUserLeft         EventType = "user-left"
	TypeError            EventType = "error"
)

// MessageKind определяет вид сообщения в чате
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindImage MessageKind = "image"
	KindFile  MessageKind = "file"
)

// Event — общий конверт для всех сообщений по websocket.
// Data разбирается по типу события; сигнальные payload'ы остаются
// непрозрачными (json.RawMessage) и никогда не интерпретируются.
type Event struct {
	Type EventType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// User — запись участника комнаты, видимая другим участникам
type User struct {
	ID              string `json:"id"`
	Username        string `json:"username"`
	IsMuted         bool   `json:"isMuted"`
	IsScreenSharing bool   `json:"isScreenSharing"`
}

// ChatMessage — сообщение чата; неизменяемо после создания
type ChatMessage struct {
	UserID    string      `json:"userId"`
	Username  string      `json:"username"`
	Message   string      `json:"message"`
	Type      MessageKind `json:"type"`
	FileData  string      `json:"fileData,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// JoinRoomPayload структура для события join-room
type JoinRoomPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

// SendSignalPayload структура для события send-signal.
// Signal — непрозрачный blob переговоров (offer/candidate), не разбирается.
type SendSignalPayload struct {
	UserToSignal string          `json:"userToSignal"`
	CallerID     string          `json:"callerId"`
	Signal       json.RawMessage `json:"signal"`
	Username     string          `json:"username"`
}

// ReturnSignalPayload структура для события return-signal
type ReturnSignalPayload struct {
	Signal   json.RawMessage `json:"signal"`
	CallerID string          `json:"callerId"`
}

// SendMessagePayload структура для события send-message
type SendMessagePayload struct {
	RoomID   string      `json:"roomId"`
	Message  string      `json:"message"`
	Type     MessageKind `json:"type,omitempty"`
	FileData string      `json:"fileData,omitempty"`
	Username string      `json:"username"`
}

// ToggleAudioPayload структура для события toggle-audio
type ToggleAudioPayload struct {
	RoomID  string `json:"roomId"`
	IsMuted bool   `json:"isMuted"`
}

// ToggleScreenPayload структура для события toggle-screen
type ToggleScreenPayload struct {
	RoomID          string `json:"roomId"`
	IsScreenSharing bool   `json:"isScreenSharing"`
}

// UserJoinedPayload отправляется существующему участнику, когда новичок
// инициирует соединение с ним
type UserJoinedPayload struct {
	Signal   json.RawMessage `json:"signal"`
	CallerID string          `json:"callerId"`
	Username string          `json:"username"`
}

// ReturnedSignalPayload отправляется новичку в ответ на его сигнал
type ReturnedSignalPayload struct {
	Signal json.RawMessage `json:"signal"`
	ID     string          `json:"id"`
}

// UserToggledAudioPayload рассылается остальным участникам комнаты
type UserToggledAudioPayload struct {
	UserID  string `json:"userId"`
	IsMuted bool   `json:"isMuted"`
}

// UserLeftPayload рассылается оставшимся участникам при отключении
type UserLeftPayload struct {
	ID string `json:"id"`
}
