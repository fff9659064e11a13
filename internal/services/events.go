package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// EventChannel — pub/sub канал, в который публикуются события комнат
const EventChannel = "callmesh:rooms"

// RoomEvent — запись о событии жизненного цикла комнаты
type RoomEvent struct {
	Kind      string    `json:"kind"` // room_created, room_closed, member_joined, member_left
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RoomEvents публикует события комнат в redis для внешних наблюдателей
// (дашборды, счетчики). Публикация — уведомление и только: ничего не
// читается обратно, состояние комнат остается в памяти процесса.
// Лучшее из возможного: при переполнении очереди событие теряется.
type RoomEvents struct {
	rdb   *redis.Client
	queue chan RoomEvent

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRoomEvents(rdb *redis.Client) *RoomEvents {
	ctx, cancel := context.WithCancel(context.Background())
	e := &RoomEvents{
		rdb:    rdb,
		queue:  make(chan RoomEvent, 256),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go e.run()
	return e
}

// run — единственный публикующий воркер
func (e *RoomEvents) run() {
	defer close(e.done)

	for {
		select {
		case <-e.ctx.Done():
			return

		case ev := <-e.queue:
			data, err := json.Marshal(ev)
			if err != nil {
				log.Printf("Failed to marshal room event: %v", err)
				continue
			}
			if err := e.rdb.Publish(e.ctx, EventChannel, data).Err(); err != nil {
				log.Printf("Failed to publish room event: %v", err)
			}
		}
	}
}

// Close останавливает воркер; события в очереди не дожидаются
func (e *RoomEvents) Close() {
	e.cancel()
	<-e.done
}

// emit ставит событие в очередь, не блокируясь
func (e *RoomEvents) emit(kind, roomID, userID string) {
	select {
	case e.queue <- RoomEvent{Kind: kind, RoomID: roomID, UserID: userID, Timestamp: time.Now()}:
	default:
		log.Printf("Room event queue full, dropping %s for %s", kind, roomID)
	}
}

// Реализация signaling.EventSink

func (e *RoomEvents) RoomCreated(roomID string) {
	e.emit("room_created", roomID, "")
}

func (e *RoomEvents) RoomClosed(roomID string) {
	e.emit("room_closed", roomID, "")
}

func (e *RoomEvents) MemberJoined(roomID, userID string) {
	e.emit("member_joined", roomID, userID)
}

func (e *RoomEvents) MemberLeft(roomID, userID string) {
	e.emit("member_left", roomID, userID)
}
