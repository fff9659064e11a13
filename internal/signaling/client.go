package signaling

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Время ожидания записи
	writeWait = 10 * time.Second

	// Время ожидания pong от клиента
	pongWait = 60 * time.Second

	// Интервал отправки ping
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер события (SDP и инлайн-файлы в чате бывают большими)
	maxEventSize = 512 * 1024 // 512KB
)

// EventHandler обрабатывает разобранные события клиента
type EventHandler interface {
	HandleEvent(client *Client, ev *Event) error
}

// Client — одно живое websocket-соединение. Id назначается сервером при
// апгрейде и действует до отключения; имя пользователя живет не здесь,
// а в записи участника комнаты.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte

	coordinator *Coordinator
}

func NewClient(coordinator *Coordinator, conn *websocket.Conn) *Client {
	return &Client{
		ID:          uuid.NewString(),
		Conn:        conn,
		Send:        make(chan []byte, 256),
		coordinator: coordinator,
	}
}

// ReadPump читает события от клиента и передает их обработчику.
// При любом обрыве соединения снимает регистрацию — это и запускает
// очистку комнат.
func (c *Client) ReadPump(handler EventHandler) {
	defer func() {
		c.coordinator.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxEventSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var ev Event
		err := c.Conn.ReadJSON(&ev)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		if handler == nil {
			continue
		}
		if err := handler.HandleEvent(c, &ev); err != nil {
			log.Printf("Error handling %s: %v", ev.Type, err)
			c.SendError(err.Error())
		}
	}
}

// WritePump отправляет события клиенту и поддерживает соединение ping'ами
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Координатор закрыл канал
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Push сериализует и ставит событие в очередь отправки
func (c *Client) Push(eventType EventType, data interface{}) error {
	ev := Event{Type: eventType}

	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return err
		}
		ev.Data = jsonData
	}

	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	if !c.enqueue(raw) {
		return ErrClientQueueFull
	}
	return nil
}

// enqueue ставит готовый конверт в очередь; false — очередь переполнена.
// Никогда не блокируется: доставка по принципу «сколько влезло».
func (c *Client) enqueue(raw []byte) bool {
	select {
	case c.Send <- raw:
		return true
	default:
		return false
	}
}

func (c *Client) SendError(errorMsg string) {
	c.Push(TypeError, map[string]string{
		"error": errorMsg,
	})
}
