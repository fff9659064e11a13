package signaling

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

// EventSink получает уведомления о жизненном цикле комнат (для внешнего
// мониторинга). Вызывается под мьютексом координатора, поэтому реализация
// обязана быть неблокирующей.
type EventSink interface {
	RoomCreated(roomID string)
	RoomClosed(roomID string)
	MemberJoined(roomID, userID string)
	MemberLeft(roomID, userID string)
}

// Coordinator владеет реестром соединений и реестром комнат и выполняет
// всю координацию: join-протокол, ретрансляцию сигналов, рассылку
// присутствия и чата, очистку при отключении.
//
// Все мутации состояния комнат сериализуются общим мьютексом: join,
// переключение флагов, сообщение и очистка по одной комнате никогда не
// перемежаются. Доставка клиентам неблокирующая — переполненная очередь
// получателя приводит к потере события, а не к остановке координатора.
type Coordinator struct {
	conns map[string]*Client
	rooms map[string]*Room

	sink EventSink // может быть nil

	mu sync.RWMutex
}

// NewCoordinator создает координатор; sink может быть nil
func NewCoordinator(sink EventSink) *Coordinator {
	return &Coordinator{
		conns: make(map[string]*Client),
		rooms: make(map[string]*Room),
		sink:  sink,
	}
}

// Register регистрирует живое соединение. Состояние комнат при этом не
// создается — оно появляется лениво, при первом join.
func (c *Coordinator) Register(client *Client) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conns[client.ID] = client
	log.Printf("Client connected: %s", client.ID)
}

// Unregister выполняет очистку при отключении. Идемпотентен: повторная
// доставка события отключения ничего не делает.
//
// Комнаты сканируются все подряд — id комнаты у соединения нигде не
// кэшируется, и соединение, аномально состоящее в нескольких комнатах,
// вычищается из каждой.
func (c *Coordinator) Unregister(client *Client) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.conns[client.ID]; !ok {
		return
	}

	for roomID, room := range c.rooms {
		if !room.remove(client.ID) {
			continue
		}

		c.broadcast(room, TypeUserLeft, UserLeftPayload{ID: client.ID}, "")

		if c.sink != nil {
			c.sink.MemberLeft(roomID, client.ID)
		}
		if room.empty() {
			delete(c.rooms, roomID)
			log.Printf("Room deleted: %s", roomID)
			if c.sink != nil {
				c.sink.RoomClosed(roomID)
			}
		}
	}

	delete(c.conns, client.ID)
	close(client.Send)

	log.Printf("Client disconnected: %s", client.ID)
}

// Join вводит соединение в комнату и возвращает снимок остальных
// участников (в порядке вступления) и текущую историю чата (от старых
// к новым). Существующим участникам ничего не рассылается: о новичке
// они узнают из его же первого сигнала — единственного триггера для
// создания встречной стороны соединения.
func (c *Coordinator) Join(client *Client, roomID, username string) ([]User, []ChatMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.rooms[roomID]
	if !ok {
		room = newRoom(roomID)
		c.rooms[roomID] = room
		log.Printf("Room created: %s", roomID)
		if c.sink != nil {
			c.sink.RoomCreated(roomID)
		}
	}

	room.add(&member{
		User: User{
			ID:       client.ID,
			Username: username,
		},
		client: client,
	})

	log.Printf("%s joined room %s", username, roomID)
	if c.sink != nil {
		c.sink.MemberJoined(roomID, client.ID)
	}

	return room.others(client.ID), room.snapshotHistory()
}

// ForwardSignal ретранслирует сигнал новичка существующему участнику.
// Payload передается дословно и не интерпретируется; если адресат не
// подключен, событие молча отбрасывается.
func (c *Coordinator) ForwardSignal(p SendSignalPayload) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	target, ok := c.conns[p.UserToSignal]
	if !ok {
		return
	}

	target.Push(TypeUserJoined, UserJoinedPayload{
		Signal:   p.Signal,
		CallerID: p.CallerID,
		Username: p.Username,
	})
}

// ReturnSignal ретранслирует ответный сигнал существующего участника
// обратно новичку. Семантика отбрасывания та же, что у ForwardSignal.
func (c *Coordinator) ReturnSignal(sender *Client, p ReturnSignalPayload) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	target, ok := c.conns[p.CallerID]
	if !ok {
		return
	}

	target.Push(TypeReturnedSignal, ReturnedSignalPayload{
		Signal: p.Signal,
		ID:     sender.ID,
	})
}

// SendMessage строит сообщение чата с серверной меткой времени,
// добавляет его в историю комнаты и рассылает всем участникам, включая
// отправителя. Если комнаты нет, сообщение молча отбрасывается.
func (c *Coordinator) SendMessage(sender *Client, p SendMessagePayload) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.rooms[p.RoomID]
	if !ok {
		return
	}

	kind := p.Type
	if kind == "" {
		kind = KindText
	}

	msg := ChatMessage{
		UserID:    sender.ID,
		Username:  p.Username,
		Message:   p.Message,
		Type:      kind,
		FileData:  p.FileData,
		Timestamp: time.Now(),
	}

	room.appendHistory(msg)
	c.broadcast(room, TypeReceiveMessage, msg, "")
}

// ToggleAudio обновляет флаг мьюта участника и рассылает новое состояние
// остальным участникам комнаты (но не отправителю). Отсутствующая
// комната или участник — не ошибка.
func (c *Coordinator) ToggleAudio(sender *Client, roomID string, isMuted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.rooms[roomID]
	if !ok {
		return
	}

	m := room.find(sender.ID)
	if m == nil {
		return
	}
	m.IsMuted = isMuted

	c.broadcast(room, TypeUserToggledAudio, UserToggledAudioPayload{
		UserID:  sender.ID,
		IsMuted: isMuted,
	}, sender.ID)
}

// ToggleScreen фиксирует флаг демонстрации экрана. Рассылки нет:
// переговоры о медиапотоке экрана идут целиком через mesh, минуя
// координатор; флаг виден через снимки участников.
func (c *Coordinator) ToggleScreen(sender *Client, roomID string, isScreenSharing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, ok := c.rooms[roomID]
	if !ok {
		return
	}

	if m := room.find(sender.ID); m != nil {
		m.IsScreenSharing = isScreenSharing
	}
}

// RoomIDs возвращает идентификаторы всех живых комнат
func (c *Coordinator) RoomIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]string, 0, len(c.rooms))
	for id := range c.rooms {
		ids = append(ids, id)
	}
	return ids
}

// RoomSnapshot возвращает участников комнаты и длину ее истории
func (c *Coordinator) RoomSnapshot(roomID string) ([]User, int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	room, ok := c.rooms[roomID]
	if !ok {
		return nil, 0, false
	}
	return room.users(), len(room.history), true
}

// MemberCount возвращает число участников комнаты
func (c *Coordinator) MemberCount(roomID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if room, ok := c.rooms[roomID]; ok {
		return len(room.members)
	}
	return 0
}

// Stop закрывает все живые соединения и очищает реестры
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, client := range c.conns {
		close(client.Send)
	}
	c.conns = make(map[string]*Client)
	c.rooms = make(map[string]*Room)
}

// broadcast рассылает событие участникам комнаты; excludeID исключает
// получателя (пустая строка — рассылка всем). Конверт сериализуется один
// раз на всю рассылку.
func (c *Coordinator) broadcast(room *Room, eventType EventType, payload interface{}, excludeID string) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s payload: %v", eventType, err)
		return
	}
	raw, err := json.Marshal(Event{Type: eventType, Data: data})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}

	for _, m := range room.members {
		if m.ID == excludeID {
			continue
		}
		if !m.client.enqueue(raw) {
			log.Printf("Client %s send queue full, dropping %s", m.ID, eventType)
		}
	}
}
