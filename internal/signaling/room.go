package signaling

// HistoryLimit — сколько последних сообщений хранится в комнате
const HistoryLimit = 50

// member связывает запись участника с его живым соединением
type member struct {
	User
	client *Client
}

// Room — именованная группа соединений с историей чата.
// Существует в реестре только пока в ней есть хотя бы один участник.
// Все методы вызываются под мьютексом координатора.
type Room struct {
	ID      string
	members []*member
	history []ChatMessage
}

func newRoom(id string) *Room {
	return &Room{
		ID:      id,
		members: make([]*member, 0, 4),
		history: make([]ChatMessage, 0, HistoryLimit),
	}
}

// add добавляет участника в конец списка (порядок вступления сохраняется)
func (r *Room) add(m *member) {
	r.members = append(r.members, m)
}

// find возвращает запись участника по id соединения
func (r *Room) find(id string) *member {
	for _, m := range r.members {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// remove удаляет участника по id; возвращает true, если он был в комнате
func (r *Room) remove(id string) bool {
	for i, m := range r.members {
		if m.ID == id {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return true
		}
	}
	return false
}

// others возвращает срез участников, кроме указанного, в порядке вступления
func (r *Room) others(excludeID string) []User {
	users := make([]User, 0, len(r.members))
	for _, m := range r.members {
		if m.ID != excludeID {
			users = append(users, m.User)
		}
	}
	return users
}

// users возвращает всех участников в порядке вступления
func (r *Room) users() []User {
	users := make([]User, 0, len(r.members))
	for _, m := range r.members {
		users = append(users, m.User)
	}
	return users
}

// appendHistory добавляет сообщение, вытесняя самое старое сверх лимита
func (r *Room) appendHistory(msg ChatMessage) {
	r.history = append(r.history, msg)
	if len(r.history) > HistoryLimit {
		r.history = r.history[1:]
	}
}

// snapshotHistory возвращает копию истории, от старых к новым
func (r *Room) snapshotHistory() []ChatMessage {
	history := make([]ChatMessage, len(r.history))
	copy(history, r.history)
	return history
}

func (r *Room) empty() bool {
	return len(r.members) == 0
}
