// internal/event/event.go
package event

// EventType — тип события
type EventType string

// Event — структура события
type Event struct {
	Type EventType
	Data interface{} // Данные события, если нужны
}

// Listener — интерфейс для подписчиков на события
type Listener interface {
	OnEvent(event Event)
}

// ListenerFunc позволяет подписать обычную функцию
type ListenerFunc func(event Event)

func (f ListenerFunc) OnEvent(event Event) { f(event) }

type entry struct {
	id       uint64
	listener Listener
}

// Dispatcher — диспетчер событий. Не потокобезопасен: все вызовы идут из цикла кадров.
type Dispatcher struct {
	listeners map[EventType][]entry
	nextID    uint64
}

// NewDispatcher — создаёт новый диспетчер
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		listeners: make(map[EventType][]entry),
	}
}

// Subscribe — подписка на событие. Возвращает функцию отписки;
// повторный вызов отписки ничего не делает.
func (d *Dispatcher) Subscribe(eventType EventType, listener Listener) (unsubscribe func()) {
	d.nextID++
	id := d.nextID
	d.listeners[eventType] = append(d.listeners[eventType], entry{id: id, listener: listener})
	return func() { d.unsubscribe(eventType, id) }
}

func (d *Dispatcher) unsubscribe(eventType EventType, id uint64) {
	if listeners, exists := d.listeners[eventType]; exists {
		for i, l := range listeners {
			if l.id == id {
				d.listeners[eventType] = append(listeners[:i:i], listeners[i+1:]...)
				break
			}
		}
	}
}

// Dispatch — отправка события всем подписчикам
func (d *Dispatcher) Dispatch(event Event) {
	if listeners, exists := d.listeners[event.Type]; exists {
		for _, l := range listeners {
			l.listener.OnEvent(event)
		}
	}
}

// Len возвращает число подписчиков на тип события
func (d *Dispatcher) Len(eventType EventType) int {
	return len(d.listeners[eventType])
}
