// internal/state/state.go
package state

// State — интерфейс для всех режимов. T — поверхность, на которую рисует режим.
type State[T any] interface {
	Name() string
	Enter()
	Update(deltaTime float64)
	Draw(target T)
	Exit()
}

// StateMachine — структура для управления режимами
type StateMachine[T any] struct {
	current State[T]
}

// NewStateMachine создаёт новую машину состояний без начального состояния
func NewStateMachine[T any]() *StateMachine[T] {
	return &StateMachine[T]{}
}

// SetState устанавливает новое состояние
func (sm *StateMachine[T]) SetState(newState State[T]) {
	if sm.current != nil {
		sm.current.Exit() // Выход из текущего состояния, если оно есть
	}
	sm.current = newState
	if sm.current != nil {
		sm.current.Enter() // Вход в новое состояние, только если оно не nil
	}
}

// Current возвращает текущее состояние или nil
func (sm *StateMachine[T]) Current() State[T] {
	return sm.current
}

// Update обновляет текущее состояние
func (sm *StateMachine[T]) Update(deltaTime float64) {
	if sm.current != nil {
		sm.current.Update(deltaTime)
	}
}

// Draw отрисовывает текущее состояние
func (sm *StateMachine[T]) Draw(target T) {
	if sm.current != nil {
		sm.current.Draw(target)
	}
}
