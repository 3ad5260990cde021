// Package visibility следит, пересекает ли рамка эмблемы область видимости
// с запасом, чтобы эмблема за экраном не тратила кадры.
package visibility

import "sync/atomic"

// Rect — прямоугольник в пикселях хоста.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

// RectXYWH строит Rect по углу и размеру.
func RectXYWH(x, y, w, h float64) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + w, MaxY: y + h}
}

// Expand расширяет рамку на m с каждой стороны.
func (r Rect) Expand(m float64) Rect {
	return Rect{MinX: r.MinX - m, MinY: r.MinY - m, MaxX: r.MaxX + m, MaxY: r.MaxY + m}
}

// Intersects — есть ли пересечение; касание краями считается.
func (r Rect) Intersects(o Rect) bool {
	return r.MinX <= o.MaxX && o.MinX <= r.MaxX && r.MinY <= o.MaxY && o.MinY <= r.MaxY
}

// Observer сообщает об изменении пересечения цели. Первый колбэк несёт
// начальное состояние. Колбэки могут прийти из любой горутины.
type Observer interface {
	Observe(target Rect, margin float64, cb func(inView bool)) (unsubscribe func())
}

// Tracker держит живой флаг InView. Без наблюдателя всегда true.
type Tracker struct {
	observer    Observer
	margin      float64
	target      Rect
	inView      atomic.Bool
	disposed    atomic.Bool
	unsubscribe func()
}

// NewTracker начинает наблюдать цель. margin — запас в пикселях.
func NewTracker(observer Observer, target Rect, margin float64) *Tracker {
	t := &Tracker{observer: observer, margin: margin, target: target}
	t.inView.Store(true)
	t.observe()
	return t
}

func (t *Tracker) observe() {
	if t.observer == nil {
		return
	}
	t.unsubscribe = t.observer.Observe(t.target, t.margin, func(inView bool) {
		if t.disposed.Load() {
			return
		}
		t.inView.Store(inView)
	})
}

// InView читается композитором раз за кадр.
func (t *Tracker) InView() bool {
	return t.inView.Load()
}

// Retarget переносит рамку и переподписывается, если она изменилась.
func (t *Tracker) Retarget(target Rect) {
	if t.disposed.Load() || target == t.target {
		return
	}
	t.release()
	t.target = target
	t.observe()
}

// Dispose снимает подписку. Поздние колбэки отбрасываются.
func (t *Tracker) Dispose() {
	if t.disposed.Swap(true) {
		return
	}
	t.release()
}

func (t *Tracker) release() {
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
}
