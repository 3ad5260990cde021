package visibility

import "sync"

type observation struct {
	target Rect
	margin float64
	cb     func(bool)
	last   bool
}

// ViewportObserver пересекает цели с областью видимости, которую хост
// держит актуальной (размер окна, прокрутка, свёрнутое окно).
type ViewportObserver struct {
	mu       sync.Mutex
	viewport Rect
	hidden   bool
	entries  map[int]*observation
	nextID   int
}

// NewViewportObserver стартует с заданной областью, не скрытой.
func NewViewportObserver(viewport Rect) *ViewportObserver {
	return &ViewportObserver{viewport: viewport, entries: make(map[int]*observation)}
}

func (o *ViewportObserver) Observe(target Rect, margin float64, cb func(bool)) func() {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	obs := &observation{target: target, margin: margin, cb: cb}
	obs.last = o.intersects(obs)
	o.entries[id] = obs
	initial := obs.last
	o.mu.Unlock()

	cb(initial)
	return func() {
		o.mu.Lock()
		delete(o.entries, id)
		o.mu.Unlock()
	}
}

// SetViewport обновляет видимую область и уведомляет цели, у которых
// изменилось состояние.
func (o *ViewportObserver) SetViewport(viewport Rect) {
	o.mu.Lock()
	o.viewport = viewport
	o.mu.Unlock()
	o.notify()
}

// SetHidden скрывает всю область, например при свёрнутом окне.
func (o *ViewportObserver) SetHidden(hidden bool) {
	o.mu.Lock()
	o.hidden = hidden
	o.mu.Unlock()
	o.notify()
}

// Len — число живых подписок.
func (o *ViewportObserver) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.entries)
}

func (o *ViewportObserver) intersects(obs *observation) bool {
	if o.hidden {
		return false
	}
	return obs.target.Intersects(o.viewport.Expand(obs.margin))
}

func (o *ViewportObserver) notify() {
	type delivery struct {
		cb     func(bool)
		inView bool
	}
	var pending []delivery

	o.mu.Lock()
	for _, obs := range o.entries {
		now := o.intersects(obs)
		if now != obs.last {
			obs.last = now
			pending = append(pending, delivery{cb: obs.cb, inView: now})
		}
	}
	o.mu.Unlock()

	for _, d := range pending {
		d.cb(d.inView)
	}
}
