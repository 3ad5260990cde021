package scene

// RenderMode — рисуются кадры на каждом тике или только по запросу.
type RenderMode int

const (
	OnDemand RenderMode = iota
	Continuous
)

func (m RenderMode) String() string {
	if m == Continuous {
		return "continuous"
	}
	return "on-demand"
}

// Scheduler решает, нужно ли тику перерисовывать. Непрерывно рисует только
// пока анимация идёт в зоне видимости; в остальных случаях один раз на
// каждый запрос перерисовки.
type Scheduler struct {
	mode          RenderMode
	visible       bool
	pending       bool
	invalidations int
	onInvalidate  func(count int)
}

// NewScheduler стартует видимым с одним ожидающим запросом, чтобы первый
// кадр был нарисован.
func NewScheduler() *Scheduler {
	s := &Scheduler{visible: true}
	s.Invalidate()
	return s
}

// Observe обновляет режим на этот кадр. Переход из невидимого в видимое
// даёт ровно один запрос перерисовки.
func (s *Scheduler) Observe(inView, animated bool) {
	if inView && !s.visible {
		s.Invalidate()
	}
	s.visible = inView
	if inView && animated {
		s.mode = Continuous
	} else {
		s.mode = OnDemand
	}
}

// Invalidate запрашивает одну перерисовку.
func (s *Scheduler) Invalidate() {
	s.pending = true
	s.invalidations++
	if s.onInvalidate != nil {
		s.onInvalidate(s.invalidations)
	}
}

// OnInvalidate вызывает fn после каждого Invalidate, включая запрос при
// появлении в зоне видимости. nil снимает обработчик.
func (s *Scheduler) OnInvalidate(fn func(count int)) { s.onInvalidate = fn }

// ShouldRender — рисует ли этот тик. В режиме по запросу поглощает
// ожидающий запрос. Вне зоны видимости ничего не рисуется, и запрос ждёт.
func (s *Scheduler) ShouldRender() bool {
	if !s.visible {
		return false
	}
	if s.mode == Continuous {
		s.pending = false
		return true
	}
	if s.pending {
		s.pending = false
		return true
	}
	return false
}

func (s *Scheduler) Mode() RenderMode   { return s.mode }
func (s *Scheduler) Pending() bool      { return s.pending }
func (s *Scheduler) Invalidations() int { return s.invalidations }
