// Package scene покадрово решает, рисовать эмблему анимированной сценой или
// статичным знаком, и нужно ли тику вообще рисовать. Всё состояние
// меняется только из цикла кадров.
package scene

import (
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"shieldmark/internal/capability"
	"shieldmark/internal/config"
	"shieldmark/internal/event"
	"shieldmark/internal/geometry"
	"shieldmark/internal/state"
	"shieldmark/internal/timeline"
	"shieldmark/internal/visibility"
)

// Options — параметры эмблемы, которые композитор передаёт дальше.
type Options struct {
	Speed     float64
	Intensity float64
	Color     string // переопределение основного цвета, пусто — из темы
	Geometry  geometry.Spec
}

// OptionsFrom берёт параметры композитора из загруженных настроек.
func OptionsFrom(o config.Options) Options {
	return Options{
		Speed:     o.Speed,
		Intensity: o.Intensity,
		Color:     o.Color,
		Geometry:  geometry.SpecFromOptions(o.Geometry, o.Seed),
	}
}

// Deps — сигналы окружения. Любой может быть nil: без детектора эмблема
// статична, без трекера всегда видима, без источника темы цвета по
// умолчанию. Detector и Visibility переходят во владение композитора.
type Deps struct {
	Detector   *capability.Detector
	Visibility *visibility.Tracker
	Theme      ThemeSource
	Tracker    *geometry.Tracker
	Logger     *zap.Logger
}

// Composer — машина состояний эмблемы верхнего уровня.
type Composer struct {
	opts Options
	deps Deps
	log  *zap.Logger

	events    *event.Dispatcher
	machine   *state.StateMachine[Canvas]
	static    *StaticMode
	scheduler *Scheduler
	builder   *geometry.Builder
	lighting  Lighting

	theme         Theme
	themeResolved bool
	capability    capability.RenderCapability
	inView        bool
	started       bool
	buildFailed   bool
	frames        int
	disposed      bool
	unsubscribe   []func()
}

// NewComposer собирает композитор. До первого Frame ничего не
// проверяется и не строится.
func NewComposer(opts Options, deps Deps) *Composer {
	logger := deps.Logger
	if logger == nil {
		logger = zap.L()
	}
	c := &Composer{
		opts:      opts,
		deps:      deps,
		log:       logger.Named("scene"),
		events:    event.NewDispatcher(),
		machine:   state.NewStateMachine[Canvas](),
		scheduler: NewScheduler(),
		builder:   geometry.NewBuilder(deps.Tracker),
		lighting:  DefaultLighting(),
		theme:     ResolveTheme(opts.Color, nil),
		inView:    true,
	}
	c.static = &StaticMode{c: c}
	c.subscribe(event.ThemeChanged, c.onThemeChanged)
	c.subscribe(event.ModeChanged, func(event.Event) { c.scheduler.Invalidate() })
	c.scheduler.OnInvalidate(func(count int) {
		c.events.Dispatch(event.Event{Type: event.Invalidated, Data: count})
	})
	return c
}

func (c *Composer) subscribe(t event.EventType, fn func(event.Event)) {
	c.unsubscribe = append(c.unsubscribe, c.events.Subscribe(t, event.ListenerFunc(fn)))
}

// Frame выполняет один тик: возможности, затем видимость, затем
// обновление режима, которое считает фазу и пишет буферы.
func (c *Composer) Frame(deltaTime float64) {
	if c.disposed {
		return
	}
	first := !c.started
	if first {
		c.started = true
		if c.deps.Detector != nil {
			c.deps.Detector.Start()
		}
	}

	capab := c.readCapability()
	if first || capab != c.capability {
		c.capability = capab
		c.events.Dispatch(event.Event{Type: event.CapabilityChanged, Data: capab})
	}

	inView := c.readVisibility()
	if inView != c.inView {
		c.inView = inView
		c.events.Dispatch(event.Event{Type: event.VisibilityChanged, Data: inView})
	}
	if inView && !c.themeResolved {
		c.resolveTheme()
	}

	c.applyMode(capab.Animated() && !c.buildFailed)
	c.scheduler.Observe(inView, c.Animated())
	c.machine.Update(deltaTime)
	c.frames++
}

// Draw отдаёт текущий кадр в canvas, когда этого просит планировщик, и
// сообщает, отдал ли.
func (c *Composer) Draw(canvas Canvas) bool {
	if c.disposed || c.machine.Current() == nil {
		return false
	}
	if !c.scheduler.ShouldRender() {
		return false
	}
	c.machine.Draw(canvas)
	return true
}

func (c *Composer) readCapability() capability.RenderCapability {
	if c.deps.Detector == nil {
		return capability.RenderCapability{}
	}
	return c.deps.Detector.Snapshot()
}

func (c *Composer) readVisibility() bool {
	if c.deps.Visibility == nil {
		return true
	}
	return c.deps.Visibility.InView()
}

func (c *Composer) applyMode(animate bool) {
	current := c.machine.Current()
	_, animated := current.(*AnimatedMode)
	switch {
	case animate && !animated:
		m, err := c.newAnimatedMode()
		if err != nil {
			c.log.Error("cannot build animated scene, staying static", zap.Error(err))
			c.buildFailed = true
			if current == nil {
				c.setMode(c.static)
			}
			return
		}
		c.setMode(m)
	case !animate && (animated || current == nil):
		c.setMode(c.static)
	}
}

func (c *Composer) setMode(m state.State[Canvas]) {
	c.machine.SetState(m)
	c.log.Info("emblem mode",
		zap.String("mode", m.Name()),
		zap.Bool("hardwareAccel", c.capability.HardwareAccelAvailable),
		zap.Bool("reducedMotion", c.capability.ReducedMotionPreferred))
	c.events.Dispatch(event.Event{Type: event.ModeChanged, Data: m.Name()})
}

func (c *Composer) resolveTheme() {
	c.themeResolved = true
	c.setTheme(ResolveTheme(c.opts.Color, c.deps.Theme))
}

func (c *Composer) setTheme(t Theme) {
	if t == c.theme {
		return
	}
	c.theme = t
	c.events.Dispatch(event.Event{Type: event.ThemeChanged, Data: t})
}

func (c *Composer) onThemeChanged(event.Event) {
	if m, ok := c.machine.Current().(*AnimatedMode); ok {
		m.setMaterials(c.builder.Materials(c.theme.Foreground, c.theme.Accent))
	}
	c.scheduler.Invalidate()
}

// SetColor заменяет переопределение основного цвета. Если тема уже
// определена, изменение действует сразу.
func (c *Composer) SetColor(override string) {
	if c.disposed {
		return
	}
	c.opts.Color = override
	if c.themeResolved {
		c.setTheme(ResolveTheme(override, c.deps.Theme))
	} else {
		c.setTheme(ResolveTheme(override, nil))
	}
}

// SetSpeed меняет множитель часов со следующего кадра.
func (c *Composer) SetSpeed(speed float64) {
	c.opts.Speed = speed
	if d := c.Driver(); d != nil {
		d.SetSpeed(speed)
	}
}

// SetIntensity меняет силу свечения и вспышки со следующего кадра.
func (c *Composer) SetIntensity(intensity float64) {
	c.opts.Intensity = intensity
	if d := c.Driver(); d != nil {
		d.SetIntensity(intensity)
	}
}

// Dispose выходит из текущего режима, снимает все подписки и сообщает о
// ресурсах, которые счётчик геометрии ещё видит живыми. Кадры после
// Dispose ничего не делают.
func (c *Composer) Dispose() error {
	if c.disposed {
		return nil
	}
	c.disposed = true
	for _, unsubscribe := range c.unsubscribe {
		unsubscribe()
	}
	c.unsubscribe = nil
	c.scheduler.OnInvalidate(nil)
	c.machine.SetState(nil)
	if c.deps.Detector != nil {
		c.deps.Detector.Dispose()
	}
	if c.deps.Visibility != nil {
		c.deps.Visibility.Dispose()
	}

	var result *multierror.Error
	if err := c.builder.Dispose(); err != nil {
		result = multierror.Append(result, err)
	}
	if c.deps.Tracker != nil {
		if err := c.deps.Tracker.Check(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	c.log.Debug("emblem disposed", zap.Int("frames", c.frames), zap.Int("builds", c.builder.Builds()))
	return result.ErrorOrNil()
}

// Mode — имя текущего режима, пусто до первого кадра.
func (c *Composer) Mode() string {
	if m := c.machine.Current(); m != nil {
		return m.Name()
	}
	return ""
}

// Animated — жива ли анимированная сцена.
func (c *Composer) Animated() bool {
	_, ok := c.machine.Current().(*AnimatedMode)
	return ok
}

// Driver — драйвер анимации, nil в статическом режиме.
func (c *Composer) Driver() *timeline.Driver {
	if m, ok := c.machine.Current().(*AnimatedMode); ok {
		return m.driver
	}
	return nil
}

func (c *Composer) Theme() Theme                            { return c.theme }
func (c *Composer) Capability() capability.RenderCapability { return c.capability }
func (c *Composer) InView() bool                            { return c.inView }
func (c *Composer) Frames() int                             { return c.frames }
func (c *Composer) Disposed() bool                          { return c.disposed }
func (c *Composer) Scheduler() *Scheduler                   { return c.scheduler }
func (c *Composer) Builder() *geometry.Builder              { return c.builder }
func (c *Composer) Events() *event.Dispatcher               { return c.events }
