// Package emblem встраивает анимированную эмблему-щит в игру на ebiten. Хост
// вызывает Update из своего Update и Draw из своего Draw; эмблема сама
// решает, анимироваться ли, показать статичный знак или не работать, пока
// она за экраном.
package emblem

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"shieldmark/internal/capability"
	"shieldmark/internal/config"
	"shieldmark/internal/geometry"
	"shieldmark/internal/prefs"
	"shieldmark/internal/scene"
	"shieldmark/internal/visibility"
	"shieldmark/pkg/render"
)

// Options настраивает одну эмблему. Поля описаны в config.Options.
type Options = config.Options

// DefaultOptions: Size 120, Speed 1, Intensity 1 и цвета темы.
func DefaultOptions() Options { return config.Defaults() }

// Emblem — один встроенный экземпляр эмблемы.
type Emblem struct {
	id   string
	opts Options
	log  *zap.Logger

	composer  *scene.Composer
	renderer  *render.EmblemRenderer
	viewport  *visibility.ViewportObserver
	tracker   *visibility.Tracker
	resources *geometry.Tracker
	prefs     *prefs.Store

	viewportWidth float64
	side          float64
	box           visibility.Rect
	disposed      bool
}

// New создаёт эмблему. До первого Update ничего не проверяется и не
// рисуется; ошибка здесь только при неверных настройках.
func New(opts Options) (*Emblem, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid emblem options: %w", err)
	}
	id := uuid.NewString()
	e := &Emblem{
		id:            id,
		opts:          opts,
		log:           zap.L().With(zap.String("emblem", id)),
		resources:     geometry.NewTracker(),
		viewportWidth: config.ScreenWidth,
	}

	var motion capability.MotionSource
	var theme scene.ThemeSource
	if opts.PrefsPath != "" {
		store, err := prefs.Open(opts.PrefsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open preferences: %w", err)
		}
		e.prefs = store
		motion, theme = store, store
	}

	e.side = scene.Side(opts.Size, e.viewportWidth)
	e.box = visibility.RectXYWH(0, 0, e.side, e.side)
	e.viewport = visibility.NewViewportObserver(visibility.RectXYWH(0, 0, config.ScreenWidth, config.ScreenHeight))
	e.tracker = visibility.NewTracker(e.viewport, e.box, opts.RootMargin)

	e.composer = scene.NewComposer(scene.OptionsFrom(opts), scene.Deps{
		Detector:   capability.NewDetector(render.ContextProbe(opts.DisableAcceleration), motion),
		Visibility: e.tracker,
		Theme:      theme,
		Tracker:    e.resources,
		Logger:     e.log,
	})
	e.log.Info("emblem created",
		zap.Float64("side", e.side),
		zap.Float64("speed", opts.Speed),
		zap.Float64("intensity", opts.Intensity),
		zap.Bool("prefs", e.prefs != nil))
	return e, nil
}

// Update продвигает эмблему на deltaTime секунд. Вызывать раз за тик.
func (e *Emblem) Update(deltaTime float64) {
	if e.disposed {
		return
	}
	e.viewport.SetHidden(ebiten.IsWindowMinimized())
	e.composer.Frame(deltaTime)
}

// SetViewport сообщает размер раскладки хоста. По нему считается сторона
// эмблемы и определяется выход за экран.
func (e *Emblem) SetViewport(width, height float64) {
	if e.disposed {
		return
	}
	e.viewportWidth = width
	e.viewport.SetViewport(visibility.RectXYWH(0, 0, width, height))
	e.side = scene.Side(e.opts.Size, width)
}

// Draw ставит левый верхний угол эмблемы в (x, y) на dst.
func (e *Emblem) Draw(dst *ebiten.Image, x, y float64) {
	if e.disposed {
		return
	}
	if box := visibility.RectXYWH(x, y, e.side, e.side); box != e.box {
		e.box = box
		e.tracker.Retarget(box)
	}

	side := int(math.Ceil(e.side))
	if e.renderer == nil {
		e.renderer = render.NewEmblemRenderer(side, deviceScale())
	} else if e.renderer.Resize(side, deviceScale()) {
		e.composer.Scheduler().Invalidate()
	}
	e.composer.Draw(e.renderer)
	e.renderer.Present(dst, x, y)
}

func deviceScale() float64 {
	if m := ebiten.Monitor(); m != nil {
		return m.DeviceScaleFactor()
	}
	return 1
}

// Size — текущая сторона в логических пикселях.
func (e *Emblem) Size() float64 { return e.side }

// ID — идентификатор экземпляра в логах.
func (e *Emblem) ID() string { return e.id }

// Mode — "static" или "animated", пусто до первого Update.
func (e *Emblem) Mode() string { return e.composer.Mode() }

// SetColor переопределяет основной цвет; пусто возвращает цвет темы.
func (e *Emblem) SetColor(color string) { e.composer.SetColor(color) }

func (e *Emblem) SetSpeed(speed float64)         { e.composer.SetSpeed(speed) }
func (e *Emblem) SetIntensity(intensity float64) { e.composer.SetIntensity(intensity) }

// Dispose снимает все подписки и освобождает геометрию и изображения на GPU.
// Можно вызывать дважды.
func (e *Emblem) Dispose() error {
	if e.disposed {
		return nil
	}
	e.disposed = true

	var result *multierror.Error
	if err := e.composer.Dispose(); err != nil {
		result = multierror.Append(result, err)
	}
	if e.prefs != nil {
		if err := e.prefs.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if e.renderer != nil {
		e.renderer.Dispose()
	}
	if err := result.ErrorOrNil(); err != nil {
		e.log.Warn("emblem dispose", zap.Error(err))
		return err
	}
	e.log.Debug("emblem disposed")
	return nil
}
