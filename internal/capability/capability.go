// Package capability проверяет, может ли хост показывать анимированную
// эмблему: нужен ускоренный контекст рендеринга, и пользователь не должен
// просить уменьшить движение.
package capability

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
)

// RenderCapability — результат одной проверки.
type RenderCapability struct {
	HardwareAccelAvailable bool
	ReducedMotionPreferred bool
}

// Animated — можно ли создавать анимированную сцену.
func (c RenderCapability) Animated() bool {
	return c.HardwareAccelAvailable && !c.ReducedMotionPreferred
}

// ContextProber пытается получить offscreen-контекст рендеринга.
type ContextProber interface {
	AcquireContext() error
}

// ProberFunc адаптирует функцию к ContextProber.
type ProberFunc func() error

func (f ProberFunc) AcquireContext() error { return f() }

// MotionSource отдаёт предпочтение reduced motion и сообщает о его
// изменении. Уведомления могут прийти из любой горутины.
type MotionSource interface {
	ReducedMotion() bool
	Subscribe(fn func(reduced bool)) (unsubscribe func())
}

// Detector хранит последнюю проверку. Колбэки только пишут атомарные флаги,
// цикл кадров читает их через Snapshot.
type Detector struct {
	prober ContextProber
	motion MotionSource

	probed      atomic.Bool
	accel       atomic.Bool
	reduced     atomic.Bool
	disposed    atomic.Bool
	unsubscribe func()
}

// NewDetector создаёт детектор. nil prober значит, что контекста нет;
// nil источник движения значит, что движение не уменьшается.
func NewDetector(prober ContextProber, motion MotionSource) *Detector {
	return &Detector{prober: prober, motion: motion}
}

// Start делает первую проверку и подписывается на предпочтение движения.
func (d *Detector) Start() {
	if d.disposed.Load() {
		return
	}
	d.Reprobe()
	if d.motion == nil {
		return
	}
	d.reduced.Store(d.motion.ReducedMotion())
	if d.unsubscribe == nil {
		d.unsubscribe = d.motion.Subscribe(func(reduced bool) {
			if d.disposed.Load() {
				return
			}
			d.reduced.Store(reduced)
		})
	}
}

// Reprobe заново пытается получить контекст.
func (d *Detector) Reprobe() {
	ok := acquire(d.prober)
	d.accel.Store(ok)
	d.probed.Store(true)
}

// Probe возвращает текущие флаги; если Start не вызывали, сначала
// проверяет.
func (d *Detector) Probe() RenderCapability {
	if !d.probed.Load() {
		d.Reprobe()
	}
	return d.Snapshot()
}

// Snapshot возвращает флаги без проверки.
func (d *Detector) Snapshot() RenderCapability {
	return RenderCapability{
		HardwareAccelAvailable: d.accel.Load(),
		ReducedMotionPreferred: d.reduced.Load(),
	}
}

// Dispose снимает подписку на предпочтение движения. Повторный вызов
// ничего не делает.
func (d *Detector) Dispose() {
	if d.disposed.Swap(true) {
		return
	}
	if d.unsubscribe != nil {
		d.unsubscribe()
		d.unsubscribe = nil
	}
}

// acquire не пропускает ошибки наружу: и ошибка, и паника дают false.
func acquire(p ContextProber) (ok bool) {
	if p == nil {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			zap.L().Warn("rendering context probe panicked, using static emblem",
				zap.String("panic", fmt.Sprint(r)))
			ok = false
		}
	}()
	if err := p.AcquireContext(); err != nil {
		zap.L().Warn("rendering context unavailable, using static emblem", zap.Error(err))
		return false
	}
	return true
}
