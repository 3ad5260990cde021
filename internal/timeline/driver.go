package timeline

import (
	"math"

	"shieldmark/internal/config"
	"shieldmark/internal/geometry"
)

// Clock накапливает масштабированное время кадров. Elapsed не убывает.
type Clock struct {
	Elapsed      float64
	LoopDuration float64
}

// NewClock стартует с нуля с циклом по умолчанию.
func NewClock() *Clock {
	return &Clock{LoopDuration: config.LoopDuration}
}

// Advance добавляет delta с учётом speed; скорость не опускается ниже
// MinSpeed, чтобы анимация не вставала. Отрицательные delta игнорируются.
func (c *Clock) Advance(delta, speed float64) {
	if delta <= 0 {
		return
	}
	c.Elapsed += delta * math.Max(speed, config.MinSpeed)
}

// T — нормализованная позиция в цикле.
func (c *Clock) T() float64 {
	return Normalize(c.Elapsed, c.LoopDuration)
}

// Transforms — значения графа сцены, которые драйвер пишет каждый кадр.
type Transforms struct {
	GroupScale   float64
	GroupOffsetY float64
	RingScale    float64
	GlowScale    float64
}

// RestTransforms — поза до первого кадра.
func RestTransforms() Transforms {
	return Transforms{GroupScale: 1, RingScale: 1, GlowScale: 1}
}

// Driver — покадровое обновление анимированной сцены. Буферами не владеет:
// пишет в ту геометрию и те материалы, что ему дали.
type Driver struct {
	clock      *Clock
	speed      float64
	intensity  float64
	shield     *geometry.Shield
	materials  *geometry.Materials
	transforms Transforms
	last       Params
	frames     int
}

// NewDriver связывает драйвер с часами и целями записи.
func NewDriver(clock *Clock, shield *geometry.Shield, materials *geometry.Materials, speed, intensity float64) *Driver {
	return &Driver{
		clock:      clock,
		speed:      speed,
		intensity:  intensity,
		shield:     shield,
		materials:  materials,
		transforms: RestTransforms(),
	}
}

// SetMaterials меняет цель записи после смены темы. Новые материалы
// получают прозрачности прошлого кадра, чтобы ничего не мигало.
func (d *Driver) SetMaterials(m *geometry.Materials) {
	d.materials = m
	if d.frames > 0 {
		d.writeMaterials(d.last)
	}
}

// SetSpeed и SetIntensity действуют со следующего кадра.
func (d *Driver) SetSpeed(speed float64)         { d.speed = speed }
func (d *Driver) SetIntensity(intensity float64) { d.intensity = intensity }

// OnFrame двигает часы и пишет один кадр. Вне зоны видимости не делает
// ничего, последний видимый кадр остаётся как был. Возвращает, было ли
// что-то записано.
func (d *Driver) OnFrame(delta float64, inView bool) bool {
	if !inView {
		return false
	}
	d.clock.Advance(delta, d.speed)
	p := Sample(d.clock.Elapsed, d.clock.LoopDuration, d.intensity)

	d.transforms = Transforms{
		GroupScale:   p.GroupScale,
		GroupOffsetY: p.GroupOffsetY,
		RingScale:    p.RingScale,
		GlowScale:    p.GlowScale,
	}
	d.writeMaterials(p)
	if d.shield != nil {
		d.shield.Particles.Place(p.ParticleOffset)
	}
	d.last = p
	d.frames++
	return true
}

func (d *Driver) writeMaterials(p Params) {
	if d.materials == nil {
		return
	}
	d.materials.Glow.Opacity = p.GlowOpacity
	d.materials.Particles.Opacity = p.ParticleOpacity
}

// Transforms — последняя записанная поза.
func (d *Driver) Transforms() Transforms { return d.transforms }

// Last — параметры последнего записанного кадра.
func (d *Driver) Last() Params { return d.last }

// Frames считает записанные кадры.
func (d *Driver) Frames() int { return d.frames }

// Clock — ведомые часы.
func (d *Driver) Clock() *Clock { return d.clock }
