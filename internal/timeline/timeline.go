// Package timeline превращает прошедшее время в параметры анимации эмблемы.
// Все функции здесь чистые, кроме Clock и Driver.
package timeline

import (
	"math"

	"shieldmark/internal/config"
	"shieldmark/internal/utils"
)

// Phase — часть цикла, в которой находится анимация.
type Phase int

const (
	Idle Phase = iota
	Collapsing
	Recovering
)

func (p Phase) String() string {
	switch p {
	case Collapsing:
		return "collapsing"
	case Recovering:
		return "recovering"
	}
	return "idle"
}

// Normalize переводит секунды в позицию цикла t из [0, 1).
func Normalize(elapsed, loopDuration float64) float64 {
	t := math.Mod(elapsed, loopDuration) / loopDuration
	if t < 0 {
		t += 1
	}
	if t >= 1 {
		t = 0
	}
	return t
}

// PhaseAt классифицирует t. Collapsing включает оба конца окна,
// Recovering включает верхний.
func PhaseAt(t float64) Phase {
	switch {
	case t >= config.CollapseStart && t <= config.CollapseEnd:
		return Collapsing
	case t > config.CollapseEnd && t <= config.RecoverEnd:
		return Recovering
	}
	return Idle
}

// Params — производные значения одного кадра.
type Params struct {
	T                float64
	Phase            Phase
	CollapseProgress float64
	RingScale        float64
	Pulse            float64
	GlowOpacity      float64
	GlowScale        float64
	BurstProgress    float64
	ParticleOpacity  float64
	ParticleOffset   float64 // прибавляется к базовому радиусу каждой частицы
	GroupScale       float64
	GroupOffsetY     float64
}

// Evaluate считает фазовые параметры в t. Intensity масштабирует свечение
// и вспышку и не ограничивается.
func Evaluate(t, intensity float64) Params {
	p := Params{T: t, Phase: PhaseAt(t), RingScale: 1}

	switch p.Phase {
	case Collapsing:
		local := (t - config.CollapseStart) / (config.CollapseEnd - config.CollapseStart)
		p.CollapseProgress = utils.EaseInOutCubic(local)
		p.RingScale = 1 - config.CollapseDepth*p.CollapseProgress
	case Recovering:
		local := (t - config.CollapseEnd) / (config.RecoverEnd - config.CollapseEnd)
		p.RingScale = config.CollapsedScale + config.CollapseDepth*utils.EaseOutCubic(local)
	}

	if p.CollapseProgress > 0 {
		p.Pulse = utils.Gaussian(p.CollapseProgress, config.GlowPulseCenter, config.GlowPulseWidth)
	}
	p.GlowOpacity = p.Pulse * config.GlowOpacity * intensity
	p.GlowScale = p.RingScale + config.GlowScaleOffset + p.Pulse*config.GlowScalePulse*intensity

	if p.Phase == Collapsing {
		p.BurstProgress = utils.EaseOutCubic(p.CollapseProgress)
	}
	p.ParticleOpacity = p.BurstProgress * config.BurstOpacity * intensity
	p.ParticleOffset = p.BurstProgress * config.BurstDisplacement * intensity

	p.GroupScale = 1
	return p
}

// Ambient — дыхание масштаба и вертикальный дрейф всей группы. Фазу не
// учитывает.
func Ambient(elapsed float64) (scale, offsetY float64) {
	scale = 1 + config.BreatheAmplitude*math.Sin(config.BreatheRate*elapsed)
	offsetY = config.DriftAmplitude * math.Sin(config.DriftRate*elapsed)
	return scale, offsetY
}

// Sample вычисляет полный кадр в момент elapsed.
func Sample(elapsed, loopDuration, intensity float64) Params {
	p := Evaluate(Normalize(elapsed, loopDuration), intensity)
	p.GroupScale, p.GroupOffsetY = Ambient(elapsed)
	return p
}
