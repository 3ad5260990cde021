// internal/config/config.go
package config

import "image/color"

const (
	ScreenWidth  = 640
	ScreenHeight = 480
	MaxDeltaTime = 0.06

	// Размеры эмблемы: clamp(MinSide, ViewportFraction*vw, Size)
	DefaultSize      = 120.0
	MinSide          = 110.0
	ViewportFraction = 0.2
	MinPixelRatio    = 1.0
	MaxPixelRatio    = 2.0

	DefaultSpeed      = 1.0
	DefaultIntensity  = 1.0
	DefaultRootMargin = 120.0 // px, запас видимости вокруг эмблемы

	// Таймлайн
	LoopDuration  = 3.0
	MinSpeed      = 0.2
	CollapseStart = 0.18
	CollapseEnd   = 0.62
	RecoverEnd    = 0.78

	CollapseDepth  = 0.68 // насколько сжимается кольцо
	CollapsedScale = 1 - CollapseDepth

	GlowPulseCenter   = 0.9
	GlowPulseWidth    = 0.18
	GlowOpacity       = 0.85
	GlowScaleOffset   = 0.1
	GlowScalePulse    = 0.25
	BurstOpacity      = 0.9
	BurstDisplacement = 0.35

	BreatheAmplitude = 0.015
	BreatheRate      = 0.8
	DriftAmplitude   = 0.02
	DriftRate        = 0.6

	// Геометрия
	OutlineResolution = 180
	FillResolution    = 48
	RingSegments      = 64
	ParticleCount     = 220
	RingInner         = 0.36
	RingOuter         = 0.46
	GlowInner         = 0.34
	GlowOuter         = 0.52
	ParticleJitter    = 0.08
	ParticleMinRadius = 0.52
	ParticleMaxRadius = 0.6
	ParticleSize      = 0.045
	LayerOffsetY      = 0.05 // кольцо, свечение и частицы чуть выше центра щита

	// Половина видимой области в мировых единицах; щит занимает [-1, 1]
	ViewExtent = 1.2

	// Освещение
	AmbientIntensity = 0.55
)

var (
	DefaultForeground = "#f3ede2"
	DefaultAccent     = "#76f0e1"

	BackgroundColor = color.RGBA{20, 20, 30, 255}

	KeyLights = []Light{
		{X: 3, Y: 4, Z: 5, Intensity: 0.85},
		{X: -4, Y: -2, Z: 6, Intensity: 0.45},
	}
)

// Light — направленный источник света
type Light struct {
	X, Y, Z   float64
	Intensity float64
}
