package scene

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"shieldmark/internal/config"
)

// Lighting — фоновая составляющая плюс направленные источники.
type Lighting struct {
	Ambient float64
	Lights  []config.Light
}

// DefaultLighting — постоянная схема света эмблемы.
func DefaultLighting() Lighting {
	return Lighting{Ambient: config.AmbientIntensity, Lights: config.KeyLights}
}

// Shade — освещённость по Ламберту для нормали. Нормаль не обязана быть
// единичной.
func (l Lighting) Shade(nx, ny, nz float64) float64 {
	n := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if n == 0 {
		return l.Ambient
	}
	nx, ny, nz = nx/n, ny/n, nz/n
	sum := l.Ambient
	for _, light := range l.Lights {
		d := math.Sqrt(light.X*light.X + light.Y*light.Y + light.Z*light.Z)
		if d == 0 {
			continue
		}
		dot := (nx*light.X + ny*light.Y + nz*light.Z) / d
		sum += light.Intensity * math.Max(0, dot)
	}
	return sum
}

// Flat — освещённость поверхности, смотрящей на зрителя; все меши
// эмблемы лежат в плоскости z = 0.
func (l Lighting) Flat() float64 {
	return l.Shade(0, 0, 1)
}

// Lit умножает c на factor и обрезает до отображаемого диапазона.
func Lit(c colorful.Color, factor float64) colorful.Color {
	return colorful.Color{R: c.R * factor, G: c.G * factor, B: c.B * factor}.Clamped()
}
