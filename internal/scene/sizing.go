package scene

import (
	"math"

	"shieldmark/internal/config"
)

// Side — сторона отрисовки: size, ограниченный долей ширины области
// видимости, но не меньше MinSide.
func Side(size, viewportWidth float64) float64 {
	return math.Max(config.MinSide, math.Min(config.ViewportFraction*viewportWidth, size))
}

// PixelRatio ограничивает масштаб устройства для цели рендеринга.
func PixelRatio(deviceScale float64) float64 {
	return math.Max(config.MinPixelRatio, math.Min(config.MaxPixelRatio, deviceScale))
}
