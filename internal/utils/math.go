// internal/utils/math.go
package utils

import "math"

// Lerp выполняет стандартную линейную интерполяцию
func Lerp(from, to, t float64) float64 {
	return from + (to-from)*t
}

// Clamp ограничивает значение диапазоном [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

// EaseInOutCubic — медленный старт, быстрая середина, медленный финиш.
// f(0)=0, f(0.5)=0.5, f(1)=1
func EaseInOutCubic(x float64) float64 {
	if x < 0.5 {
		return 4 * x * x * x
	}
	return 1 - math.Pow(-2*x+2, 3)/2
}

// EaseOutCubic — быстрый старт с затуханием к концу
func EaseOutCubic(x float64) float64 {
	return 1 - math.Pow(1-x, 3)
}

// Gaussian возвращает exp(-((x-center)/width)^2)
func Gaussian(x, center, width float64) float64 {
	d := (x - center) / width
	return math.Exp(-d * d)
}

// CubicBezier вычисляет точку кубической кривой Безье в параметре t
func CubicBezier(p0, p1, p2, p3, t float64) float64 {
	k := 1 - t
	return k*k*k*p0 + 3*k*k*t*p1 + 3*k*t*t*p2 + t*t*t*p3
}
