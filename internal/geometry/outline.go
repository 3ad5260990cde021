package geometry

import (
	"math"

	"shieldmark/internal/utils"
)

// Vec2 — точка в пространстве эмблемы: щит занимает [-1, 1], y вверх.
type Vec2 struct {
	X, Y float64
}

// Segment is one cubic Bézier piece of the outline.
type Segment struct {
	P0, C1, C2, P3 Vec2
}

// At вычисляет сегмент в точке t из [0, 1].
func (s Segment) At(t float64) Vec2 {
	return Vec2{
		X: utils.CubicBezier(s.P0.X, s.C1.X, s.C2.X, s.P3.X, t),
		Y: utils.CubicBezier(s.P0.Y, s.C1.Y, s.C2.Y, s.P3.Y, t),
	}
}

// ShieldOutline — силуэт щита: вершина сверху, две симметричные дуги и
// острое основание.
var ShieldOutline = [4]Segment{
	{P0: Vec2{0, 1}, C1: Vec2{0.55, 1}, C2: Vec2{1, 0.7}, P3: Vec2{1, 0.2}},
	{P0: Vec2{1, 0.2}, C1: Vec2{1, -0.4}, C2: Vec2{0.55, -0.86}, P3: Vec2{0, -1}},
	{P0: Vec2{0, -1}, C1: Vec2{-0.55, -0.86}, C2: Vec2{-1, -0.4}, P3: Vec2{-1, 0.2}},
	{P0: Vec2{-1, 0.2}, C1: Vec2{-1, 0.7}, C2: Vec2{-0.55, 1}, P3: Vec2{0, 1}},
}

// Tessellate сэмплирует каждый сегмент за divisions шагов и возвращает
// замкнутый контур без повтора первой точки.
func Tessellate(outline []Segment, divisions int) []Vec2 {
	pts := make([]Vec2, 0, len(outline)*divisions+1)
	for _, seg := range outline {
		for i := 0; i <= divisions; i++ {
			p := seg.At(float64(i) / float64(divisions))
			if n := len(pts); n > 0 && samePoint(pts[n-1], p) {
				continue
			}
			pts = append(pts, p)
		}
	}
	if n := len(pts); n > 1 && samePoint(pts[0], pts[n-1]) {
		pts = pts[:n-1]
	}
	return pts
}

func samePoint(a, b Vec2) bool {
	const eps = 1e-12
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

// Polyline — ломаная обводки контура, рисуется петлёй.
type Polyline struct {
	Points *Buffer // itemSize 2
	Closed bool
}

func newPolyline(t *Tracker, pts []Vec2) *Polyline {
	buf := newBuffer(t, "outline", len(pts), 2)
	for i, p := range pts {
		buf.SetXY(i, float32(p.X), float32(p.Y))
	}
	return &Polyline{Points: buf, Closed: true}
}

// Dispose освобождает буфер точек.
func (p *Polyline) Dispose() error {
	return p.Points.Dispose()
}
