package fallback

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/vector"

	"shieldmark/internal/geometry"
	"shieldmark/internal/utils"
)

const (
	curveDivisions = 32
	circleSegments = 96
	miterLimit     = 4.0
)

// Rasterize рисует эмблему в изображение size×size с прозрачным фоном.
func (m Mark) Rasterize(size int) *image.RGBA {
	if size <= 0 {
		return image.NewRGBA(image.Rectangle{})
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	scale := float64(size) / ViewBox

	outline := geometry.Tessellate(shieldSegments, curveDivisions)
	for i := range outline {
		outline[i].X *= scale
		outline[i].Y *= scale
	}
	r := vector.NewRasterizer(size, size)
	strokeLoop(r, outline, ShieldStrokeWidth*scale)
	r.Draw(dst, dst.Bounds(), newShieldGradient(m.Foreground, scale), image.Point{})

	ring := circleLoop(RingCX*scale, RingCY*scale, RingRadius*scale, circleSegments)
	r.Reset(size, size)
	strokeLoop(r, ring, RingStrokeWidth*scale)
	r.Draw(dst, dst.Bounds(), image.NewUniform(withOpacity(m.Accent, RingOpacity)), image.Point{})
	return dst
}

// strokeLoop добавляет замкнутую обводку двумя петлями противоположного
// обхода: накопленное покрытие растеризатора между ними взаимно гасится.
func strokeLoop(r *vector.Rasterizer, pts []geometry.Vec2, width float64) {
	n := len(pts)
	if n < 3 {
		return
	}
	half := width / 2
	outer := make([]geometry.Vec2, n)
	inner := make([]geometry.Vec2, n)
	for i := range pts {
		prev := pts[(i-1+n)%n]
		cur := pts[i]
		next := pts[(i+1)%n]
		n0 := normal(prev, cur)
		n1 := normal(cur, next)
		avg := geometry.Vec2{X: n0.X + n1.X, Y: n0.Y + n1.Y}
		l := math.Hypot(avg.X, avg.Y)
		if l < 1e-12 {
			avg = n1
		} else {
			avg.X /= l
			avg.Y /= l
		}
		// соединение miter, ограничено как stroke-miterlimit в SVG
		m := miterLimit
		if d := avg.X*n1.X + avg.Y*n1.Y; d > 1/miterLimit {
			m = 1 / d
		}
		outer[i] = geometry.Vec2{X: cur.X + avg.X*half*m, Y: cur.Y + avg.Y*half*m}
		inner[i] = geometry.Vec2{X: cur.X - avg.X*half*m, Y: cur.Y - avg.Y*half*m}
	}
	addLoop(r, outer, false)
	addLoop(r, inner, true)
}

func addLoop(r *vector.Rasterizer, pts []geometry.Vec2, reverse bool) {
	n := len(pts)
	at := func(i int) geometry.Vec2 {
		if reverse {
			return pts[n-1-i]
		}
		return pts[i]
	}
	p := at(0)
	r.MoveTo(float32(p.X), float32(p.Y))
	for i := 1; i < n; i++ {
		p = at(i)
		r.LineTo(float32(p.X), float32(p.Y))
	}
	r.ClosePath()
}

func normal(a, b geometry.Vec2) geometry.Vec2 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	if l < 1e-12 {
		return geometry.Vec2{}
	}
	return geometry.Vec2{X: -dy / l, Y: dx / l}
}

func circleLoop(cx, cy, radius float64, segments int) []geometry.Vec2 {
	pts := make([]geometry.Vec2, segments)
	for i := range pts {
		a := float64(i) / float64(segments) * 2 * math.Pi
		pts[i] = geometry.Vec2{X: cx + math.Cos(a)*radius, Y: cy + math.Sin(a)*radius}
	}
	return pts
}

func withOpacity(c colorful.Color, opacity float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(opacity * 255))}
}

// shieldGradient — диагональный градиент основного цвета по рамке контура,
// от ShieldOpacityStart слева сверху до ShieldOpacityEnd справа снизу.
type shieldGradient struct {
	c     colorful.Color
	scale float64
	// рамка ShieldPath
	minX, minY, spanX, spanY float64
}

func newShieldGradient(c colorful.Color, scale float64) *shieldGradient {
	return &shieldGradient{c: c, scale: scale, minX: 22, minY: 10, spanX: 76, spanY: 82}
}

func (g *shieldGradient) ColorModel() color.Model { return color.NRGBAModel }

func (g *shieldGradient) Bounds() image.Rectangle {
	return image.Rect(-1e9, -1e9, 1e9, 1e9)
}

func (g *shieldGradient) At(x, y int) color.Color {
	u := ((float64(x)+0.5)/g.scale - g.minX) / g.spanX
	v := ((float64(y)+0.5)/g.scale - g.minY) / g.spanY
	t := utils.Clamp((u+v)/2, 0, 1)
	return withOpacity(g.c, utils.Lerp(ShieldOpacityStart, ShieldOpacityEnd, t))
}
