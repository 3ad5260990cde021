// Package fallback рисует неанимированную эмблему: контур щита с градиентом
// основного цвета и концентрическое кольцо акцентного цвета. Времени здесь
// нет; это то, что видят пользователи с reduced motion или без ускорения.
package fallback

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
	"github.com/lucasb-eyer/go-colorful"

	"shieldmark/internal/geometry"
)

// ViewBox — сторона квадратного пространства макета.
const ViewBox = 120

// ShieldPath — контур щита в координатах ViewBox.
const ShieldPath = "M60 10C78 10 98 18 98 40c0 22-18 44-38 52-20-8-38-30-38-52 0-22 20-30 38-30z"

// shieldSegments — ShieldPath в абсолютной форме.
var shieldSegments = []geometry.Segment{
	{P0: geometry.Vec2{X: 60, Y: 10}, C1: geometry.Vec2{X: 78, Y: 10}, C2: geometry.Vec2{X: 98, Y: 18}, P3: geometry.Vec2{X: 98, Y: 40}},
	{P0: geometry.Vec2{X: 98, Y: 40}, C1: geometry.Vec2{X: 98, Y: 62}, C2: geometry.Vec2{X: 80, Y: 84}, P3: geometry.Vec2{X: 60, Y: 92}},
	{P0: geometry.Vec2{X: 60, Y: 92}, C1: geometry.Vec2{X: 40, Y: 84}, C2: geometry.Vec2{X: 22, Y: 62}, P3: geometry.Vec2{X: 22, Y: 40}},
	{P0: geometry.Vec2{X: 22, Y: 40}, C1: geometry.Vec2{X: 22, Y: 18}, C2: geometry.Vec2{X: 42, Y: 10}, P3: geometry.Vec2{X: 60, Y: 10}},
}

// Константы статической эмблемы, в единицах ViewBox.
const (
	ShieldStrokeWidth  = 6.0
	ShieldOpacityStart = 0.9
	ShieldOpacityEnd   = 0.6
	RingCX             = 60.0
	RingCY             = 52.0
	RingRadius         = 18.0
	RingStrokeWidth    = 5.0
	RingOpacity        = 0.85
)

// Mark — статическая эмблема из двух элементов.
type Mark struct {
	Foreground colorful.Color
	Accent     colorful.Color
}

// New возвращает эмблему для пары цветов.
func New(foreground, accent colorful.Color) Mark {
	return Mark{Foreground: foreground, Accent: accent}
}

// errWriter запоминает первую ошибку записи; svgo их не возвращает.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, nil
}

// WriteSVG пишет эмблему отдельным SVG-документом заданного размера в
// пикселях.
func (m Mark) WriteSVG(w io.Writer, size int) error {
	if size <= 0 {
		return fmt.Errorf("fallback: size must be positive, got %d", size)
	}
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Startview(size, size, 0, 0, ViewBox, ViewBox)
	canvas.Def()
	canvas.LinearGradient("shield-stroke", 0, 0, 100, 100, []svg.Offcolor{
		{Offset: 0, Color: m.Foreground.Hex(), Opacity: ShieldOpacityStart},
		{Offset: 100, Color: m.Foreground.Hex(), Opacity: ShieldOpacityEnd},
	})
	canvas.DefEnd()
	canvas.Path(ShieldPath, fmt.Sprintf("fill:none;stroke:url(#shield-stroke);stroke-width:%g", ShieldStrokeWidth))
	canvas.Circle(int(RingCX), int(RingCY), int(RingRadius),
		fmt.Sprintf("fill:none;stroke:%s;stroke-opacity:%g;stroke-width:%g", m.Accent.Hex(), RingOpacity, RingStrokeWidth))
	canvas.End()
	if ew.err != nil {
		return fmt.Errorf("fallback: write svg: %w", ew.err)
	}
	return nil
}
