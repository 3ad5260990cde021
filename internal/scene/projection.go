package scene

import (
	"math"

	"shieldmark/internal/config"
	"shieldmark/internal/timeline"
)

// Projection переводит координаты эмблемы (y вверх) в пиксели цели
// размером px×px (y вниз). Центр эмблемы попадает в центр цели.
type Projection struct {
	Scale, OffsetY float64
	CX, CY, PPU    float64
}

// LayerProjection складывает собственный масштаб и подъём слоя с
// трансформацией группы.
func LayerProjection(px int, tf timeline.Transforms, scale, offsetY float64) Projection {
	half := float64(px) / 2
	return Projection{
		Scale:   scale * tf.GroupScale,
		OffsetY: offsetY*tf.GroupScale + tf.GroupOffsetY,
		CX:      half,
		CY:      half,
		PPU:     half / config.ViewExtent,
	}
}

func (p Projection) Apply(x, y float32) (float32, float32) {
	wx := float64(x) * p.Scale
	wy := float64(y)*p.Scale + p.OffsetY
	return float32(p.CX + wx*p.PPU), float32(p.CY - wy*p.PPU)
}

// Pixels переводит длину в единицах эмблемы в пиксели.
func (p Projection) Pixels(length float64) float64 {
	return length * p.Scale * p.PPU
}

// Индексы вершин 16-битные: частицы рисуются пачками, каждая пачка
// целиком помещается в uint16.
const maxBatchVertices = math.MaxUint16

// BatchSize сколько частиц по perParticle вершин влезает в одну пачку.
func BatchSize(perParticle int) int {
	return maxBatchVertices / perParticle
}

// BatchBase индекс первой вершины частицы i внутри её пачки.
func BatchBase(i, perParticle int) uint16 {
	return uint16((i % BatchSize(perParticle)) * perParticle)
}
