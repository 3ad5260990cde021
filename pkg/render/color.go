// pkg/render/color.go
package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lucasb-eyer/go-colorful"

	"shieldmark/internal/geometry"
	"shieldmark/internal/scene"
	"shieldmark/internal/utils"
)

// LayerColor — цвет вершины с прямой (не умноженной) альфой.
type LayerColor struct {
	R, G, B, A float32
}

// MaterialColor переводит материал в цвет вершин. Освещаемые материалы
// получают плоскую освещённость по Ламберту от схемы света.
func MaterialColor(m *geometry.Material, lighting scene.Lighting) LayerColor {
	c := m.Color
	if m.Lit {
		c = scene.Lit(c, lighting.Flat())
	}
	return colorWithOpacity(c, m.Opacity)
}

func colorWithOpacity(c colorful.Color, opacity float64) LayerColor {
	c = c.Clamped()
	opacity = utils.Clamp(opacity, 0, 1)
	return LayerColor{R: float32(c.R), G: float32(c.G), B: float32(c.B), A: float32(opacity)}
}

// paint красит все вершины в c.
func paint(vs []ebiten.Vertex, c LayerColor) {
	for i := range vs {
		vs[i].ColorR = c.R
		vs[i].ColorG = c.G
		vs[i].ColorB = c.B
		vs[i].ColorA = c.A
	}
}

// blendFor переводит смешивание материала в смешивание ebiten.
func blendFor(b geometry.Blend) ebiten.Blend {
	if b == geometry.BlendAdditive {
		return ebiten.BlendLighter
	}
	return ebiten.BlendSourceOver
}
