package render

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"shieldmark/internal/config"
	"shieldmark/internal/fallback"
	"shieldmark/internal/geometry"
	"shieldmark/internal/scene"
	"shieldmark/internal/timeline"
)

const particleSides = 8

// EmblemRenderer рисует кадры композитора в offscreen изображение, которое
// живёт между тиками, так что кадр по запросу стоит одного копирования.
type EmblemRenderer struct {
	side       int
	pixelRatio float64
	target     *ebiten.Image
	whiteImg   *ebiten.Image
	whiteSub   *ebiten.Image

	vs   []ebiten.Vertex
	is   []uint16
	path vector.Path

	staticImg  *ebiten.Image
	staticMark fallback.Mark
	staticPx   int

	particleVs      []ebiten.Vertex
	particleIs      []uint16
	particleVersion uint64
	particleTf      scene.Projection
	particleColor   LayerColor
}

// NewEmblemRenderer выделяет цель рендеринга для стороны в логических
// пикселях и масштаба устройства.
func NewEmblemRenderer(side int, pixelRatio float64) *EmblemRenderer {
	white := ebiten.NewImage(3, 3)
	white.Fill(color.White)
	r := &EmblemRenderer{
		whiteImg:   white,
		whiteSub:   white.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image),
		vs:         make([]ebiten.Vertex, 0, 1024),
		is:         make([]uint16, 0, 3072),
		particleVs: make([]ebiten.Vertex, 0, config.ParticleCount*(particleSides+1)),
		particleIs: make([]uint16, 0, config.ParticleCount*particleSides*3),
	}
	r.Resize(side, pixelRatio)
	return r
}

// Resize пересоздаёт цель, когда меняется размер в пикселях, и сообщает,
// пересоздал ли. Содержимое теряется, вызывающий должен перерисовать.
func (r *EmblemRenderer) Resize(side int, pixelRatio float64) bool {
	pixelRatio = scene.PixelRatio(pixelRatio)
	if r.target != nil && side == r.side && pixelRatio == r.pixelRatio {
		return false
	}
	r.side, r.pixelRatio = side, pixelRatio
	if r.target != nil {
		r.target.Deallocate()
	}
	px := r.px()
	r.target = ebiten.NewImage(px, px)
	r.particleVersion = 0
	return true
}

func (r *EmblemRenderer) px() int {
	return max(1, int(math.Ceil(float64(r.side)*r.pixelRatio)))
}

// Image — последний нарисованный кадр в разрешении устройства.
func (r *EmblemRenderer) Image() *ebiten.Image { return r.target }

// DrawStatic реализует scene.Canvas. Растр пересобирается, только когда
// меняются цвета или размер в пикселях.
func (r *EmblemRenderer) DrawStatic(m fallback.Mark) {
	px := r.px()
	if r.staticImg == nil || m != r.staticMark || px != r.staticPx {
		if r.staticImg != nil {
			r.staticImg.Deallocate()
		}
		r.staticImg = ebiten.NewImageFromImage(m.Rasterize(px))
		r.staticMark, r.staticPx = m, px
	}
	r.target.Clear()
	r.target.DrawImage(r.staticImg, nil)
}

// layer складывает масштаб и подъём слоя с трансформацией группы.
func (r *EmblemRenderer) layer(tf timeline.Transforms, scale, offsetY float64) scene.Projection {
	return scene.LayerProjection(r.px(), tf, scale, offsetY)
}

// DrawAnimated реализует scene.Canvas: заливка, контур, кольцо, свечение и
// частицы, от дальнего к ближнему.
func (r *EmblemRenderer) DrawAnimated(f scene.Frame) {
	r.target.Clear()
	if f.Shield == nil || f.Materials == nil {
		return
	}
	m := f.Materials
	tf := f.Transforms

	body := r.layer(tf, 1, 0)
	r.drawMesh(f.Shield.Fill, body, MaterialColor(m.ShieldFill, f.Lighting), m.ShieldFill.Blend)
	r.drawOutline(f.Shield.Stroke, body, MaterialColor(m.Outline, f.Lighting))

	r.drawMesh(f.Shield.Ring, r.layer(tf, tf.RingScale, config.LayerOffsetY), MaterialColor(m.Ring, f.Lighting), m.Ring.Blend)
	if m.Glow.Opacity > 0 {
		r.drawMesh(f.Shield.Glow, r.layer(tf, tf.GlowScale, config.LayerOffsetY), MaterialColor(m.Glow, f.Lighting), m.Glow.Blend)
	}
	if m.Particles.Opacity > 0 {
		r.drawParticles(f.Shield.Particles, r.layer(tf, 1, config.LayerOffsetY), m.Particles, f.Lighting)
	}
}

func (r *EmblemRenderer) drawMesh(mesh *geometry.Mesh, tf scene.Projection, c LayerColor, blend geometry.Blend) {
	if mesh == nil || mesh.Disposed() {
		return
	}
	r.vs = r.vs[:0]
	for i := 0; i < mesh.Positions.Len(); i++ {
		x, y := tf.Apply(mesh.Positions.X(i), mesh.Positions.Y(i))
		r.vs = append(r.vs, ebiten.Vertex{DstX: x, DstY: y, SrcX: 1, SrcY: 1})
	}
	paint(r.vs, c)
	r.target.DrawTriangles(r.vs, mesh.Indices, r.whiteSub, &ebiten.DrawTrianglesOptions{
		AntiAlias: true,
		Blend:     blendFor(blend),
	})
}

func (r *EmblemRenderer) drawOutline(line *geometry.Polyline, tf scene.Projection, c LayerColor) {
	if line == nil || line.Points.Disposed() || line.Points.Len() < 2 {
		return
	}
	r.path = vector.Path{}
	for i := 0; i < line.Points.Len(); i++ {
		x, y := tf.Apply(line.Points.X(i), line.Points.Y(i))
		if i == 0 {
			r.path.MoveTo(x, y)
		} else {
			r.path.LineTo(x, y)
		}
	}
	if line.Closed {
		r.path.Close()
	}
	r.vs, r.is = r.path.AppendVerticesAndIndicesForStroke(r.vs[:0], r.is[:0], &vector.StrokeOptions{
		Width:    float32(math.Max(1, 1.5*r.pixelRatio)),
		LineJoin: vector.LineJoinRound,
	})
	for i := range r.vs {
		r.vs[i].SrcX = 1
		r.vs[i].SrcY = 1
	}
	paint(r.vs, c)
	r.target.DrawTriangles(r.vs, r.is, r.whiteSub, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// drawParticles рисует каждую частицу маленьким многоугольником. Вершины
// пересобираются, только если драйвер переписал позиции или сдвинулась поза.
func (r *EmblemRenderer) drawParticles(p *geometry.Particles, tf scene.Projection, mat *geometry.Material, lighting scene.Lighting) {
	if p == nil || p.Position.Disposed() {
		return
	}
	c := MaterialColor(mat, lighting)
	version := p.Position.Version()
	if version != r.particleVersion || tf != r.particleTf || c != r.particleColor || len(r.particleVs) == 0 {
		r.buildParticles(p, tf, mat.PointSize, c)
		r.particleVersion, r.particleTf, r.particleColor = version, tf, c
	}
	opts := &ebiten.DrawTrianglesOptions{AntiAlias: true, Blend: blendFor(mat.Blend)}
	per := particleSides + 1
	batch := scene.BatchSize(per)
	for start := 0; start < p.Count(); start += batch {
		end := min(p.Count(), start+batch)
		vs := r.particleVs[start*per : end*per]
		is := r.particleIs[start*particleSides*3 : end*particleSides*3]
		r.target.DrawTriangles(vs, is, r.whiteSub, opts)
	}
}

func (r *EmblemRenderer) buildParticles(p *geometry.Particles, tf scene.Projection, pointSize float64, c LayerColor) {
	r.particleVs = r.particleVs[:0]
	r.particleIs = r.particleIs[:0]
	radius := float32(tf.Pixels(pointSize / 2))
	per := particleSides + 1
	for i := 0; i < p.Count(); i++ {
		cx, cy := tf.Apply(p.Position.X(i), p.Position.Y(i))
		base := scene.BatchBase(i, per)
		r.particleVs = append(r.particleVs, ebiten.Vertex{DstX: cx, DstY: cy, SrcX: 1, SrcY: 1})
		for k := 0; k < particleSides; k++ {
			a := float64(k) / particleSides * 2 * math.Pi
			r.particleVs = append(r.particleVs, ebiten.Vertex{
				DstX: cx + radius*float32(math.Cos(a)),
				DstY: cy + radius*float32(math.Sin(a)),
				SrcX: 1,
				SrcY: 1,
			})
			r.particleIs = append(r.particleIs, base, base+1+uint16(k), base+1+uint16((k+1)%particleSides))
		}
	}
	paint(r.particleVs, c)
}

// Present копирует последний кадр в dst в логическую позицию (x, y).
func (r *EmblemRenderer) Present(dst *ebiten.Image, x, y float64) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(1/r.pixelRatio, 1/r.pixelRatio)
	op.GeoM.Translate(x, y)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(r.target, op)
}

// Dispose освобождает изображения на GPU. Рендерер после этого не
// используется.
func (r *EmblemRenderer) Dispose() {
	// whiteSub делит память с whiteImg
	for _, img := range []*ebiten.Image{r.target, r.staticImg, r.whiteImg} {
		if img != nil {
			img.Deallocate()
		}
	}
	r.target, r.staticImg, r.whiteImg, r.whiteSub = nil, nil, nil, nil
}
