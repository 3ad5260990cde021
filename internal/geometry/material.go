package geometry

import (
	"github.com/hashicorp/go-multierror"
	"github.com/lucasb-eyer/go-colorful"

	"shieldmark/internal/config"
)

// Blend — как слой смешивается с тем, что под ним.
type Blend int

const (
	BlendNormal Blend = iota
	BlendAdditive
)

// Material описывает закраску слоя меша, линии или точек. Opacity
// единственное поле, которое пишет драйвер анимации.
type Material struct {
	resource
	Color     colorful.Color
	Opacity   float64
	Blend     Blend
	Lit       bool    // освещается светом сцены
	PointSize float64 // в единицах эмблемы, только для точек
	Roughness float64
	Metalness float64
}

func newMaterial(t *Tracker, name string, m Material) *Material {
	m.resource = t.register("material:" + name)
	return &m
}

// Dispose освобождает материал.
func (m *Material) Dispose() error { return m.release() }

// Materials — пять материалов слоёв, пересобираются при смене темы.
type Materials struct {
	ShieldFill *Material
	Outline    *Material
	Ring       *Material
	Glow       *Material
	Particles  *Material
}

// NewMaterials создаёт материалы слоёв для пары основной/акцентный цвет.
func NewMaterials(t *Tracker, foreground, accent colorful.Color) *Materials {
	return &Materials{
		ShieldFill: newMaterial(t, "shield", Material{Color: foreground, Opacity: 0.16, Lit: true, Roughness: 0.3, Metalness: 0.2}),
		Outline:    newMaterial(t, "outline", Material{Color: foreground, Opacity: 0.9}),
		Ring:       newMaterial(t, "ring", Material{Color: foreground, Opacity: 0.85, Lit: true, Roughness: 0.25, Metalness: 0.4}),
		Glow:       newMaterial(t, "glow", Material{Color: accent, Opacity: 0, Blend: BlendAdditive}),
		Particles:  newMaterial(t, "particles", Material{Color: accent, Opacity: 0, Blend: BlendAdditive, PointSize: config.ParticleSize}),
	}
}

func (m *Materials) all() []*Material {
	return []*Material{m.ShieldFill, m.Outline, m.Ring, m.Glow, m.Particles}
}

// Dispose освобождает каждый материал один раз и сообщает обо всех ошибках.
func (m *Materials) Dispose() error {
	var result *multierror.Error
	for _, mat := range m.all() {
		if err := mat.Dispose(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
