package geometry

import (
	"math"

	"github.com/hashicorp/go-multierror"

	"shieldmark/internal/config"
	"shieldmark/internal/utils"
)

// Particles — кольцо вспышки. Angle и BaseRadius задаются при сборке,
// Position драйвер анимации переписывает в каждом видимом кадре.
type Particles struct {
	Angle      *Buffer // itemSize 1
	BaseRadius *Buffer // itemSize 1
	Position   *Buffer // itemSize 3
}

func newParticles(t *Tracker, count int, rng *utils.PRNGService) *Particles {
	p := &Particles{
		Angle:      newBuffer(t, "particle-angle", count, 1),
		BaseRadius: newBuffer(t, "particle-radius", count, 1),
		Position:   newBuffer(t, "particle-position", count, 3),
	}
	for i := 0; i < count; i++ {
		angle := float64(i)/float64(count)*2*math.Pi + rng.RandFloat(-config.ParticleJitter, config.ParticleJitter)
		radius := rng.RandFloat(config.ParticleMinRadius, config.ParticleMaxRadius)
		p.Angle.SetX(i, float32(angle))
		p.BaseRadius.SetX(i, float32(radius))
		p.place(i, 0)
	}
	return p
}

// Count не меняется за время жизни частиц.
func (p *Particles) Count() int { return p.Angle.Len() }

// Place ставит каждую частицу на радиус base+offset вдоль её угла и
// помечает позиции грязными.
func (p *Particles) Place(offset float64) {
	for i := 0; i < p.Count(); i++ {
		p.place(i, offset)
	}
	p.Position.MarkDirty()
}

func (p *Particles) place(i int, offset float64) {
	angle := float64(p.Angle.X(i))
	r := float64(p.BaseRadius.X(i)) + offset
	p.Position.SetXYZ(i, float32(math.Cos(angle)*r), float32(math.Sin(angle)*r), 0)
}

// Dispose освобождает все три буфера и сообщает обо всех ошибках.
func (p *Particles) Dispose() error {
	var result *multierror.Error
	for _, b := range []*Buffer{p.Angle, p.BaseRadius, p.Position} {
		if err := b.Dispose(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
