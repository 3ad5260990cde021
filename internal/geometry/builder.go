// Package geometry строит процедурные формы анимированной эмблемы и
// владеет их буферами. Никто снаружи пакета их не освобождает.
package geometry

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/go-multierror"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"shieldmark/internal/config"
	"shieldmark/internal/utils"
)

// OutlineShield — единственный встроенный контур.
const OutlineShield = "shield"

// Spec описывает одну сборку геометрии. Равные Spec делят одну сборку.
type Spec struct {
	Outline        string
	Resolution     int // делений на сегмент контура для обводки
	FillResolution int // делений на сегмент контура для заливки
	RingSegments   int
	ParticleCount  int
	Seed           int64 // 0 — сид от времени в момент сборки
}

// DefaultSpec повторяет константы дизайна.
func DefaultSpec() Spec {
	return Spec{
		Outline:        OutlineShield,
		Resolution:     config.OutlineResolution,
		FillResolution: config.FillResolution,
		RingSegments:   config.RingSegments,
		ParticleCount:  config.ParticleCount,
	}
}

// SpecFromOptions берёт разрешения и число частиц из файла настроек.
func SpecFromOptions(o config.GeometryOptions, seed int64) Spec {
	s := DefaultSpec()
	s.Resolution = o.OutlineResolution
	s.FillResolution = o.FillResolution
	s.RingSegments = o.RingSegments
	s.ParticleCount = o.ParticleCount
	s.Seed = seed
	return s
}

// Validate отклоняет Spec, который нельзя собрать.
func (s Spec) Validate() error {
	var result *multierror.Error
	if s.Outline != OutlineShield {
		result = multierror.Append(result, fmt.Errorf("unknown outline %q", s.Outline))
	}
	if s.Resolution <= 0 || s.FillResolution <= 0 {
		result = multierror.Append(result, fmt.Errorf("resolutions must be positive"))
	}
	if s.RingSegments < 3 {
		result = multierror.Append(result, fmt.Errorf("ring needs at least 3 segments"))
	}
	if s.ParticleCount <= 0 {
		result = multierror.Append(result, fmt.Errorf("particle count must be positive"))
	}
	// индексы uint16 ограничивают веер заливки и кольца
	if 4*s.FillResolution+1 > 0xffff || 2*(s.RingSegments+1) > 0xffff {
		result = multierror.Append(result, fmt.Errorf("mesh too large for 16-bit indices"))
	}
	return result.ErrorOrNil()
}

// Key хэширует Spec для кэша сборок.
func (s Spec) Key() uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(s.Outline)
	var buf [8]byte
	for _, v := range []int64{int64(s.Resolution), int64(s.FillResolution), int64(s.RingSegments), int64(s.ParticleCount), s.Seed} {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// Shield — одна полная сборка геометрии.
type Shield struct {
	Spec      Spec
	Seed      int64 // сид, реально использованный для разброса частиц
	Outline   [4]Segment
	Stroke    *Polyline
	Fill      *Mesh
	Ring      *Mesh
	Glow      *Mesh
	Particles *Particles
	disposed  bool
}

func build(t *Tracker, spec Spec) *Shield {
	rng := utils.NewPRNGService(spec.Seed)
	return &Shield{
		Spec:      spec,
		Seed:      rng.Seed(),
		Outline:   ShieldOutline,
		Stroke:    newPolyline(t, Tessellate(ShieldOutline[:], spec.Resolution)),
		Fill:      newFan(t, "shield-fill", Tessellate(ShieldOutline[:], spec.FillResolution)),
		Ring:      newRing(t, "ring", config.RingInner, config.RingOuter, spec.RingSegments),
		Glow:      newRing(t, "glow", config.GlowInner, config.GlowOuter, spec.RingSegments),
		Particles: newParticles(t, spec.ParticleCount, rng),
	}
}

// Dispose освобождает все буферы сборки. Повторный вызов ничего не делает.
func (s *Shield) Dispose() error {
	if s.disposed {
		return nil
	}
	s.disposed = true
	var result *multierror.Error
	for _, dispose := range []func() error{s.Stroke.Dispose, s.Fill.Dispose, s.Ring.Dispose, s.Glow.Dispose, s.Particles.Dispose} {
		if err := dispose(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Builder запоминает текущую сборку и текущие материалы. При смене ключа
// старая сборка освобождается до замены.
type Builder struct {
	tracker *Tracker

	key    uint64
	shield *Shield
	builds int

	colors    [2]colorful.Color
	materials *Materials
}

// NewBuilder возвращает сборщик, который регистрирует ресурсы в tracker
// (может быть nil).
func NewBuilder(tracker *Tracker) *Builder {
	return &Builder{tracker: tracker}
}

// Build возвращает геометрию для spec и собирает её, только если spec
// отличается от закэшированного.
func (b *Builder) Build(spec Spec) (*Shield, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid geometry spec: %w", err)
	}
	key := spec.Key()
	if b.shield != nil && key == b.key {
		return b.shield, nil
	}
	if b.shield != nil {
		if err := b.shield.Dispose(); err != nil {
			zap.L().Warn("disposing superseded geometry", zap.Error(err))
		}
	}
	b.shield = build(b.tracker, spec)
	b.key = key
	b.builds++
	zap.L().Debug("built emblem geometry",
		zap.Int("outlinePoints", b.shield.Stroke.Points.Len()),
		zap.Int("particles", spec.ParticleCount),
		zap.Int64("seed", b.shield.Seed))
	return b.shield, nil
}

// Materials возвращает материалы для пары цветов и пересобирает их
// (освобождая старые), когда меняется любой из цветов.
func (b *Builder) Materials(foreground, accent colorful.Color) *Materials {
	colors := [2]colorful.Color{foreground, accent}
	if b.materials != nil && colors == b.colors {
		return b.materials
	}
	if b.materials != nil {
		if err := b.materials.Dispose(); err != nil {
			zap.L().Warn("disposing superseded materials", zap.Error(err))
		}
	}
	b.materials = NewMaterials(b.tracker, foreground, accent)
	b.colors = colors
	return b.materials
}

// Builds считает сборки, а не попадания в кэш.
func (b *Builder) Builds() int { return b.builds }

// Dispose освобождает закэшированную сборку и материалы.
func (b *Builder) Dispose() error {
	var result *multierror.Error
	if b.shield != nil {
		if err := b.shield.Dispose(); err != nil {
			result = multierror.Append(result, err)
		}
		b.shield = nil
	}
	if b.materials != nil {
		if err := b.materials.Dispose(); err != nil {
			result = multierror.Append(result, err)
		}
		b.materials = nil
	}
	return result.ErrorOrNil()
}
