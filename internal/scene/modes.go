package scene

import (
	"go.uber.org/zap"

	"shieldmark/internal/fallback"
	"shieldmark/internal/geometry"
	"shieldmark/internal/timeline"
)

// Canvas принимает один нарисованный кадр. Реализует его бэкенд ebiten;
// композитор пикселей не трогает.
type Canvas interface {
	DrawStatic(mark fallback.Mark)
	DrawAnimated(frame Frame)
}

// Frame — всё, что нужно бэкенду для одного анимированного кадра.
type Frame struct {
	Shield     *geometry.Shield
	Materials  *geometry.Materials
	Transforms timeline.Transforms
	Params     timeline.Params
	Lighting   Lighting
}

const (
	ModeStatic   = "static"
	ModeAnimated = "animated"
)

// StaticMode рисует статичный знак и ничего не делает на тике.
type StaticMode struct {
	c *Composer
}

func (m *StaticMode) Name() string   { return ModeStatic }
func (m *StaticMode) Enter()         {}
func (m *StaticMode) Update(float64) {}
func (m *StaticMode) Exit()          {}

func (m *StaticMode) Draw(canvas Canvas) {
	canvas.DrawStatic(fallback.New(m.c.theme.Foreground, m.c.theme.Accent))
}

// AnimatedMode владеет сборкой геометрии и драйвером, который в неё пишет.
// Существует, только пока хост может анимировать.
type AnimatedMode struct {
	c         *Composer
	shield    *geometry.Shield
	materials *geometry.Materials
	driver    *timeline.Driver
}

func (c *Composer) newAnimatedMode() (*AnimatedMode, error) {
	shield, err := c.builder.Build(c.opts.Geometry)
	if err != nil {
		return nil, err
	}
	materials := c.builder.Materials(c.theme.Foreground, c.theme.Accent)
	return &AnimatedMode{
		c:         c,
		shield:    shield,
		materials: materials,
		driver:    timeline.NewDriver(timeline.NewClock(), shield, materials, c.opts.Speed, c.opts.Intensity),
	}, nil
}

func (m *AnimatedMode) Name() string { return ModeAnimated }

func (m *AnimatedMode) Enter() {
	m.c.log.Debug("animated scene ready",
		zap.Int("particles", m.shield.Particles.Count()),
		zap.Int64("seed", m.shield.Seed))
}

func (m *AnimatedMode) Update(deltaTime float64) {
	m.driver.OnFrame(deltaTime, m.c.inView)
}

func (m *AnimatedMode) Draw(canvas Canvas) {
	canvas.DrawAnimated(Frame{
		Shield:     m.shield,
		Materials:  m.materials,
		Transforms: m.driver.Transforms(),
		Params:     m.driver.Last(),
		Lighting:   m.c.lighting,
	})
}

// Exit разбирает сцену; буферы не переживают режим.
func (m *AnimatedMode) Exit() {
	if err := m.c.builder.Dispose(); err != nil {
		m.c.log.Error("disposing animated scene", zap.Error(err))
	}
}

func (m *AnimatedMode) setMaterials(materials *geometry.Materials) {
	m.materials = materials
	m.driver.SetMaterials(materials)
}
