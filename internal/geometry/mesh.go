package geometry

import "math"

// Mesh — индексированный список треугольников в пространстве эмблемы.
type Mesh struct {
	resource
	Positions *Buffer // itemSize 2
	Indices   []uint16
}

// Triangles — число треугольников.
func (m *Mesh) Triangles() int { return len(m.Indices) / 3 }

// Dispose освобождает буфер позиций и список индексов.
func (m *Mesh) Dispose() error {
	if err := m.release(); err != nil {
		return err
	}
	m.Indices = nil
	return m.Positions.Dispose()
}

// newFan триангулирует звёздный относительно начала координат контур веером.
func newFan(t *Tracker, name string, loop []Vec2) *Mesh {
	pos := newBuffer(t, name, len(loop)+1, 2)
	pos.SetXY(0, 0, 0)
	for i, p := range loop {
		pos.SetXY(i+1, float32(p.X), float32(p.Y))
	}
	n := len(loop)
	idx := make([]uint16, 0, n*3)
	for i := 0; i < n; i++ {
		next := (i+1)%n + 1
		idx = append(idx, 0, uint16(i+1), uint16(next))
	}
	return &Mesh{resource: t.register("mesh:" + name), Positions: pos, Indices: idx}
}

// newRing строит кольцо с одним радиальным шагом и заданным числом
// угловых сегментов. Вершина шва дублируется.
func newRing(t *Tracker, name string, inner, outer float64, segments int) *Mesh {
	pos := newBuffer(t, name, (segments+1)*2, 2)
	for j, r := range [2]float64{inner, outer} {
		for i := 0; i <= segments; i++ {
			a := float64(i) / float64(segments) * 2 * math.Pi
			pos.SetXY(j*(segments+1)+i, float32(math.Cos(a)*r), float32(math.Sin(a)*r))
		}
	}
	idx := make([]uint16, 0, segments*6)
	for i := 0; i < segments; i++ {
		a := uint16(i)
		b := uint16(i + segments + 1)
		c := uint16(i + segments + 2)
		d := uint16(i + 1)
		idx = append(idx, a, b, d, b, c, d)
	}
	return &Mesh{resource: t.register("mesh:" + name), Positions: pos, Indices: idx}
}
