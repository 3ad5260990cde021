package geometry

// Buffer — типизированный массив атрибутов. Писатель меняет значения и один
// раз вызывает MarkDirty, чтобы бэкенд перезалил данные; бэкенд сравнивает
// Version с тем, что загружал в прошлый раз.
type Buffer struct {
	resource
	itemSize int
	data     []float32
	version  uint64
}

func newBuffer(t *Tracker, name string, count, itemSize int) *Buffer {
	return &Buffer{
		resource: t.register("buffer:" + name),
		itemSize: itemSize,
		data:     make([]float32, count*itemSize),
	}
}

// Len — число элементов.
func (b *Buffer) Len() int {
	if b.itemSize == 0 {
		return 0
	}
	return len(b.data) / b.itemSize
}

// ItemSize — число компонент на элемент.
func (b *Buffer) ItemSize() int { return b.itemSize }

// Data отдаёт сырые компоненты. Действительны до Dispose.
func (b *Buffer) Data() []float32 { return b.data }

func (b *Buffer) X(i int) float32 { return b.data[i*b.itemSize] }
func (b *Buffer) Y(i int) float32 { return b.data[i*b.itemSize+1] }
func (b *Buffer) Z(i int) float32 { return b.data[i*b.itemSize+2] }

func (b *Buffer) SetX(i int, x float32) {
	b.data[i*b.itemSize] = x
}

func (b *Buffer) SetXY(i int, x, y float32) {
	o := i * b.itemSize
	b.data[o], b.data[o+1] = x, y
}

func (b *Buffer) SetXYZ(i int, x, y, z float32) {
	o := i * b.itemSize
	b.data[o], b.data[o+1], b.data[o+2] = x, y, z
}

// MarkDirty помечает буфер для перезаливки.
func (b *Buffer) MarkDirty() { b.version++ }

// Version растёт на каждом MarkDirty.
func (b *Buffer) Version() uint64 { return b.version }

// Dispose освобождает буфер. Повторный вызов возвращает ErrDisposed.
func (b *Buffer) Dispose() error {
	if err := b.release(); err != nil {
		return err
	}
	b.data = nil
	return nil
}
