package render

import (
	"errors"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"shieldmark/internal/capability"
)

// ErrAccelerationDisabled возвращает проверка, когда настройки выключают
// анимированную сцену.
var ErrAccelerationDisabled = errors.New("render: hardware acceleration disabled")

const probeSide = 4

// ContextProbe возвращает проверку, которая создаёт крошечное offscreen
// изображение и рисует в него. Панику графического драйвера перехватывает
// детектор.
func ContextProbe(disabled bool) capability.ContextProber {
	return capability.ProberFunc(func() error {
		if disabled {
			return ErrAccelerationDisabled
		}
		img := ebiten.NewImage(probeSide, probeSide)
		defer img.Deallocate()
		img.Fill(color.White)
		return nil
	})
}
