package scene

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"shieldmark/internal/config"
	"shieldmark/internal/prefs"
)

// Theme — пара цветов, которыми окрашены все слои.
type Theme struct {
	Foreground colorful.Color
	Accent     colorful.Color
}

// ThemeSource отдаёт именованные переменные темы. Пустой результат —
// переменная не задана.
type ThemeSource interface {
	Var(name string) string
}

// DefaultTheme используется, когда больше ничего не задано.
func DefaultTheme() Theme {
	return Theme{
		Foreground: mustParse(config.DefaultForeground),
		Accent:     mustParse(config.DefaultAccent),
	}
}

// ResolveTheme берёт основной цвет из override, затем из источника, затем
// по умолчанию. Акцент берётся только из источника или по умолчанию.
func ResolveTheme(override string, src ThemeSource) Theme {
	t := DefaultTheme()
	if src != nil {
		t.Foreground = pick(src.Var(prefs.VarForeground), t.Foreground)
		t.Accent = pick(src.Var(prefs.VarAccent), t.Accent)
	}
	t.Foreground = pick(override, t.Foreground)
	return t
}

func pick(value string, fallback colorful.Color) colorful.Color {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	c, err := ParseColor(value)
	if err != nil {
		zap.L().Warn("ignoring theme color", zap.String("value", value), zap.Error(err))
		return fallback
	}
	return c
}

// ParseColor принимает #rgb, #rrggbb и rgb(r, g, b).
func ParseColor(s string) (colorful.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasPrefix(s, "rgb(") {
		var r, g, b int
		if _, err := fmt.Sscanf(strings.ReplaceAll(s, " ", ""), "rgb(%d,%d,%d)", &r, &g, &b); err != nil {
			return colorful.Color{}, fmt.Errorf("parse %q: %w", s, err)
		}
		for _, v := range []int{r, g, b} {
			if v < 0 || v > 255 {
				return colorful.Color{}, fmt.Errorf("parse %q: channel out of range", s)
			}
		}
		return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}, nil
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("parse %q: %w", s, err)
	}
	return c, nil
}

func mustParse(s string) colorful.Color {
	c, err := ParseColor(s)
	if err != nil {
		panic(err)
	}
	return c
}
