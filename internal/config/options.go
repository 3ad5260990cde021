package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

// Options — настройки хоста эмблемы. Load читает файл поверх Defaults,
// поэтому пропущенные поля сохраняют значения по умолчанию.
type Options struct {
	// Size — наибольшая сторона эмблемы в пикселях.
	Size float64 `yaml:"size"`
	// Speed — множитель часов анимации. Значения ниже MinSpeed не
	// отклоняются, а поднимаются до пола во время работы.
	Speed float64 `yaml:"speed"`
	// Intensity масштабирует прозрачность свечения и частиц и дальность вспышки.
	Intensity float64 `yaml:"intensity"`
	// Color переопределяет основной цвет. Пусто — цвет из темы.
	Color string `yaml:"color"`

	// RootMargin — запас видимости в пикселях.
	RootMargin float64 `yaml:"rootMargin"`
	// PrefsPath — файл настроек с предпочтением движения и переменными темы.
	// Пусто — не используется.
	PrefsPath string `yaml:"prefsPath"`
	// DisableAcceleration принудительно включает статическую эмблему.
	DisableAcceleration bool `yaml:"disableAcceleration"`
	// Seed для разброса частиц; 0 — текущее время.
	Seed int64 `yaml:"seed"`

	Geometry GeometryOptions `yaml:"geometry"`
	Logging  LoggingOptions  `yaml:"logging"`
	Server   ServerOptions   `yaml:"server"`
}

type GeometryOptions struct {
	OutlineResolution int `yaml:"outlineResolution"`
	FillResolution    int `yaml:"fillResolution"`
	RingSegments      int `yaml:"ringSegments"`
	ParticleCount     int `yaml:"particleCount"`
}

type LoggingOptions struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ServerOptions struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
}

// Defaults — настройки эмблемы без файла.
func Defaults() Options {
	return Options{
		Size:       DefaultSize,
		Speed:      DefaultSpeed,
		Intensity:  DefaultIntensity,
		RootMargin: DefaultRootMargin,
		Geometry: GeometryOptions{
			OutlineResolution: OutlineResolution,
			FillResolution:    FillResolution,
			RingSegments:      RingSegments,
			ParticleCount:     ParticleCount,
		},
		Logging: LoggingOptions{Level: "info", Format: "console"},
		Server: ServerOptions{
			Addr:         ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Load читает YAML-файл настроек поверх Defaults и проверяет его.
func Load(path string) (Options, error) {
	opts := Defaults()
	file, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("failed to read options file: %w", err)
	}
	if err := yaml.Unmarshal(file, &opts); err != nil {
		return opts, fmt.Errorf("failed to unmarshal options: %w", err)
	}
	opts.fillZero()
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// fillZero возвращает значения по умолчанию только там, где явный ноль
// не имеет смысла. Size, Speed и RootMargin остаются как в файле: нулевой
// размер отклоняет Validate, нулевую скорость поднимают часы, нулевой
// запас допустим.
func (o *Options) fillZero() {
	d := Defaults()
	if o.Logging.Level == "" {
		o.Logging.Level = d.Logging.Level
	}
	if o.Logging.Format == "" {
		o.Logging.Format = d.Logging.Format
	}
	if o.Server.Addr == "" {
		o.Server.Addr = d.Server.Addr
	}
	if o.Server.ReadTimeout == 0 {
		o.Server.ReadTimeout = d.Server.ReadTimeout
	}
	if o.Server.WriteTimeout == 0 {
		o.Server.WriteTimeout = d.Server.WriteTimeout
	}
}

// Validate сообщает обо всех ошибочных полях сразу.
func (o Options) Validate() error {
	var result *multierror.Error
	if o.Size <= 0 {
		result = multierror.Append(result, fmt.Errorf("size must be positive, got %v", o.Size))
	}
	if o.Speed < 0 {
		result = multierror.Append(result, fmt.Errorf("speed must not be negative, got %v", o.Speed))
	}
	if o.Intensity < 0 {
		result = multierror.Append(result, fmt.Errorf("intensity must not be negative, got %v", o.Intensity))
	}
	if o.RootMargin < 0 {
		result = multierror.Append(result, fmt.Errorf("rootMargin must not be negative, got %v", o.RootMargin))
	}
	if o.Geometry.OutlineResolution <= 0 {
		result = multierror.Append(result, fmt.Errorf("geometry.outlineResolution must be positive"))
	}
	if o.Geometry.FillResolution <= 0 {
		result = multierror.Append(result, fmt.Errorf("geometry.fillResolution must be positive"))
	}
	if o.Geometry.RingSegments < 3 {
		result = multierror.Append(result, fmt.Errorf("geometry.ringSegments must be at least 3"))
	}
	if o.Geometry.ParticleCount <= 0 {
		result = multierror.Append(result, fmt.Errorf("geometry.particleCount must be positive"))
	}
	return result.ErrorOrNil()
}
