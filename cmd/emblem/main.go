// cmd/emblem/main.go
package main

import (
	"fmt"
	"math"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"shieldmark/internal/config"
	"shieldmark/internal/logging"
	"shieldmark/pkg/emblem"
)

type AppGame struct {
	emblem         *emblem.Emblem
	lastUpdateTime time.Time
	elapsed        float64
	wander         bool // уводить эмблему за край окна и обратно
}

func (a *AppGame) Update() error {
	now := time.Now()
	deltaTime := now.Sub(a.lastUpdateTime).Seconds()
	if deltaTime > config.MaxDeltaTime {
		deltaTime = config.MaxDeltaTime
	}
	a.lastUpdateTime = now
	a.elapsed += deltaTime
	a.emblem.Update(deltaTime)
	return nil
}

func (a *AppGame) Draw(screen *ebiten.Image) {
	screen.Fill(config.BackgroundColor)
	x, y := a.position()
	a.emblem.Draw(screen, x, y)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("mode: %s\nfps: %.0f", a.emblem.Mode(), ebiten.ActualFPS()))
}

// position центрирует эмблему; в режиме wander она уходит за край окна
func (a *AppGame) position() (float64, float64) {
	side := a.emblem.Size()
	x := (config.ScreenWidth - side) / 2
	y := (config.ScreenHeight - side) / 2
	if a.wander {
		x += math.Sin(a.elapsed*0.4) * config.ScreenWidth
	}
	return x, y
}

func (a *AppGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.emblem.SetViewport(config.ScreenWidth, config.ScreenHeight)
	return config.ScreenWidth, config.ScreenHeight
}

func main() {
	configPath := pflag.StringP("config", "c", "", "YAML options file")
	prefsPath := pflag.String("prefs", "", "preferences file with reduced_motion and brand colors")
	size := pflag.Float64("size", config.DefaultSize, "largest emblem side in pixels")
	speed := pflag.Float64("speed", config.DefaultSpeed, "animation speed multiplier")
	intensity := pflag.Float64("intensity", config.DefaultIntensity, "glow and burst intensity")
	color := pflag.String("color", "", "foreground color override")
	static := pflag.Bool("static", false, "disable the animated scene")
	wander := pflag.Bool("wander", false, "move the emblem off-screen and back")
	pprofAddr := pflag.String("pprof", "", "serve net/http/pprof on this address, e.g. localhost:6060")
	pflag.Parse()

	opts := config.Defaults()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		opts = loaded
	}
	flags := pflag.CommandLine
	if flags.Changed("prefs") {
		opts.PrefsPath = *prefsPath
	}
	if flags.Changed("size") {
		opts.Size = *size
	}
	if flags.Changed("speed") {
		opts.Speed = *speed
	}
	if flags.Changed("intensity") {
		opts.Intensity = *intensity
	}
	if flags.Changed("color") {
		opts.Color = *color
	}
	if *static {
		opts.DisableAcceleration = true
	}

	logger, err := logging.New(opts.Logging.Level, opts.Logging.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *pprofAddr != "" {
		go func() {
			logger.Info("pprof listening", zap.String("addr", *pprofAddr))
			if err := http.ListenAndServe(*pprofAddr, nil); err != nil {
				logger.Warn("pprof stopped", zap.Error(err))
			}
		}()
	}

	em, err := emblem.New(opts)
	if err != nil {
		logger.Fatal("failed to create emblem", zap.Error(err))
	}
	defer func() {
		if err := em.Dispose(); err != nil {
			logger.Warn("emblem dispose", zap.Error(err))
		}
	}()

	app := &AppGame{
		emblem:         em,
		lastUpdateTime: time.Now(),
		wander:         *wander,
	}
	ebiten.SetWindowSize(config.ScreenWidth, config.ScreenHeight)
	ebiten.SetWindowTitle("Shieldmark")
	if err := ebiten.RunGame(app); err != nil {
		logger.Error("game loop", zap.Error(err))
	}
}
