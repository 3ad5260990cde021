// Package prefs читает пользовательские настройки отображения из небольшого
// YAML-файла и держит их актуальными, пока файл меняется. Отсюда берутся и
// сигнал reduced motion, и переменные темы.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// EnvReducedMotion включает reduced motion, если задана истинным значением.
const EnvReducedMotion = "SHIELDMARK_REDUCED_MOTION"

// Имена переменных темы для Var.
const (
	VarForeground = "brand-foreground"
	VarAccent     = "brand-accent"
)

// Preferences — содержимое файла.
type Preferences struct {
	ReducedMotion   bool   `yaml:"reduced_motion"`
	BrandForeground string `yaml:"brand_foreground"`
	BrandAccent     string `yaml:"brand_accent"`
}

// Store хранит последние настройки и рассылает изменения движения.
type Store struct {
	path     string
	forced   bool
	mu       sync.RWMutex
	current  Preferences
	subs     map[int]func(bool)
	nextID   int
	watcher  *fsnotify.Watcher
	done     chan struct{}
	wg       sync.WaitGroup
	closeErr error
	once     sync.Once
}

// Open загружает path и начинает следить за ним. Отсутствие файла не
// ошибка: до его появления действуют значения по умолчанию.
func Open(path string) (*Store, error) {
	s := &Store{
		path:   filepath.Clean(path),
		forced: envTruthy(os.Getenv(EnvReducedMotion)),
		subs:   make(map[int]func(bool)),
		done:   make(chan struct{}),
	}
	p, err := load(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	s.current = p

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create preferences watcher: %w", err)
	}
	// Следим за каталогом: редакторы заменяют файл через rename, и слежка
	// за самим файлом теряется.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch preferences directory: %w", err)
	}
	s.watcher = watcher

	s.wg.Add(1)
	go s.watch()
	return s, nil
}

func load(path string) (Preferences, error) {
	var p Preferences
	file, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("failed to read preferences file: %w", err)
	}
	if err := yaml.Unmarshal(file, &p); err != nil {
		return p, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	return p, nil
}

func envTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func (s *Store) watch() {
	defer s.wg.Done()
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != s.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				s.reload()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			zap.L().Warn("preferences watcher error", zap.Error(err))
		}
	}
}

func (s *Store) reload() {
	p, err := load(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			zap.L().Warn("keeping previous preferences", zap.String("path", s.path), zap.Error(err))
			return
		}
		p = Preferences{}
	}

	s.mu.Lock()
	before := s.reducedLocked()
	s.current = p
	after := s.reducedLocked()
	var subs []func(bool)
	if before != after {
		for _, fn := range s.subs {
			subs = append(subs, fn)
		}
	}
	s.mu.Unlock()

	zap.L().Debug("preferences reloaded", zap.String("path", s.path), zap.Bool("reducedMotion", after))
	for _, fn := range subs {
		fn(after)
	}
}

func (s *Store) reducedLocked() bool {
	return s.forced || s.current.ReducedMotion
}

// Get возвращает копию текущих настроек.
func (s *Store) Get() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// ReducedMotion — итоговое предпочтение с учётом переменной окружения.
func (s *Store) ReducedMotion() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reducedLocked()
}

// Subscribe подписывает fn на изменения reduced motion. fn вызывается из
// горутины наблюдателя.
func (s *Store) Subscribe(fn func(reduced bool)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Var возвращает переменную темы или "", если она не задана.
func (s *Store) Var(name string) string {
	p := s.Get()
	switch name {
	case VarForeground:
		return strings.TrimSpace(p.BrandForeground)
	case VarAccent:
		return strings.TrimSpace(p.BrandAccent)
	}
	return ""
}

// Close останавливает наблюдатель. Можно вызывать повторно.
func (s *Store) Close() error {
	s.once.Do(func() {
		close(s.done)
		s.closeErr = s.watcher.Close()
		s.wg.Wait()
	})
	return s.closeErr
}
