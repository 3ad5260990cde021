package geometry

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDisposed возвращается при повторном освобождении ресурса.
var ErrDisposed = errors.New("geometry: resource already disposed")

// Tracker считает выделения и освобождения ресурсов геометрии, чтобы хост
// или тест мог проверить отсутствие утечек и двойных освобождений.
type Tracker struct {
	nextID      uint64
	live        map[uint64]string
	allocated   int
	released    int
	doubleFrees int
}

// NewTracker возвращает пустой счётчик.
func NewTracker() *Tracker {
	return &Tracker{live: make(map[uint64]string)}
}

func (t *Tracker) register(kind string) resource {
	if t == nil {
		return resource{kind: kind}
	}
	t.nextID++
	t.allocated++
	t.live[t.nextID] = kind
	return resource{id: t.nextID, kind: kind, tracker: t}
}

// Allocated — сколько ресурсов создано за всё время.
func (t *Tracker) Allocated() int { return t.allocated }

// Released — число успешных освобождений.
func (t *Tracker) Released() int { return t.released }

// Live — сколько ресурсов ещё не освобождено.
func (t *Tracker) Live() int { return len(t.live) }

// DoubleFrees считает попытки освободить уже освобождённое.
func (t *Tracker) DoubleFrees() int { return t.doubleFrees }

// Check возвращает ошибку с описанием утечек или двойных освобождений.
func (t *Tracker) Check() error {
	if len(t.live) == 0 && t.doubleFrees == 0 {
		return nil
	}
	kinds := make([]string, 0, len(t.live))
	for _, k := range t.live {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return fmt.Errorf("geometry: %d live resources %v, %d double frees", len(t.live), kinds, t.doubleFrees)
}

// resource встраивается в каждый освобождаемый объект геометрии.
type resource struct {
	id       uint64
	kind     string
	tracker  *Tracker
	disposed bool
}

// Disposed — освобождён ли ресурс.
func (r *resource) Disposed() bool { return r.disposed }

func (r *resource) release() error {
	if r.disposed {
		if r.tracker != nil {
			r.tracker.doubleFrees++
		}
		return fmt.Errorf("%s: %w", r.kind, ErrDisposed)
	}
	r.disposed = true
	if r.tracker != nil {
		delete(r.tracker.live, r.id)
		r.tracker.released++
	}
	return nil
}
