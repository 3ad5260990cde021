package capability

import (
	"errors"
	"sync"
	"testing"

	"github.com/onsi/gomega"
)

type fakeMotion struct {
	mu           sync.Mutex
	reduced      bool
	subs         map[int]func(bool)
	next         int
	unsubscribes int
}

func newFakeMotion(reduced bool) *fakeMotion {
	return &fakeMotion{reduced: reduced, subs: map[int]func(bool){}}
}

func (f *fakeMotion) ReducedMotion() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reduced
}

func (f *fakeMotion) Subscribe(fn func(bool)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.subs[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
		f.unsubscribes++
	}
}

func (f *fakeMotion) set(reduced bool) {
	f.mu.Lock()
	f.reduced = reduced
	subs := make([]func(bool), 0, len(f.subs))
	for _, fn := range f.subs {
		subs = append(subs, fn)
	}
	f.mu.Unlock()
	for _, fn := range subs {
		fn(reduced)
	}
}

func TestProbeOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		prober ContextProber
		want   bool
	}{
		{name: "context acquired", prober: ProberFunc(func() error { return nil }), want: true},
		{name: "error", prober: ProberFunc(func() error { return errors.New("no gl") }), want: false},
		{name: "panic", prober: ProberFunc(func() error { panic("driver exploded") }), want: false},
		{name: "no prober", prober: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gomega.NewWithT(t)
			d := NewDetector(tt.prober, nil)
			var got RenderCapability
			g.Expect(func() { got = d.Probe() }).NotTo(gomega.Panic())
			g.Expect(got.HardwareAccelAvailable).To(gomega.Equal(tt.want))
			g.Expect(got.ReducedMotionPreferred).To(gomega.BeFalse())
			g.Expect(got.Animated()).To(gomega.Equal(tt.want))
		})
	}
}

func TestMotionPreferenceIsLive(t *testing.T) {
	g := gomega.NewWithT(t)
	motion := newFakeMotion(false)
	d := NewDetector(ProberFunc(func() error { return nil }), motion)
	d.Start()
	g.Expect(d.Snapshot().Animated()).To(gomega.BeTrue())

	motion.set(true)
	g.Expect(d.Snapshot().ReducedMotionPreferred).To(gomega.BeTrue())
	g.Expect(d.Snapshot().Animated()).To(gomega.BeFalse())

	motion.set(false)
	g.Expect(d.Snapshot().Animated()).To(gomega.BeTrue())
}

func TestStartReadsInitialPreference(t *testing.T) {
	g := gomega.NewWithT(t)
	d := NewDetector(ProberFunc(func() error { return nil }), newFakeMotion(true))
	d.Start()
	g.Expect(d.Snapshot().ReducedMotionPreferred).To(gomega.BeTrue())
}

func TestDisposeUnsubscribesOnce(t *testing.T) {
	g := gomega.NewWithT(t)
	motion := newFakeMotion(false)
	d := NewDetector(ProberFunc(func() error { return nil }), motion)
	d.Start()
	d.Start() // second start must not subscribe twice
	g.Expect(motion.subs).To(gomega.HaveLen(1))

	d.Dispose()
	d.Dispose()
	g.Expect(motion.unsubscribes).To(gomega.Equal(1))
	g.Expect(motion.subs).To(gomega.BeEmpty())

	motion.set(true)
	g.Expect(d.Snapshot().ReducedMotionPreferred).To(gomega.BeFalse())
}
