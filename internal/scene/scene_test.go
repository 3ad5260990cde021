package scene

import (
	"errors"
	"sync"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/onsi/gomega"

	"shieldmark/internal/capability"
	"shieldmark/internal/event"
	"shieldmark/internal/fallback"
	"shieldmark/internal/geometry"
	"shieldmark/internal/prefs"
	"shieldmark/internal/visibility"
)

type fakeMotion struct {
	mu      sync.Mutex
	reduced bool
	subs    map[int]func(bool)
	next    int
}

func newFakeMotion(reduced bool) *fakeMotion {
	return &fakeMotion{reduced: reduced, subs: make(map[int]func(bool))}
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
	}
}

func (f *fakeMotion) Set(reduced bool) {
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

func (f *fakeMotion) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

type themeVars map[string]string

func (v themeVars) Var(name string) string { return v[name] }

type recordingCanvas struct {
	static   int
	animated int
	mark     fallback.Mark
	frame    Frame
}

func (r *recordingCanvas) DrawStatic(m fallback.Mark) {
	r.static++
	r.mark = m
}

func (r *recordingCanvas) DrawAnimated(f Frame) {
	r.animated++
	r.frame = f
}

var (
	okProbe   = capability.ProberFunc(func() error { return nil })
	failProbe = capability.ProberFunc(func() error { return errors.New("no context") })
)

type fixture struct {
	composer *Composer
	motion   *fakeMotion
	viewport *visibility.ViewportObserver
	tracker  *geometry.Tracker
}

var onScreen = visibility.RectXYWH(0, 0, 800, 600)

func newFixture(t *testing.T, prober capability.ContextProber, reduced bool, theme ThemeSource, opts Options) *fixture {
	t.Helper()
	if opts.Geometry == (geometry.Spec{}) {
		opts.Geometry = geometry.DefaultSpec()
		opts.Geometry.Seed = 11
	}
	if opts.Speed == 0 {
		opts.Speed = 1
	}
	if opts.Intensity == 0 {
		opts.Intensity = 1
	}
	f := &fixture{
		motion:   newFakeMotion(reduced),
		viewport: visibility.NewViewportObserver(onScreen),
		tracker:  geometry.NewTracker(),
	}
	f.composer = NewComposer(opts, Deps{
		Detector:   capability.NewDetector(prober, f.motion),
		Visibility: visibility.NewTracker(f.viewport, visibility.RectXYWH(100, 100, 120, 120), 120),
		Theme:      theme,
		Tracker:    f.tracker,
	})
	return f
}

func (f *fixture) scrollAway() {
	f.viewport.SetViewport(visibility.RectXYWH(0, 5000, 800, 600))
}

func (f *fixture) scrollBack() {
	f.viewport.SetViewport(onScreen)
}

func TestStaticWithoutAcceleration(t *testing.T) {
	g := gomega.NewWithT(t)
	f := newFixture(t, failProbe, false, nil, Options{})
	f.composer.Frame(0.016)

	g.Expect(f.composer.Mode()).To(gomega.Equal(ModeStatic))
	g.Expect(f.composer.Builder().Builds()).To(gomega.BeZero())
	g.Expect(f.composer.Driver()).To(gomega.BeNil())
	g.Expect(f.tracker.Allocated()).To(gomega.BeZero())
}

func TestStaticWithReducedMotion(t *testing.T) {
	g := gomega.NewWithT(t)
	f := newFixture(t, okProbe, true, nil, Options{})
	for i := 0; i < 5; i++ {
		f.composer.Frame(0.016)
	}
	g.Expect(f.composer.Mode()).To(gomega.Equal(ModeStatic))
	g.Expect(f.composer.Builder().Builds()).To(gomega.BeZero())
	g.Expect(f.tracker.Allocated()).To(gomega.BeZero())

	canvas := &recordingCanvas{}
	g.Expect(f.composer.Draw(canvas)).To(gomega.BeTrue())
	g.Expect(canvas.static).To(gomega.Equal(1))
	g.Expect(canvas.animated).To(gomega.BeZero())
}

func TestProbePanicFallsBackToStatic(t *testing.T) {
	g := gomega.NewWithT(t)
	panicky := capability.ProberFunc(func() error { panic("driver crashed") })
	f := newFixture(t, panicky, false, nil, Options{})
	g.Expect(func() { f.composer.Frame(0.016) }).NotTo(gomega.Panic())
	g.Expect(f.composer.Mode()).To(gomega.Equal(ModeStatic))
	g.Expect(f.composer.Builder().Builds()).To(gomega.BeZero())
}

func TestAnimatedWhenCapable(t *testing.T) {
	g := gomega.NewWithT(t)
	f := newFixture(t, okProbe, false, nil, Options{})
	f.composer.Frame(0.5)

	g.Expect(f.composer.Mode()).To(gomega.Equal(ModeAnimated))
	g.Expect(f.composer.Builder().Builds()).To(gomega.Equal(1))
	g.Expect(f.composer.Driver()).NotTo(gomega.BeNil())
	g.Expect(f.composer.Driver().Clock().Elapsed).To(gomega.BeNumerically("~", 0.5, 1e-12))

	canvas := &recordingCanvas{}
	g.Expect(f.composer.Draw(canvas)).To(gomega.BeTrue())
	g.Expect(canvas.animated).To(gomega.Equal(1))
	g.Expect(canvas.frame.Shield).NotTo(gomega.BeNil())
	g.Expect(canvas.frame.Lighting.Ambient).To(gomega.Equal(0.55))

	// continuous while animated and in view
	g.Expect(f.composer.Draw(canvas)).To(gomega.BeTrue())
	g.Expect(f.composer.Scheduler().Mode()).To(gomega.Equal(Continuous))
}

func TestReducedMotionTearsDownAndRebuilds(t *testing.T) {
	g := gomega.NewWithT(t)
	f := newFixture(t, okProbe, false, nil, Options{})
	f.composer.Frame(0.016)
	g.Expect(f.composer.Animated()).To(gomega.BeTrue())
	g.Expect(f.tracker.Live()).To(gomega.BeNumerically(">", 0))

	f.motion.Set(true)
	f.composer.Frame(0.016)
	g.Expect(f.composer.Mode()).To(gomega.Equal(ModeStatic))
	g.Expect(f.tracker.Live()).To(gomega.BeZero())
	g.Expect(f.tracker.DoubleFrees()).To(gomega.BeZero())

	f.motion.Set(false)
	f.composer.Frame(0.016)
	g.Expect(f.composer.Mode()).To(gomega.Equal(ModeAnimated))
	g.Expect(f.composer.Builder().Builds()).To(gomega.Equal(2))
}

func TestOutOfViewSkipsFrameWork(t *testing.T) {
	g := gomega.NewWithT(t)
	f := newFixture(t, okProbe, false, nil, Options{})
	f.composer.Frame(0.1)
	canvas := &recordingCanvas{}
	f.composer.Draw(canvas)

	d := f.composer.Driver()
	elapsed := d.Clock().Elapsed
	frames := d.Frames()

	f.scrollAway()
	for i := 0; i < 30; i++ {
		f.composer.Frame(0.1)
		g.Expect(f.composer.Draw(canvas)).To(gomega.BeFalse())
	}
	g.Expect(f.composer.InView()).To(gomega.BeFalse())
	g.Expect(d.Clock().Elapsed).To(gomega.Equal(elapsed))
	g.Expect(d.Frames()).To(gomega.Equal(frames))
	g.Expect(f.composer.Scheduler().Mode()).To(gomega.Equal(OnDemand))
	g.Expect(canvas.animated).To(gomega.Equal(1))
}

func TestMarginCountsAsInView(t *testing.T) {
	g := gomega.NewWithT(t)
	f := newFixture(t, okProbe, false, nil, Options{})
	// the box ends at y=220; a viewport starting 100 px below it is
	// still inside the 120 px margin
	f.viewport.SetViewport(visibility.RectXYWH(0, 320, 800, 600))
	f.composer.Frame(0.1)
	g.Expect(f.composer.InView()).To(gomega.BeTrue())
}

func TestBecomingVisibleInvalidatesOnce(t *testing.T) {
	g := gomega.NewWithT(t)
	f := newFixture(t, failProbe, false, nil, Options{})
	canvas := &recordingCanvas{}
	f.composer.Frame(0.016)
	g.Expect(f.composer.Draw(canvas)).To(gomega.BeTrue())
	g.Expect(f.composer.Draw(canvas)).To(gomega.BeFalse())

	f.scrollAway()
	f.composer.Frame(0.016)
	before := f.composer.Scheduler().Invalidations()

	f.scrollBack()
	f.composer.Frame(0.016)
	f.composer.Frame(0.016)
	g.Expect(f.composer.Scheduler().Invalidations() - before).To(gomega.Equal(1))
	g.Expect(f.composer.Draw(canvas)).To(gomega.BeTrue())
	g.Expect(f.composer.Draw(canvas)).To(gomega.BeFalse())
	g.Expect(canvas.static).To(gomega.Equal(2))
}

func TestInvalidationsAreDispatched(t *testing.T) {
	g := gomega.NewWithT(t)
	f := newFixture(t, failProbe, false, nil, Options{})
	var counts []int
	f.composer.Events().Subscribe(event.Invalidated, event.ListenerFunc(func(e event.Event) {
		counts = append(counts, e.Data.(int))
	}))
	f.composer.Frame(0.016)
	f.scrollAway()
	f.composer.Frame(0.016)
	counts = nil

	f.scrollBack()
	f.composer.Frame(0.016)
	g.Expect(counts).To(gomega.HaveLen(1))
	g.Expect(counts[0]).To(gomega.Equal(f.composer.Scheduler().Invalidations()))

	f.composer.SetColor("#00ff00")
	g.Expect(counts).To(gomega.HaveLen(2))

	g.Expect(f.composer.Dispose()).To(gomega.Succeed())
	f.composer.Scheduler().Invalidate()
	g.Expect(counts).To(gomega.HaveLen(2))
}

func TestThemeResolvedWhenFirstVisible(t *testing.T) {
	g := gomega.NewWithT(t)
	vars := themeVars{prefs.VarForeground: "#102030", prefs.VarAccent: "#405060"}
	f := newFixture(t, failProbe, false, vars, Options{})
	f.scrollAway()
	f.composer.Frame(0.016)
	g.Expect(f.composer.Theme()).To(gomega.Equal(DefaultTheme()))

	f.scrollBack()
	f.composer.Frame(0.016)
	g.Expect(f.composer.Theme().Foreground.Hex()).To(gomega.Equal("#102030"))
	g.Expect(f.composer.Theme().Accent.Hex()).To(gomega.Equal("#405060"))
}

func TestColorOverrideWinsForForegroundOnly(t *testing.T) {
	g := gomega.NewWithT(t)
	vars := themeVars{prefs.VarForeground: "#102030", prefs.VarAccent: "#405060"}
	f := newFixture(t, failProbe, false, vars, Options{Color: "#ff0000"})
	f.composer.Frame(0.016)
	g.Expect(f.composer.Theme().Foreground.Hex()).To(gomega.Equal("#ff0000"))
	g.Expect(f.composer.Theme().Accent.Hex()).To(gomega.Equal("#405060"))

	canvas := &recordingCanvas{}
	f.composer.Draw(canvas)
	g.Expect(canvas.mark.Foreground.Hex()).To(gomega.Equal("#ff0000"))
}

func TestThemeChangeRebuildsMaterials(t *testing.T) {
	g := gomega.NewWithT(t)
	f := newFixture(t, okProbe, false, nil, Options{})
	f.composer.Frame(0.016)
	canvas := &recordingCanvas{}
	f.composer.Draw(canvas)
	old := canvas.frame.Materials

	var themed []event.Event
	f.composer.Events().Subscribe(event.ThemeChanged, event.ListenerFunc(func(e event.Event) {
		themed = append(themed, e)
	}))
	f.composer.SetColor("#00ff00")
	f.composer.Frame(0.016)
	f.composer.Draw(canvas)

	g.Expect(themed).To(gomega.HaveLen(1))
	g.Expect(old.Outline.Disposed()).To(gomega.BeTrue())
	g.Expect(canvas.frame.Materials).NotTo(gomega.BeIdenticalTo(old))
	g.Expect(canvas.frame.Materials.Outline.Color.Hex()).To(gomega.Equal("#00ff00"))
	g.Expect(f.composer.Builder().Builds()).To(gomega.Equal(1))
}

func TestFrameOrdering(t *testing.T) {
	g := gomega.NewWithT(t)
	f := newFixture(t, okProbe, false, nil, Options{})
	var order []event.EventType
	record := event.ListenerFunc(func(e event.Event) { order = append(order, e.Type) })
	for _, typ := range []event.EventType{event.CapabilityChanged, event.VisibilityChanged, event.ModeChanged} {
		f.composer.Events().Subscribe(typ, record)
	}

	f.composer.Frame(0.016)
	g.Expect(order).To(gomega.Equal([]event.EventType{event.CapabilityChanged, event.ModeChanged}))

	order = nil
	f.motion.Set(true)
	f.scrollAway()
	f.composer.Frame(0.016)
	g.Expect(order).To(gomega.Equal([]event.EventType{event.CapabilityChanged, event.VisibilityChanged, event.ModeChanged}))
}

func TestDisposeReleasesEverything(t *testing.T) {
	g := gomega.NewWithT(t)
	f := newFixture(t, okProbe, false, nil, Options{})
	f.composer.Frame(0.016)
	g.Expect(f.motion.Len()).To(gomega.Equal(1))
	g.Expect(f.viewport.Len()).To(gomega.Equal(1))

	g.Expect(f.composer.Dispose()).To(gomega.Succeed())
	g.Expect(f.motion.Len()).To(gomega.BeZero())
	g.Expect(f.viewport.Len()).To(gomega.BeZero())
	g.Expect(f.tracker.Live()).To(gomega.BeZero())
	g.Expect(f.tracker.DoubleFrees()).To(gomega.BeZero())
	g.Expect(f.composer.Events().Len(event.ThemeChanged)).To(gomega.BeZero())
	g.Expect(f.composer.Mode()).To(gomega.BeEmpty())

	frames := f.composer.Frames()
	f.motion.Set(true)
	f.composer.Frame(0.016)
	g.Expect(f.composer.Frames()).To(gomega.Equal(frames))
	g.Expect(f.composer.Draw(&recordingCanvas{})).To(gomega.BeFalse())
	g.Expect(f.composer.Dispose()).To(gomega.Succeed())
}

func TestSpeedAndIntensityForwarded(t *testing.T) {
	g := gomega.NewWithT(t)
	f := newFixture(t, okProbe, false, nil, Options{})
	f.composer.Frame(0)
	f.composer.SetSpeed(2)
	f.composer.Frame(0.5)
	g.Expect(f.composer.Driver().Clock().Elapsed).To(gomega.BeNumerically("~", 1, 1e-12))

	f.composer.SetIntensity(0)
	f.composer.Frame(0.2) // elapsed 1.4, inside the collapse
	g.Expect(f.composer.Driver().Last().GlowOpacity).To(gomega.BeZero())
}

func TestInvalidGeometryStaysStatic(t *testing.T) {
	g := gomega.NewWithT(t)
	spec := geometry.DefaultSpec()
	spec.ParticleCount = -1
	f := newFixture(t, okProbe, false, nil, Options{Geometry: spec})
	f.composer.Frame(0.016)
	f.composer.Frame(0.016)
	g.Expect(f.composer.Mode()).To(gomega.Equal(ModeStatic))
	g.Expect(f.composer.Builder().Builds()).To(gomega.BeZero())
}

func TestNoDepsIsStaticAndVisible(t *testing.T) {
	g := gomega.NewWithT(t)
	c := NewComposer(Options{Speed: 1, Intensity: 1, Geometry: geometry.DefaultSpec()}, Deps{})
	c.Frame(0.016)
	g.Expect(c.Mode()).To(gomega.Equal(ModeStatic))
	g.Expect(c.InView()).To(gomega.BeTrue())
	g.Expect(c.Theme()).To(gomega.Equal(DefaultTheme()))
}

func TestScheduler(t *testing.T) {
	g := gomega.NewWithT(t)
	s := NewScheduler()
	s.Observe(true, false)
	g.Expect(s.ShouldRender()).To(gomega.BeTrue())
	g.Expect(s.ShouldRender()).To(gomega.BeFalse())
	s.Invalidate()
	g.Expect(s.ShouldRender()).To(gomega.BeTrue())
	g.Expect(s.ShouldRender()).To(gomega.BeFalse())

	s.Observe(true, true)
	for i := 0; i < 3; i++ {
		g.Expect(s.ShouldRender()).To(gomega.BeTrue())
	}

	s.Observe(false, true)
	g.Expect(s.Mode()).To(gomega.Equal(OnDemand))
	s.Invalidate()
	g.Expect(s.ShouldRender()).To(gomega.BeFalse())
	g.Expect(s.Pending()).To(gomega.BeTrue())

	n := s.Invalidations()
	s.Observe(true, false)
	s.Observe(true, false)
	g.Expect(s.Invalidations()).To(gomega.Equal(n + 1))
	g.Expect(s.ShouldRender()).To(gomega.BeTrue())
}

func TestSchedulerInvalidateHook(t *testing.T) {
	g := gomega.NewWithT(t)
	s := NewScheduler()
	var seen []int
	s.OnInvalidate(func(count int) { seen = append(seen, count) })
	s.Invalidate()
	s.Observe(false, false)
	s.Observe(true, false)
	g.Expect(seen).To(gomega.Equal([]int{2, 3}))

	s.OnInvalidate(nil)
	s.Invalidate()
	g.Expect(seen).To(gomega.HaveLen(2))
}

func TestSide(t *testing.T) {
	tests := []struct {
		size, vw, want float64
	}{
		{120, 1920, 120},
		{300, 1000, 200},
		{120, 400, 110},
		{50, 1920, 110},
		{400, 2000, 400},
	}
	for _, tt := range tests {
		if got := Side(tt.size, tt.vw); got != tt.want {
			t.Errorf("Side(%v, %v) = %v, want %v", tt.size, tt.vw, got, tt.want)
		}
	}
}

func TestPixelRatio(t *testing.T) {
	for in, want := range map[float64]float64{0.5: 1, 1: 1, 1.5: 1.5, 2: 2, 3: 2} {
		if got := PixelRatio(in); got != want {
			t.Errorf("PixelRatio(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestLighting(t *testing.T) {
	g := gomega.NewWithT(t)
	l := DefaultLighting()
	g.Expect(l.Flat()).To(gomega.BeNumerically("~", 0.55+0.85*5/7.0710678118654755+0.45*6/7.483314773547883, 1e-9))
	g.Expect(l.Shade(0, 0, -1)).To(gomega.Equal(0.55))
	g.Expect(l.Shade(0, 0, 0)).To(gomega.Equal(0.55))

	c := Lit(colorful.Color{R: 0.8, G: 0.4, B: 0.2}, 2)
	g.Expect(c.R).To(gomega.Equal(1.0))
	g.Expect(c.G).To(gomega.BeNumerically("~", 0.8, 1e-12))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"#f3ede2", "#f3ede2", false},
		{"  #76F0E1 ", "#76f0e1", false},
		{"#fff", "#ffffff", false},
		{"76f0e1", "#76f0e1", false},
		{"rgb(255, 0, 16)", "#ff0010", false},
		{"rgb(300, 0, 0)", "", true},
		{"tomato", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseColor(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", c.Hex())
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if c.Hex() != tt.want {
				t.Errorf("got %s, want %s", c.Hex(), tt.want)
			}
		})
	}
}

func TestResolveThemeIgnoresBadValues(t *testing.T) {
	g := gomega.NewWithT(t)
	th := ResolveTheme("not-a-color", themeVars{prefs.VarAccent: "???"})
	g.Expect(th).To(gomega.Equal(DefaultTheme()))
}
