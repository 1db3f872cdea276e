package anim

import (
	"math"
	"slices"
	"testing"

	"github.com/san-kum/kinetic/internal/fluid"
	"github.com/san-kum/kinetic/internal/motion"
)

func newAnim(from, to float64, cfg *motion.Config) (*Animation, *fluid.Node) {
	a := New()
	if cfg != nil {
		a.Config = cfg
	}
	a.From = []float64{from}
	a.To = []float64{to}
	a.Channels = []*Channel{NewChannel(from, 0)}
	return a, fluid.NewScalar(from)
}

func run(t *testing.T, a *Animation, node *fluid.Node, dt float64, maxFrames int) int {
	t.Helper()
	for i := 0; i < maxFrames; i++ {
		_, idle := Advance(a, node, dt, nil)
		if idle {
			return i + 1
		}
	}
	t.Fatalf("animation did not settle within %d frames", maxFrames)
	return 0
}

func TestSpringConvergesToGoal(t *testing.T) {
	a, node := newAnim(0, 100, nil)
	run(t, a, node, 16.7, 2000)

	if got := node.Value(0); math.Abs(got-100) > 1e-9 {
		t.Errorf("expected rest at 100, got %v", got)
	}
	if vel := a.Channels[0].Velocity; vel != 0 {
		t.Errorf("expected zero velocity at rest, got %v", vel)
	}
}

func TestSpringConvergesWithIrregularDt(t *testing.T) {
	a, node := newAnim(0, 100, nil)

	dts := []float64{7, 33.4, 16.7, 2, 50}
	for i := 0; i < 5000; i++ {
		_, idle := Advance(a, node, dts[i%len(dts)], nil)
		if idle {
			if got := node.Value(0); math.Abs(got-100) > 1e-9 {
				t.Errorf("expected rest at 100, got %v", got)
			}
			return
		}
	}
	t.Fatal("animation did not settle")
}

func TestSpringZeroTensionNeverMoves(t *testing.T) {
	for _, tension := range []float64{0, -50} {
		cfg := &motion.Config{Mass: 1, Tension: tension, Friction: 26, Easing: motion.Linear}
		a, node := newAnim(5, 100, cfg)

		for i := 0; i < 100; i++ {
			Advance(a, node, 16.7, nil)
			if got := node.Value(0); got != 5 {
				t.Fatalf("tension %v: position moved to %v", tension, got)
			}
		}
		if !a.Idle() {
			t.Errorf("tension %v: expected idle", tension)
		}
	}
}

func TestSpringClampStopsAtGoal(t *testing.T) {
	cfg := (&motion.Config{Mass: 1, Tension: 180, Friction: 12, Clamp: true}).Normalize()
	a, node := newAnim(0, 100, cfg)

	for i := 0; i < 2000; i++ {
		_, idle := Advance(a, node, 16.7, nil)
		if got := node.Value(0); got > 100+1e-9 {
			t.Fatalf("clamped spring overshot to %v", got)
		}
		if idle {
			return
		}
	}
	t.Fatal("animation did not settle")
}

func TestSpringBounceStaysInsideGoal(t *testing.T) {
	cfg := (&motion.Config{Mass: 1, Tension: 170, Friction: 2, Bounce: motion.Ptr(0.8)}).Normalize()
	a, node := newAnim(0, 100, cfg)

	for i := 0; i < 5000; i++ {
		_, idle := Advance(a, node, 16.7, nil)
		if got := node.Value(0); got > 100+1e-9 {
			t.Fatalf("bouncing spring escaped past goal: %v", got)
		}
		if idle {
			return
		}
	}
	t.Fatal("animation did not settle")
}

func TestDefaultSpringMonotonicRest(t *testing.T) {
	a, node := newAnim(0, 100, nil)

	prev := 0.0
	frames := 0
	for i := 0; i < 2000; i++ {
		_, idle := Advance(a, node, 16.7, nil)
		got := node.Value(0)
		if got > 100+0.01 {
			t.Fatalf("frame %d: overshot to %v", i, got)
		}
		if got < prev-0.01 {
			t.Fatalf("frame %d: moved away from goal, %v -> %v", i, prev, got)
		}
		prev = got
		if idle {
			frames = i + 1
			break
		}
	}
	if frames == 0 {
		t.Fatal("animation did not settle")
	}
	if got := node.Value(0); math.Abs(got-100) > 0.1 {
		t.Errorf("expected rest within precision of 100, got %v", got)
	}
}

func TestDurationReachesGoalExactly(t *testing.T) {
	cfg := (&motion.Config{Duration: motion.Ptr(500)}).Normalize()
	a, node := newAnim(0, 100, cfg)

	for i := 0; i < 4; i++ {
		if _, idle := Advance(a, node, 100, nil); idle {
			t.Fatalf("finished early at frame %d", i)
		}
	}
	_, idle := Advance(a, node, 100, nil)
	if !idle {
		t.Fatal("expected completion once elapsed equals duration")
	}
	if got := node.Value(0); got != 100 {
		t.Errorf("expected exact goal 100, got %v", got)
	}
}

func TestDurationZeroFinishesFirstFrame(t *testing.T) {
	cfg := (&motion.Config{Duration: motion.Ptr(0)}).Normalize()
	a, node := newAnim(0, 100, cfg)

	_, idle := Advance(a, node, 0.5, nil)
	if !idle {
		t.Fatal("zero duration should finish on the first advance")
	}
	if got := node.Value(0); got != 100 {
		t.Errorf("expected snap to 100, got %v", got)
	}
}

func TestDurationProgressSeed(t *testing.T) {
	cfg := (&motion.Config{Duration: motion.Ptr(1000), Progress: 0.5}).Normalize()
	a, node := newAnim(0, 100, cfg)

	Advance(a, node, 100, nil)

	// p = 0.5 + 0.5*(100/1000)
	want := 55.0
	if got := node.Value(0); math.Abs(got-want) > 1e-9 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDecayApproachesAsymptote(t *testing.T) {
	cfg := (&motion.Config{Decay: motion.Ptr(motion.DecayDefault)}).Normalize()
	a, node := newAnim(0, 0, cfg)
	a.Channels[0] = NewChannel(0, 2)

	// Asymptote: from + seed/(1-rate) = 1000.
	prev := 0.0
	settled := false
	for i := 0; i < 1000; i++ {
		_, idle := Advance(a, node, 16, nil)
		got := node.Value(0)
		if got < prev-1e-9 {
			t.Fatalf("decay moved backwards: %v -> %v", prev, got)
		}
		if got > 1000+1e-9 {
			t.Fatalf("decay passed asymptote: %v", got)
		}
		prev = got
		if idle {
			settled = true
			break
		}
	}
	if !settled {
		t.Fatal("decay did not rest")
	}
	if prev < 990 {
		t.Errorf("expected rest near 1000, got %v", prev)
	}
}

func TestDecayCustomRate(t *testing.T) {
	cfg := (&motion.Config{Decay: motion.Ptr(0.99)}).Normalize()
	a, node := newAnim(0, 0, cfg)
	a.Channels[0] = NewChannel(0, 5)

	run(t, a, node, 16, 5000)

	// Asymptote: 5/(1-0.99) = 500.
	if got := node.Value(0); got < 490 || got > 500 {
		t.Errorf("expected rest near 500, got %v", got)
	}
}

func TestNaNForcesChannelDone(t *testing.T) {
	a, node := newAnim(0, 100, nil)
	a.Channels[0].Velocity = math.NaN()

	var faulted []int
	changed, idle := Advance(a, node, 16.7, func(i int) { faulted = append(faulted, i) })

	if !slices.Equal(faulted, []int{0}) {
		t.Fatalf("expected fault on channel 0, got %v", faulted)
	}
	if changed {
		t.Error("a faulted channel must not report a change")
	}
	if !idle {
		t.Error("single faulted channel should leave the animation idle")
	}
	if got := node.Value(0); got != 0 {
		t.Errorf("position should stay at last good value, got %v", got)
	}
	if !a.Channels[0].Done {
		t.Error("faulted channel must be done")
	}
}

func TestRoundQuantizesWrites(t *testing.T) {
	cfg := (&motion.Config{Round: motion.Ptr(1)}).Normalize()
	a, node := newAnim(0, 10, cfg)

	for i := 0; i < 2000; i++ {
		_, idle := Advance(a, node, 16.7, nil)
		if got := node.Value(0); got != math.Round(got) {
			t.Fatalf("non-quantized value %v", got)
		}
		if idle {
			return
		}
	}
	t.Fatal("animation did not settle")
}

func TestImmediateSnaps(t *testing.T) {
	a, node := newAnim(0, 42, nil)
	a.Immediate = true

	changed, idle := Advance(a, node, 16.7, nil)
	if !changed || !idle {
		t.Fatalf("immediate advance: changed=%v idle=%v", changed, idle)
	}
	if got := node.Value(0); got != 42 {
		t.Errorf("expected 42, got %v", got)
	}
}

type fakeSource struct {
	values []float64
	idle   bool
}

func (f *fakeSource) Get() []float64             { return slices.Clone(f.values) }
func (f *fakeSource) Idle() bool                 { return f.idle }
func (f *fakeSource) Priority() int              { return 0 }
func (f *fakeSource) AddChild(fluid.Observer)    {}
func (f *fakeSource) RemoveChild(fluid.Observer) {}

func TestLiveGoalWaitsForSource(t *testing.T) {
	src := &fakeSource{values: []float64{50}}
	a, node := newAnim(0, 0, nil)
	a.ToSource = src

	for i := 0; i < 1000; i++ {
		if _, idle := Advance(a, node, 16.7, nil); idle {
			t.Fatalf("frame %d: finished while the source was still busy", i)
		}
	}
	if got := node.Value(0); math.Abs(got-50) > 0.1 {
		t.Fatalf("expected convergence near 50, got %v", got)
	}

	src.idle = true
	if _, idle := Advance(a, node, 16.7, nil); !idle {
		t.Error("expected completion once the source went idle")
	}
}
