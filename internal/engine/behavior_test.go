package engine

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kinetic/internal/fluid"
	"github.com/san-kum/kinetic/internal/motion"
)

var _ = Describe("Value", func() {
	var v *Value

	BeforeEach(func() {
		v = New(Scalar(0))
	})

	tick := func(frames int) {
		for i := 0; i < frames; i++ {
			v.Advance(16.7)
		}
	}

	settle := func() {
		for i := 0; i < 2000 && !v.Idle(); i++ {
			v.Advance(16.7)
		}
		Expect(v.Idle()).To(BeTrue(), "value should settle")
	}

	Describe("range handling", func() {
		It("swaps endpoints on reverse", func() {
			_, err := v.Start(Update{From: Scalar(100), To: Scalar(0), Reverse: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Get()[0]).To(BeZero())

			settle()
			Expect(v.Get()[0]).To(Equal(100.0))
		})

		It("restarts from the stored from value on reset", func() {
			v.Start(Update{From: Scalar(10), To: Scalar(100)}) //nolint:errcheck
			settle()

			h, err := v.Reset()
			Expect(err).NotTo(HaveOccurred())
			Expect(v.Get()[0]).To(Equal(10.0), "reset snaps before the first frame")

			settle()
			Expect(h.Result().Finished).To(BeTrue())
			Expect(v.Get()[0]).To(Equal(100.0))
		})

		It("restarts a settled animation when the velocity seed changes", func() {
			v.Start(Update{To: Scalar(100)}) //nolint:errcheck
			settle()

			h, err := v.Start(Update{To: Scalar(100), Config: &motion.Config{Velocity: []float64{1}}})
			Expect(err).NotTo(HaveOccurred())
			Expect(v.IsAnimating()).To(BeTrue())

			settle()
			Expect(h.Result().Finished).To(BeTrue())
			Expect(v.Get()[0]).To(Equal(100.0))
		})
	})

	Describe("lifecycle callbacks", func() {
		It("fires onStart before the first onChange", func() {
			var events []string
			v.Start(Update{ //nolint:errcheck
				To:      Scalar(50),
				OnStart: func(*Value) { events = append(events, "start") },
				OnChange: func(*Value, []float64) {
					if len(events) < 2 {
						events = append(events, "change")
					}
				},
			})
			tick(2)
			Expect(events).To(Equal([]string{"start", "change"}))
		})

		It("fires onPause and onResume for the active update", func() {
			var events []string
			v.Start(Update{ //nolint:errcheck
				To:       Scalar(100),
				OnPause:  func(*Value) { events = append(events, "pause") },
				OnResume: func(*Value) { events = append(events, "resume") },
			})
			tick(3)

			v.Pause()
			v.Resume()
			Expect(events).To(Equal([]string{"pause", "resume"}))
			settle()
		})

		It("invokes onProps at submission", func() {
			seen := false
			v.Start(Update{To: Scalar(5), OnProps: func(*Update) { seen = true }}) //nolint:errcheck
			Expect(seen).To(BeTrue())
			settle()
		})
	})

	Describe("pause gating", func() {
		It("gates an update carrying pause until resume", func() {
			h, err := v.Start(Update{To: Scalar(25), Pause: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(v.IsPaused()).To(BeTrue())
			Expect(h.Resolved()).To(BeFalse())

			v.Resume()
			settle()
			Expect(h.Result().Finished).To(BeTrue())
			Expect(v.Get()[0]).To(Equal(25.0))
		})

		It("releases gated updates in submission order", func() {
			v.Pause()
			h1, _ := v.Start(Update{To: Scalar(10)})
			h2, _ := v.Start(Update{To: Scalar(40)})

			v.Resume()
			settle()
			Expect(h1.Result().Cancelled).To(BeTrue(), "first gated update is superseded")
			Expect(h2.Result().Finished).To(BeTrue())
			Expect(v.Get()[0]).To(Equal(40.0))
		})
	})

	Describe("async sequences", func() {
		It("short-circuits a chain on cancel", func() {
			h, err := v.Start(Update{Chain: []Update{
				{To: Scalar(50)},
				{To: Scalar(200)},
			}})
			Expect(err).NotTo(HaveOccurred())

			Eventually(v.IsAnimating).WithTimeout(time.Second).WithPolling(time.Millisecond).Should(BeTrue())
			v.Stop(true)

			Eventually(h.Resolved).WithTimeout(time.Second).WithPolling(time.Millisecond).Should(BeTrue())
			Expect(h.Result().Cancelled).To(BeTrue())
			Expect(v.Get()[0]).To(BeNumerically("<", 50))
		})
	})

	Describe("decay", func() {
		It("finish leaves a decay wherever it is, its goal being implicit", func() {
			h, err := v.Start(Update{To: Scalar(0), Config: &motion.Config{
				Decay:    motion.Ptr(motion.DecayDefault),
				Velocity: []float64{2},
			}})
			Expect(err).NotTo(HaveOccurred())
			tick(5)

			at := v.Get()[0]
			Expect(at).To(BeNumerically(">", 0))

			v.Finish()
			Expect(v.Get()[0]).To(Equal(at))
			Expect(h.Result().Finished).To(BeTrue())
		})
	})

	Describe("interpolated payloads", func() {
		It("animates the numeric components and renders the result", func() {
			v = New(Interpolated(fluid.NewTemplate("%.0fpx", 0)))
			_, err := v.Start(Update{To: Interpolated(fluid.NewTemplate("%.0fpx", 80))})
			Expect(err).NotTo(HaveOccurred())

			settle()
			Expect(v.String()).To(Equal("80px"))
		})
	})
})
