package trace

import "slices"

// Sample is one observed point of an animation run.
type Sample struct {
	T      float64
	Values []float64
}

// Recorder accumulates samples as an animation is ticked.
type Recorder struct {
	samples []Sample
	t       float64
}

func NewRecorder() *Recorder {
	return &Recorder{samples: make([]Sample, 0, 256)}
}

func (r *Recorder) Observe(dt float64, values []float64) {
	r.t += dt
	r.samples = append(r.samples, Sample{T: r.t, Values: slices.Clone(values)})
}

func (r *Recorder) Samples() []Sample { return r.samples }

func (r *Recorder) Len() int { return len(r.samples) }

// Series extracts one channel as a flat slice, for plotting.
func (r *Recorder) Series(channel int) []float64 {
	out := make([]float64, 0, len(r.samples))
	for _, s := range r.samples {
		if channel < len(s.Values) {
			out = append(out, s.Values[channel])
		}
	}
	return out
}
