package metrics

import "math"

// RunningMean accumulates a streaming average (acceptance rates, mean |M|).
type RunningMean struct {
	sum     float64
	samples int
}

func (m *RunningMean) Add(v float64) {
	m.sum += v
	m.samples++
}

func (m *RunningMean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *RunningMean) Samples() int { return m.samples }

func (m *RunningMean) Reset() {
	m.sum = 0
	m.samples = 0
}

// Drift tracks the worst relative deviation of a conserved quantity from its
// first observed value. Used for mean-concentration conservation and the
// post-rescale temperature error.
type Drift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func (d *Drift) Observe(v float64) {
	if d.samples == 0 {
		d.initial = v
	}
	d.samples++

	denom := math.Abs(d.initial)
	if denom < 1e-300 {
		denom = 1
	}
	drift := math.Abs(v-d.initial) / denom
	if drift > d.maxDrift {
		d.maxDrift = drift
	}
}

func (d *Drift) Value() float64 { return d.maxDrift }

func (d *Drift) Reset() {
	d.initial = 0
	d.maxDrift = 0
	d.samples = 0
}

// Extrema tracks the range of an observable (field amplitude, particle speed).
type Extrema struct {
	min, max float64
	set      bool
}

func (e *Extrema) Observe(v float64) {
	if !e.set {
		e.min, e.max = v, v
		e.set = true
		return
	}
	if v < e.min {
		e.min = v
	}
	if v > e.max {
		e.max = v
	}
}

func (e *Extrema) Min() float64 { return e.min }
func (e *Extrema) Max() float64 { return e.max }

func (e *Extrema) Reset() {
	e.min, e.max = 0, 0
	e.set = false
}
