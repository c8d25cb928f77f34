package metrics

import (
	"math"
	"testing"
)

func TestRunningMean(t *testing.T) {
	var m RunningMean
	if m.Value() != 0 {
		t.Fatalf("empty mean = %g, want 0", m.Value())
	}
	for _, v := range []float64{1, 2, 3, 4} {
		m.Add(v)
	}
	if m.Value() != 2.5 || m.Samples() != 4 {
		t.Fatalf("mean = %g over %d samples, want 2.5 over 4", m.Value(), m.Samples())
	}
	m.Reset()
	if m.Value() != 0 || m.Samples() != 0 {
		t.Fatal("Reset did not clear the accumulator")
	}
}

func TestDrift(t *testing.T) {
	var d Drift
	d.Observe(2.0)
	if d.Value() != 0 {
		t.Fatalf("drift after first sample = %g, want 0", d.Value())
	}
	d.Observe(2.2)
	d.Observe(2.1)
	if math.Abs(d.Value()-0.1) > 1e-12 {
		t.Fatalf("drift = %g, want 0.1 (worst deviation, not last)", d.Value())
	}
}

func TestDriftFromZeroBaseline(t *testing.T) {
	// A conserved quantity that starts at zero uses an absolute scale.
	var d Drift
	d.Observe(0)
	d.Observe(1e-9)
	if v := d.Value(); v != 1e-9 {
		t.Fatalf("drift = %g, want 1e-9", v)
	}
}

func TestExtrema(t *testing.T) {
	var e Extrema
	for _, v := range []float64{0.3, -1.5, 2.0, 0.1} {
		e.Observe(v)
	}
	if e.Min() != -1.5 || e.Max() != 2.0 {
		t.Fatalf("range [%g, %g], want [-1.5, 2]", e.Min(), e.Max())
	}

	e.Reset()
	e.Observe(5)
	if e.Min() != 5 || e.Max() != 5 {
		t.Fatalf("single observation range [%g, %g], want [5, 5]", e.Min(), e.Max())
	}
}
