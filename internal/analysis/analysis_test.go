package analysis

import (
	"math"
	"testing"
)

func TestVarianceSeries(t *testing.T) {
	// Two frames of four cells: flat then split.
	frames := []float64{
		0.5, 0.5, 0.5, 0.5,
		0, 1, 0, 1,
	}
	v, err := VarianceSeries(frames, 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	if v[0] != 0 {
		t.Errorf("flat frame variance = %g, want 0", v[0])
	}
	if v[1] <= v[0] {
		t.Errorf("split frame variance %g not above flat %g", v[1], v[0])
	}

	if _, err := VarianceSeries(frames, 3, 4); err == nil {
		t.Error("expected an error for a frame count that does not tile")
	}
}

func TestStructureFactorPicksDominantMode(t *testing.T) {
	n := 32
	mode := 4
	frame := make([]float64, n*n)
	for i := 0; i < n; i++ {
		v := math.Cos(2 * math.Pi * float64(mode) * float64(i) / float64(n))
		for j := 0; j < n; j++ {
			frame[i*n+j] = v
		}
	}

	sk, err := StructureFactor(frame, n)
	if err != nil {
		t.Fatal(err)
	}
	peak := 1
	for k := 2; k < len(sk); k++ {
		if sk[k] > sk[peak] {
			peak = k
		}
	}
	if peak != mode {
		t.Fatalf("structure factor peaks at ring %d, want %d", peak, mode)
	}
}

func TestStructureFactorRejectsBadFrame(t *testing.T) {
	if _, err := StructureFactor(make([]float64, 10), 4); err == nil {
		t.Error("expected an error for a non-square frame")
	}
}

func TestCuriePoint(t *testing.T) {
	// Synthetic ordered-then-disordered curve: steepest drop across 600 K.
	temps := []float64{0, 200, 400, 600, 800, 1000}
	mags := []float64{1.0, 0.98, 0.95, 0.40, 0.10, 0.05}

	tc, err := CuriePoint(temps, mags)
	if err != nil {
		t.Fatal(err)
	}
	if tc != 500 {
		t.Fatalf("Curie estimate = %g, want 500 (midpoint of 400..600)", tc)
	}
}

func TestCuriePointFlatCurve(t *testing.T) {
	temps := []float64{0, 100, 200}
	mags := []float64{1, 1, 1}
	if _, err := CuriePoint(temps, mags); err == nil {
		t.Error("expected an error when the curve never drops")
	}
}

func TestMSDRatio(t *testing.T) {
	r, err := MSDRatio([]float64{0.01, 0.02, 1.5})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(r-150) > 1e-9 {
		t.Fatalf("ratio = %g, want 150", r)
	}

	// Zero initial MSD must not produce NaN.
	if r, err = MSDRatio([]float64{0, 1}); err != nil || math.IsNaN(r) || r <= 0 {
		t.Fatalf("ratio from zero start = %g, err %v; want a positive value", r, err)
	}

	if _, err := MSDRatio([]float64{1}); err == nil {
		t.Error("expected an error for a single sample")
	}
}
