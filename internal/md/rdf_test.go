package md

import (
	"math"
	"math/rand"
	"testing"
)

func TestRDFIdealGas(t *testing.T) {
	// Uniform random positions are the ideal gas: g(r) must be ~1
	// everywhere the statistics are decent.
	n := 400
	box := 8.0
	rng := rand.New(rand.NewSource(17))
	pos := make([]float64, 3*n)
	for i := range pos {
		pos[i] = rng.Float64() * box
	}

	bins := 20
	rAxis, g := RDF(pos, n, box, bins)
	if len(rAxis) != bins || len(g) != bins {
		t.Fatalf("got %d radii, %d values, want %d", len(rAxis), len(g), bins)
	}

	sum := 0.0
	count := 0
	for k := 5; k < bins; k++ {
		if g[k] < 0.7 || g[k] > 1.3 {
			t.Errorf("bin %d (r=%.2f): g=%.3f, want ~1", k, rAxis[k], g[k])
		}
		sum += g[k]
		count++
	}
	if mean := sum / float64(count); math.Abs(mean-1.0) > 0.05 {
		t.Fatalf("mean g over outer bins = %.3f, want 1 within 5%%", mean)
	}
}

func TestRDFAxis(t *testing.T) {
	pos := []float64{0, 0, 0, 1, 0, 0}
	rAxis, _ := RDF(pos, 2, 10.0, 25)

	dr := 10.0 / 2.0 / 25.0
	for k, r := range rAxis {
		want := (float64(k) + 0.5) * dr
		if math.Abs(r-want) > 1e-12 {
			t.Fatalf("bin %d center = %g, want %g", k, r, want)
		}
	}
}

func TestRDFCountsNearestNeighborPair(t *testing.T) {
	// Two particles at distance 1 across the periodic boundary: the
	// minimum-image distance is 1, not box-1.
	box := 10.0
	pos := []float64{0.5, 0, 0, box - 0.5, 0, 0}
	rAxis, g := RDF(pos, 2, box, 25)

	hot := 0
	for k := range g {
		if g[k] > 0 {
			hot = k
		}
	}
	if math.Abs(rAxis[hot]-1.0) > 0.2 {
		t.Fatalf("pair landed at r=%.2f, want ~1.0", rAxis[hot])
	}
}

func BenchmarkComputeForces(b *testing.B) {
	p := DefaultParams()
	p.Cells = 6
	p.Temps = []float64{0.2}
	s, err := NewSystem(p)
	if err != nil {
		b.Fatal(err)
	}
	s.DrawVelocities(1.0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.ComputeForces()
	}
}

func BenchmarkRDF(b *testing.B) {
	p := DefaultParams()
	p.Cells = 6
	p.Temps = []float64{0.2}
	s, err := NewSystem(p)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		RDF(s.pos, s.N, s.Box, p.RDFBins)
	}
}
