package ising

import (
	"context"
	"math"
	"math/rand"
	"testing"
)

func randomLattice(l int, seed int64) *Lattice {
	lat := NewLattice(l)
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < l; i++ {
		for j := 0; j < l; j++ {
			if rng.Float64() < 0.5 {
				lat.flip(i, j)
			}
		}
	}
	return lat
}

func TestDeltaEMatchesEnergyDifference(t *testing.T) {
	lat := randomLattice(16, 7)
	rng := rand.New(rand.NewSource(11))

	for k := 0; k < 200; k++ {
		i := rng.Intn(lat.L)
		j := rng.Intn(lat.L)

		before := lat.Energy()
		dE := deltaE(lat, i, j)
		lat.flip(i, j)
		after := lat.Energy()
		lat.flip(i, j)

		if math.Abs((after-before)-dE) > 1e-12 {
			t.Fatalf("site (%d,%d): deltaE=%g, energy difference=%g", i, j, dE, after-before)
		}
	}
}

func TestSweepKeepsSpinsValid(t *testing.T) {
	lat := NewLattice(16)
	s := NewSampler(1.0, 1.0, 3)

	for k := 0; k < 50; k++ {
		s.Sweep(lat, s.Beta(2.0))
	}
	if !lat.Valid() {
		t.Fatal("lattice left {-1,+1} after sweeps")
	}
	if m := lat.Magnetization(); m < -1 || m > 1 {
		t.Fatalf("magnetization %g out of [-1,1]", m)
	}
}

func TestZeroTemperatureStaysAligned(t *testing.T) {
	lat := NewLattice(16)
	s := NewSampler(CouplingFromCurie(1043), 1.0, 5)

	m := s.Measure(lat, s.Beta(0), 20, 10)
	if m != 1.0 {
		t.Fatalf("at T=0 from a uniform start, |M| = %g, want exactly 1", m)
	}
	for i := 0; i < lat.L; i++ {
		for j := 0; j < lat.L; j++ {
			if lat.At(i, j) != 1 {
				t.Fatalf("spin (%d,%d) flipped at T=0", i, j)
			}
		}
	}
}

func TestHighTemperatureDisorders(t *testing.T) {
	lat := NewLattice(24)
	s := NewSampler(1.0, 1.0, 9)

	// T far above Tc=2.269 in units of J.
	m := s.Measure(lat, s.Beta(50.0), 100, 100)
	if m > 0.3 {
		t.Fatalf("|M| = %g at T >> Tc, want near 0", m)
	}
}

func TestLowTemperatureOrders(t *testing.T) {
	lat := NewLattice(16)
	s := NewSampler(1.0, 1.0, 13)

	m := s.Measure(lat, s.Beta(1.0), 200, 100)
	if m < 0.9 {
		t.Fatalf("|M| = %g at T << Tc, want near 1", m)
	}
}

func TestRunProducesOneRecordPerTemperature(t *testing.T) {
	p := Params{
		L:          8,
		J:          1.0,
		KB:         1.0,
		Temps:      []float64{0, 1, 2, 3, 4},
		EqSweeps:   10,
		MeasSweeps: 5,
		Seed:       42,
	}
	res, err := Run(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Points) != len(p.Temps) || len(res.Snapshots) != len(p.Temps) {
		t.Fatalf("got %d points, %d snapshots, want %d each",
			len(res.Points), len(res.Snapshots), len(p.Temps))
	}
	for i, pt := range res.Points {
		if pt.T != p.Temps[i] {
			t.Errorf("point %d at T=%g, want %g", i, pt.T, p.Temps[i])
		}
		if pt.M < 0 || pt.M > 1 {
			t.Errorf("point %d: |M| = %g out of [0,1]", i, pt.M)
		}
	}
	for _, snap := range res.Snapshots {
		if len(snap.Spins) != p.L*p.L {
			t.Fatalf("snapshot has %d spins, want %d", len(snap.Spins), p.L*p.L)
		}
	}
}

func TestRunRejectsDegenerateParams(t *testing.T) {
	base := Params{L: 8, J: 1, KB: 1, Temps: []float64{1, 2}, EqSweeps: 1, MeasSweeps: 1}

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"zero lattice", func(p *Params) { p.L = 0 }},
		{"negative coupling", func(p *Params) { p.J = -1 }},
		{"empty schedule", func(p *Params) { p.Temps = nil }},
		{"descending schedule", func(p *Params) { p.Temps = []float64{2, 1} }},
		{"zero measurement sweeps", func(p *Params) { p.MeasSweeps = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			if _, err := Run(context.Background(), p); err == nil {
				t.Error("expected a configuration error")
			}
		})
	}
}
