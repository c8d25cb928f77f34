package md

import (
	"fmt"
	"math"
	"math/rand"
)

// Params configures a Lennard-Jones melting run. Quantities are in reduced
// LJ units (epsilon = sigma = mass = kB = 1 for the defaults).
type Params struct {
	Cells        int     // unit cells per box edge; N = Cells^3
	LatticeConst float64 // initial lattice spacing, also sets the box: L = Cells * a
	Mass         float64
	Dt           float64
	Epsilon      float64
	Sigma        float64
	Cutoff       float64 // rc; pairs at or beyond contribute nothing
	VMax         float64 // velocity clamp, guards against blow-up

	Temps        []float64 // ascending target temperatures
	StepsPerTemp int
	RecordEvery  int
	RDFBins      int
	Seed         int64
}

func DefaultParams() Params {
	return Params{
		Cells:        6,
		LatticeConst: 1.0,
		Mass:         1.0,
		Dt:           0.001,
		Epsilon:      1.0,
		Sigma:        1.0,
		Cutoff:       2.5,
		VMax:         100.0,
		StepsPerTemp: 400,
		RecordEvery:  50,
		RDFBins:      50,
	}
}

func (p Params) validate() error {
	if p.Cells <= 0 {
		return fmt.Errorf("md: cells must be positive, got %d", p.Cells)
	}
	if p.LatticeConst <= 0 || p.Mass <= 0 || p.Dt <= 0 {
		return fmt.Errorf("md: lattice constant, mass and dt must be positive")
	}
	if p.Cutoff <= 0 || p.Sigma <= 0 || p.Epsilon <= 0 {
		return fmt.Errorf("md: LJ parameters must be positive")
	}
	if len(p.Temps) == 0 {
		return fmt.Errorf("md: empty temperature schedule")
	}
	for i := 1; i < len(p.Temps); i++ {
		if p.Temps[i] < p.Temps[i-1] {
			return fmt.Errorf("md: temperature schedule must ascend (index %d)", i)
		}
	}
	if p.Temps[0] <= 0 {
		return fmt.Errorf("md: initial temperature must be positive, got %g", p.Temps[0])
	}
	if p.StepsPerTemp <= 0 || p.RecordEvery <= 0 || p.RDFBins <= 0 {
		return fmt.Errorf("md: steps, record interval and rdf bins must be positive")
	}
	return nil
}

// System is the mutable MD state: N particles in a periodic cubic box, with
// positions, velocities and forces in flat [x0 y0 z0 x1 ...] layout.
type System struct {
	N    int
	Box  float64
	dt   float64
	mass float64

	eps   float64
	sigma float64
	rc2   float64
	vmax  float64

	pos  []float64
	vel  []float64
	frc  []float64
	pos0 []float64 // reference configuration for the MSD

	rng *rand.Rand
}

// NewSystem places Cells^3 particles on a regular cubic lattice and draws
// velocities from a Maxwell-Boltzmann distribution at the first target
// temperature.
func NewSystem(p Params) (*System, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	n := p.Cells * p.Cells * p.Cells
	s := &System{
		N:     n,
		Box:   float64(p.Cells) * p.LatticeConst,
		dt:    p.Dt,
		mass:  p.Mass,
		eps:   p.Epsilon,
		sigma: p.Sigma,
		rc2:   p.Cutoff * p.Cutoff,
		vmax:  p.VMax,
		pos:   make([]float64, 3*n),
		vel:   make([]float64, 3*n),
		frc:   make([]float64, 3*n),
		pos0:  make([]float64, 3*n),
		rng:   rand.New(rand.NewSource(p.Seed)),
	}

	idx := 0
	for i := 0; i < p.Cells; i++ {
		for j := 0; j < p.Cells; j++ {
			for k := 0; k < p.Cells; k++ {
				s.pos[idx] = float64(i) * p.LatticeConst
				s.pos[idx+1] = float64(j) * p.LatticeConst
				s.pos[idx+2] = float64(k) * p.LatticeConst
				idx += 3
			}
		}
	}
	copy(s.pos0, s.pos)

	s.DrawVelocities(p.Temps[0])
	return s, nil
}

// DrawVelocities resamples all velocities from a Maxwell-Boltzmann
// distribution at temperature T.
func (s *System) DrawVelocities(T float64) {
	scale := math.Sqrt(T / s.mass)
	for i := range s.vel {
		s.vel[i] = s.rng.NormFloat64() * scale
	}
}

// Positions returns a copy of the current positions.
func (s *System) Positions() []float64 {
	out := make([]float64, len(s.pos))
	copy(out, s.pos)
	return out
}

// KineticEnergy returns 0.5 m sum(v^2).
func (s *System) KineticEnergy() float64 {
	sum := 0.0
	for _, v := range s.vel {
		sum += v * v
	}
	return 0.5 * s.mass * sum
}

// Temperature returns the instantaneous kinetic temperature 2 KE / (3N).
func (s *System) Temperature() float64 {
	return 2.0 * s.KineticEnergy() / (3.0 * float64(s.N))
}
