package phasefield

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/mjibson/go-dsp/fft"
)

// FreeEnergy is the derivative f'(c) of the local free-energy density,
// injected per run so the solver stays functional-agnostic.
type FreeEnergy func(c float64) float64

// DoubleWell returns f'(c) = A (c^3 - c): spinodal instability around c=0,
// metastable for 1/sqrt(3) < |c| < 1.
func DoubleWell(a float64) FreeEnergy {
	return func(c float64) float64 { return a * (c*c*c - c) }
}

// SingleWell returns f'(c) = A c: a stable well that relaxes any
// fluctuation back to the mean.
func SingleWell(a float64) FreeEnergy {
	return func(c float64) float64 { return a * c }
}

// Params configures one Cahn-Hilliard integration.
type Params struct {
	Nx, Ny   int
	Dx       float64
	Dt       float64
	Kappa    float64 // interface energy coefficient
	Mobility float64

	Baseline float64 // mean concentration of the initial condition
	Noise    float64 // uniform noise amplitude around the baseline
	Damping  float64 // gamma >= 0; 0 disables the Fourier damping

	Seed int64
}

func (p Params) validate() error {
	if p.Nx <= 0 || p.Ny <= 0 {
		return fmt.Errorf("phasefield: grid must be positive, got %dx%d", p.Nx, p.Ny)
	}
	if p.Dx <= 0 || p.Dt <= 0 {
		return fmt.Errorf("phasefield: dx and dt must be positive")
	}
	if p.Kappa <= 0 || p.Mobility <= 0 {
		return fmt.Errorf("phasefield: kappa and mobility must be positive")
	}
	if p.Damping < 0 {
		return fmt.Errorf("phasefield: damping must be non-negative, got %g", p.Damping)
	}
	return nil
}

// Solver integrates the conserved-order-parameter equation
//
//	dc/dt = M lap( f'(c) - kappa lap c )
//
// with a semi-implicit spectral scheme: the stiff biharmonic term is folded
// into the denominator, the nonlinear term stays explicit. The state lives
// in Fourier space between steps.
type Solver struct {
	nx, ny int
	dt     float64
	kappa  float64
	mob    float64

	k2     [][]float64
	damp   [][]float64 // per-mode multiplier, nil when damping is off
	cHat   [][]complex128
	fprime FreeEnergy
}

// NewSolver initializes the field as Baseline plus small uniform noise and
// transforms it to Fourier space.
func NewSolver(p Params, f FreeEnergy) (*Solver, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("phasefield: nil free-energy derivative")
	}

	s := &Solver{
		nx:     p.Nx,
		ny:     p.Ny,
		dt:     p.Dt,
		kappa:  p.Kappa,
		mob:    p.Mobility,
		k2:     kSquaredGrid(p.Nx, p.Ny, p.Dx),
		fprime: f,
	}

	rng := rand.New(rand.NewSource(p.Seed))
	c := newComplexGrid(p.Nx, p.Ny)
	for i := range c {
		for j := range c[i] {
			c[i][j] = complex(p.Baseline+p.Noise*(rng.Float64()-0.5), 0)
		}
	}
	s.cHat = fft.FFT2(c)

	if p.Damping > 0 {
		// exp(-gamma k^2 dt) per step: suppresses short-wavelength noise,
		// leaves the k=0 mode (the mean) untouched.
		s.damp = make([][]float64, p.Nx)
		for i := range s.damp {
			s.damp[i] = make([]float64, p.Ny)
			for j := range s.damp[i] {
				s.damp[i][j] = math.Exp(-p.Damping * s.k2[i][j] * p.Dt)
			}
		}
	}
	return s, nil
}

// Field returns the real-space concentration field.
func (s *Solver) Field() [][]float64 {
	c := fft.IFFT2(s.cHat)
	out := make([][]float64, s.nx)
	for i := range out {
		out[i] = make([]float64, s.ny)
		for j := range out[i] {
			out[i][j] = real(c[i][j])
		}
	}
	return out
}

// Mean returns the spatial mean concentration, read off the k=0 mode.
// Conserved to numerical precision at every step.
func (s *Solver) Mean() float64 {
	return real(s.cHat[0][0]) / float64(s.nx*s.ny)
}

// Step advances one dt:
//
//	mu      = f'(c) - kappa lap c          (real space)
//	cHat    = (cHat - dt M k^2 muHat) / (1 + dt M kappa k^4)
//
// The k=0 denominator is exactly 1, so the mean never moves.
func (s *Solver) Step() {
	cReal := fft.IFFT2(s.cHat)

	lapHat := newComplexGrid(s.nx, s.ny)
	for i := range lapHat {
		for j := range lapHat[i] {
			lapHat[i][j] = complex(s.k2[i][j], 0) * s.cHat[i][j]
		}
	}
	lap := fft.IFFT2(lapHat)

	mu := newComplexGrid(s.nx, s.ny)
	for i := range mu {
		for j := range mu[i] {
			mu[i][j] = complex(s.fprime(real(cReal[i][j]))-s.kappa*real(lap[i][j]), 0)
		}
	}
	muHat := fft.FFT2(mu)

	dtM := s.dt * s.mob
	for i := range s.cHat {
		for j := range s.cHat[i] {
			k2 := s.k2[i][j]
			num := s.cHat[i][j] - complex(dtM*k2, 0)*muHat[i][j]
			s.cHat[i][j] = num / complex(1.0+dtM*s.kappa*k2*k2, 0)
			if s.damp != nil {
				s.cHat[i][j] *= complex(s.damp[i][j], 0)
			}
		}
	}
}
