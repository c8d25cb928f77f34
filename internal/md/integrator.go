package md

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// rescaleFloor keeps the thermostat factor finite when the instantaneous
// temperature is ~0 (perfect lattice at the first step).
const rescaleFloor = 1e-9

// Step advances the system by one velocity-Verlet step: half-kick, drift
// with periodic wrap, force recomputation, half-kick. Velocities are clamped
// after each kick; together with the cutoff this is the only guard against
// the r->0 force singularity. Returns the potential energy at the new
// positions.
func (s *System) Step() float64 {
	half := 0.5 * s.dt / s.mass

	floats.AddScaled(s.vel, half, s.frc)
	s.clampVelocities()

	floats.AddScaled(s.pos, s.dt, s.vel)
	s.wrap()

	pot := s.ComputeForces()

	floats.AddScaled(s.vel, half, s.frc)
	s.clampVelocities()

	return pot
}

// Rescale applies the isokinetic thermostat: every velocity is scaled by
// sqrt(T_target / T_instantaneous), unconditionally. Crude, but it is the
// contract: immediately afterwards the kinetic temperature equals the
// target to floating-point accuracy.
func (s *System) Rescale(target float64) {
	cur := s.Temperature()
	floats.Scale(math.Sqrt(target/(cur+rescaleFloor)), s.vel)
}

func (s *System) clampVelocities() {
	for i, v := range s.vel {
		if v > s.vmax {
			s.vel[i] = s.vmax
		} else if v < -s.vmax {
			s.vel[i] = -s.vmax
		}
	}
}

// wrap maps every coordinate back into [0, Box).
func (s *System) wrap() {
	for i, x := range s.pos {
		m := math.Mod(x, s.Box)
		if m < 0 {
			m += s.Box
		}
		s.pos[i] = m
	}
}

// MSD returns the mean-squared displacement against the initial lattice,
// unwrapping each displacement component through the nearest periodic image
// before squaring.
func (s *System) MSD() float64 {
	sum := 0.0
	for i := 0; i < s.N; i++ {
		dx := minimumImage(s.pos[3*i]-s.pos0[3*i], s.Box)
		dy := minimumImage(s.pos[3*i+1]-s.pos0[3*i+1], s.Box)
		dz := minimumImage(s.pos[3*i+2]-s.pos0[3*i+2], s.Box)
		sum += dx*dx + dy*dy + dz*dz
	}
	return sum / float64(s.N)
}
