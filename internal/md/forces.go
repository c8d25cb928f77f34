package md

import "math"

// minimumImage maps a displacement component onto its nearest periodic
// replica.
func minimumImage(d, box float64) float64 {
	return d - box*math.Round(d/box)
}

// ComputeForces evaluates the truncated Lennard-Jones force on every
// particle and returns the total potential energy. All-pairs with a hard
// cutoff: pairs at minimum-image distance >= rc contribute nothing, and the
// strictly-positive distance filter keeps coincident images out of the
// denominator. O(N^2) per call; the dominant cost of a run.
func (s *System) ComputeForces() float64 {
	for i := range s.frc {
		s.frc[i] = 0
	}
	sigma2 := s.sigma * s.sigma
	pot := 0.0

	for i := 0; i < s.N-1; i++ {
		xi, yi, zi := s.pos[3*i], s.pos[3*i+1], s.pos[3*i+2]
		fxi, fyi, fzi := 0.0, 0.0, 0.0

		for j := i + 1; j < s.N; j++ {
			dx := minimumImage(s.pos[3*j]-xi, s.Box)
			dy := minimumImage(s.pos[3*j+1]-yi, s.Box)
			dz := minimumImage(s.pos[3*j+2]-zi, s.Box)
			dist2 := dx*dx + dy*dy + dz*dz
			if dist2 >= s.rc2 || dist2 <= 0 {
				continue
			}

			invR2 := sigma2 / dist2
			invR6 := invR2 * invR2 * invR2
			invR12 := invR6 * invR6
			fScalar := 24.0 * s.eps * (2.0*invR12 - invR6) / dist2

			fx, fy, fz := fScalar*dx, fScalar*dy, fScalar*dz
			// fScalar > 0 is repulsive; dx points from i to j, so i is
			// pushed along -d and j along +d.
			fxi -= fx
			fyi -= fy
			fzi -= fz
			s.frc[3*j] += fx
			s.frc[3*j+1] += fy
			s.frc[3*j+2] += fz

			pot += 4.0 * s.eps * (invR12 - invR6)
		}

		s.frc[3*i] += fxi
		s.frc[3*i+1] += fyi
		s.frc[3*i+2] += fzi
	}
	return pot
}
