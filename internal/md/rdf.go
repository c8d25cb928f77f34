package md

import "math"

// RDF computes the radial distribution function g(r) of a configuration:
// a histogram of all distinct minimum-image pair distances up to box/2,
// normalized by the ideal-gas expectation. The normalization divides the
// i<j pair counts by shellVolume * rho * N/2, which is exactly the ideal
// pair count per shell, so g(r) -> 1 at large r for an uncorrelated gas.
// Returns bin-center radii and g values.
func RDF(pos []float64, n int, box float64, bins int) ([]float64, []float64) {
	rMax := box / 2.0
	dr := rMax / float64(bins)
	hist := make([]float64, bins)

	for i := 0; i < n-1; i++ {
		xi, yi, zi := pos[3*i], pos[3*i+1], pos[3*i+2]
		for j := i + 1; j < n; j++ {
			dx := minimumImage(pos[3*j]-xi, box)
			dy := minimumImage(pos[3*j+1]-yi, box)
			dz := minimumImage(pos[3*j+2]-zi, box)
			r := math.Sqrt(dx*dx + dy*dy + dz*dz)
			if r < rMax {
				hist[int(r/dr)]++
			}
		}
	}

	rho := float64(n) / (box * box * box)
	rAxis := make([]float64, bins)
	g := make([]float64, bins)
	for k := 0; k < bins; k++ {
		r := (float64(k) + 0.5) * dr
		rAxis[k] = r
		shell := 4.0 * math.Pi * r * r * dr
		nIdeal := shell * rho
		g[k] = hist[k] / (nIdeal * float64(n) * 0.5)
	}
	return rAxis, g
}
