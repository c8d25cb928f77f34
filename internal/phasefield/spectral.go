package phasefield

import "math"

// Wavenumbers returns the angular wavenumbers 2*pi*f for an n-point DFT
// with sample spacing d, in standard FFT ordering (non-negative frequencies
// first, then negative).
func Wavenumbers(n int, d float64) []float64 {
	k := make([]float64, n)
	scale := 2.0 * math.Pi / (float64(n) * d)
	half := (n - 1) / 2
	for i := 0; i <= half; i++ {
		k[i] = scale * float64(i)
	}
	for i := half + 1; i < n; i++ {
		k[i] = scale * float64(i-n)
	}
	return k
}

// kSquaredGrid precomputes kx^2 + ky^2 for every mode. Kept in float64:
// k^4 appears in the implicit denominator and would overflow reduced
// precision on large grids.
func kSquaredGrid(nx, ny int, d float64) [][]float64 {
	kx := Wavenumbers(nx, d)
	ky := Wavenumbers(ny, d)
	k2 := make([][]float64, nx)
	for i := range k2 {
		k2[i] = make([]float64, ny)
		for j := range k2[i] {
			k2[i][j] = kx[i]*kx[i] + ky[j]*ky[j]
		}
	}
	return k2
}

func newComplexGrid(nx, ny int) [][]complex128 {
	g := make([][]complex128, nx)
	for i := range g {
		g[i] = make([]complex128, ny)
	}
	return g
}
