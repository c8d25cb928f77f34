package analysis

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// VarianceSeries returns the spatial variance of each frame in a stacked
// field series (nFrames frames of cells values each). Growing variance is
// the signature of spinodal decomposition; decay means the well is stable.
func VarianceSeries(frames []float64, nFrames, cells int) ([]float64, error) {
	if nFrames <= 0 || cells <= 0 || len(frames) != nFrames*cells {
		return nil, fmt.Errorf("analysis: %d values do not tile %d frames of %d cells",
			len(frames), nFrames, cells)
	}
	out := make([]float64, nFrames)
	for f := 0; f < nFrames; f++ {
		out[f] = stat.Variance(frames[f*cells:(f+1)*cells], nil)
	}
	return out, nil
}

// StructureFactor computes the radially averaged |c(k)|^2 of one square
// frame. The location of its peak tracks the characteristic domain size as
// coarsening proceeds. Returns one value per integer wavenumber ring,
// excluding k=0 (the mean).
func StructureFactor(frame []float64, n int) ([]float64, error) {
	if n <= 0 || len(frame) != n*n {
		return nil, fmt.Errorf("analysis: frame has %d values, want %d", len(frame), n*n)
	}

	grid := make([][]complex128, n)
	for i := range grid {
		grid[i] = make([]complex128, n)
		for j := range grid[i] {
			grid[i][j] = complex(frame[i*n+j], 0)
		}
	}
	cHat := fft.FFT2(grid)

	nBins := n / 2
	sum := make([]float64, nBins)
	count := make([]float64, nBins)
	for i := 0; i < n; i++ {
		ki := i
		if ki > n/2 {
			ki = n - i
		}
		for j := 0; j < n; j++ {
			kj := j
			if kj > n/2 {
				kj = n - j
			}
			ring := int(math.Round(math.Hypot(float64(ki), float64(kj))))
			if ring == 0 || ring >= nBins {
				continue
			}
			re, im := real(cHat[i][j]), imag(cHat[i][j])
			sum[ring] += re*re + im*im
			count[ring]++
		}
	}

	out := make([]float64, nBins)
	for k := range out {
		if count[k] > 0 {
			out[k] = sum[k] / count[k]
		}
	}
	return out, nil
}

// CuriePoint estimates the transition temperature from an M(T) curve as the
// midpoint of the steepest drop. Crude but serviceable for the demo curves.
func CuriePoint(temps, mags []float64) (float64, error) {
	if len(temps) != len(mags) || len(temps) < 3 {
		return 0, fmt.Errorf("analysis: need at least 3 (T, M) points, got %d", len(temps))
	}
	best := 0
	steepest := 0.0
	for i := 1; i < len(temps); i++ {
		dT := temps[i] - temps[i-1]
		if dT <= 0 {
			continue
		}
		slope := (mags[i] - mags[i-1]) / dT
		if slope < steepest {
			steepest = slope
			best = i
		}
	}
	if steepest == 0 {
		return 0, fmt.Errorf("analysis: magnetization curve never drops")
	}
	return 0.5 * (temps[best-1] + temps[best]), nil
}

// MSDRatio returns final/initial MSD of a ramp, the melting indicator: a
// solid stays near its lattice sites while a liquid diffuses, so a ramp
// across melting shows a ratio well above one.
func MSDRatio(msd []float64) (float64, error) {
	if len(msd) < 2 {
		return 0, fmt.Errorf("analysis: need at least 2 MSD samples, got %d", len(msd))
	}
	first := msd[0]
	if first <= 0 {
		first = math.SmallestNonzeroFloat64
	}
	return msd[len(msd)-1] / first, nil
}

// Mean is a convenience re-export used by the CLI summaries.
func Mean(xs []float64) float64 { return stat.Mean(xs, nil) }
