package sim

import "context"

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// Arange returns values from lo up to and including hi at the given step,
// matching the temperature grids the engines sweep (e.g. 0-1200 K by 5 K).
func Arange(lo, hi, step float64) []float64 {
	if step <= 0 || hi < lo {
		return nil
	}
	out := make([]float64, 0, int((hi-lo)/step)+1)
	for v := lo; v <= hi+step*1e-9; v += step {
		out = append(out, v)
	}
	return out
}

// Ascending reports whether vs is sorted in non-decreasing order. The
// engines require ascending schedules because lattice and particle state
// carries over from one stage to the next.
func Ascending(vs []float64) bool {
	for i := 1; i < len(vs); i++ {
		if vs[i] < vs[i-1] {
			return false
		}
	}
	return true
}

// Runner is a batch engine: run to completion, persist, return. The CLI
// drives all engines through this interface.
type Runner interface {
	Name() string
	Run(ctx context.Context) error
}

// Cancelled is a convenience check engines call between stages; none of the
// engines has a suspension point finer than a stage boundary.
func Cancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
