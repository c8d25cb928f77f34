package md

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/skondo/matsim/internal/metrics"
	"github.com/skondo/matsim/internal/sim"
)

// Result is one completed temperature ramp. Frames, Temps, MSD and RDFs
// share the frame count; consumers index them in lockstep.
type Result struct {
	NFrames int
	N       int
	Bins    int

	Frames []float64 // NFrames*N*3, row-major [frame][particle][xyz]
	Temps  []float64 // target temperature per frame
	MSD    []float64 // per frame
	RDFs   []float64 // NFrames*Bins
	RAxis  []float64 // shared bin-center radii

	Metrics map[string]float64
}

// Run ramps the system through the ascending temperature schedule,
// integrating StepsPerTemp velocity-Verlet steps per stage with the
// isokinetic rescale after every step, and records a frame (positions, MSD,
// RDF) every RecordEvery steps within each stage.
func Run(ctx context.Context, p Params) (*Result, error) {
	s, err := NewSystem(p)
	if err != nil {
		return nil, err
	}

	perStage := (p.StepsPerTemp + p.RecordEvery - 1) / p.RecordEvery
	nFrames := perStage * len(p.Temps)

	res := &Result{
		NFrames: nFrames,
		N:       s.N,
		Bins:    p.RDFBins,
		Frames:  make([]float64, 0, nFrames*s.N*3),
		Temps:   make([]float64, 0, nFrames),
		MSD:     make([]float64, 0, nFrames),
		RDFs:    make([]float64, 0, nFrames*p.RDFBins),
	}

	var tempErr metrics.Drift
	var potMean metrics.RunningMean
	var speed metrics.Extrema

	// Forces must be valid before the first half-kick.
	s.ComputeForces()

	logrus.Infof("md: N=%d box=%.2f ramping %.2f -> %.2f over %d stages",
		s.N, s.Box, p.Temps[0], p.Temps[len(p.Temps)-1], len(p.Temps))

	for stage, T := range p.Temps {
		if err := sim.Cancelled(ctx); err != nil {
			return nil, err
		}

		for step := 0; step < p.StepsPerTemp; step++ {
			pot := s.Step()
			potMean.Add(pot)

			s.Rescale(T)
			tempErr.Observe(s.Temperature() / T)

			if step%p.RecordEvery == 0 {
				res.Frames = append(res.Frames, s.Positions()...)
				res.Temps = append(res.Temps, T)
				res.MSD = append(res.MSD, s.MSD())

				rAxis, g := RDF(s.pos, s.N, s.Box, p.RDFBins)
				res.RDFs = append(res.RDFs, g...)
				if res.RAxis == nil {
					res.RAxis = rAxis
				}

				for _, v := range s.vel {
					speed.Observe(v)
				}
			}
		}
		logrus.Infof("md: finished T=%.2f (%d/%d) msd=%.4f",
			T, stage+1, len(p.Temps), res.MSD[len(res.MSD)-1])
	}

	res.Metrics = map[string]float64{
		"thermostat_drift": tempErr.Value(),
		"mean_potential":   potMean.Value(),
		"v_max":            speed.Max(),
		"v_min":            speed.Min(),
	}
	return res, nil
}
