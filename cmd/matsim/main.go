package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/skondo/matsim/internal/analysis"
	"github.com/skondo/matsim/internal/config"
	"github.com/skondo/matsim/internal/ising"
	"github.com/skondo/matsim/internal/md"
	"github.com/skondo/matsim/internal/phasefield"
	"github.com/skondo/matsim/internal/sim"
	"github.com/skondo/matsim/internal/storage"
)

var (
	dataDir    string
	configFile string
	seed       int64
	verbose    bool
	quiet      bool

	// ising overrides
	latticeSide int
	eqSweeps    int
	measSweeps  int
	tMax        float64
	tStep       float64

	// melting overrides
	cells   int
	stages  int
	rampLo  float64
	rampHi  float64
	mdSteps int
	record  int

	// spinodal overrides
	gridSize int
	chSteps  int
	profile  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "matsim",
		Short: "offline precompute engines for the materials teaching demos",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			switch {
			case verbose:
				logrus.SetLevel(logrus.DebugLevel)
			case quiet:
				logrus.SetLevel(logrus.WarnLevel)
			default:
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "data", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "warnings only")

	isingCmd := &cobra.Command{
		Use:   "ising [material]",
		Short: "run the Metropolis temperature sweep (all materials when none given)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runIsing,
	}
	isingCmd.Flags().IntVar(&latticeSide, "lattice", 0, "lattice side L")
	isingCmd.Flags().IntVar(&eqSweeps, "eq", 0, "equilibration sweeps per temperature")
	isingCmd.Flags().IntVar(&measSweeps, "meas", 0, "measurement sweeps per temperature")
	isingCmd.Flags().Float64Var(&tMax, "tmax", 0, "top of the temperature grid (K)")
	isingCmd.Flags().Float64Var(&tStep, "tstep", 0, "temperature grid spacing (K)")

	meltCmd := &cobra.Command{
		Use:   "melt",
		Short: "run the Lennard-Jones melting ramp",
		RunE:  runMelt,
	}
	meltCmd.Flags().IntVar(&cells, "cells", 0, "unit cells per edge (N = cells^3)")
	meltCmd.Flags().IntVar(&stages, "stages", 0, "temperature stages")
	meltCmd.Flags().Float64Var(&rampLo, "tmin", 0, "ramp start temperature")
	meltCmd.Flags().Float64Var(&rampHi, "tmax", 0, "ramp end temperature")
	meltCmd.Flags().IntVar(&mdSteps, "steps", 0, "integration steps per stage")
	meltCmd.Flags().IntVar(&record, "record", 0, "snapshot interval in steps")

	spinodalCmd := &cobra.Command{
		Use:   "spinodal",
		Short: "run the Cahn-Hilliard scenarios (unstable, stable, nucleation)",
		RunE:  runSpinodal,
	}
	spinodalCmd.Flags().IntVar(&gridSize, "grid", 0, "grid side (Nx = Ny)")
	spinodalCmd.Flags().IntVar(&chSteps, "steps", 0, "integration steps")
	spinodalCmd.Flags().StringVar(&profile, "profile", "", "schedule profile (quick, long)")

	allCmd := &cobra.Command{
		Use:   "all",
		Short: "run every engine",
		RunE:  runAll,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list completed datasets",
		RunE:  listDatasets,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [dataset]",
		Short: "plot a dataset's headline curve in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotDataset,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list material and schedule presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("materials:")
			for _, m := range config.Materials {
				fmt.Printf("  %-3s Tc = %6.0f K  (J = %.2f)\n",
					m.Name, m.CurieTemp, ising.CouplingFromCurie(m.CurieTemp))
			}
			fmt.Println("spinodal profiles:")
			for _, name := range config.SpinodalProfileNames() {
				p := config.SpinodalProfiles[name]
				fmt.Printf("  %-6s %d steps\n", name, p.Steps)
			}
		},
	}

	rootCmd.AddCommand(isingCmd, meltCmd, spinodalCmd, allCmd, listCmd, plotCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}
	return cfg, nil
}

func openStore() (*storage.Store, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func runIsing(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if latticeSide > 0 {
		cfg.Ising.Lattice = latticeSide
	}
	if eqSweeps > 0 {
		cfg.Ising.EqSweeps = eqSweeps
	}
	if measSweeps > 0 {
		cfg.Ising.MeasSweeps = measSweeps
	}
	if tMax > 0 {
		cfg.Ising.TMax = tMax
	}
	if tStep > 0 {
		cfg.Ising.TStep = tStep
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	materials := cfg.Ising.Materials
	if len(args) == 1 {
		mat := config.Material(args[0])
		if mat == nil {
			return fmt.Errorf("unknown material %q (available: %v)", args[0], config.MaterialNames())
		}
		materials = []config.MaterialConfig{*mat}
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	for _, mat := range materials {
		p := cfg.Ising.Params(mat, seed)
		start := time.Now()
		res, err := ising.Run(cmd.Context(), p)
		if err != nil {
			return err
		}
		name := "ising_" + mat.Name
		params := map[string]float64{
			"lattice":    float64(p.L),
			"coupling":   p.J,
			"curie_temp": mat.CurieTemp,
		}
		if err := st.SaveIsing(name, res, params, seed); err != nil {
			return err
		}
		logrus.Infof("ising: %s saved (%d temperatures, %v)", name, len(res.Points), time.Since(start).Round(time.Millisecond))
	}
	return nil
}

func runMelt(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cells > 0 {
		cfg.Melting.Cells = cells
	}
	if stages > 0 {
		cfg.Melting.Stages = stages
	}
	if rampLo > 0 {
		cfg.Melting.TMin = rampLo
	}
	if rampHi > 0 {
		cfg.Melting.TMax = rampHi
	}
	if mdSteps > 0 {
		cfg.Melting.StepsPerStage = mdSteps
	}
	if record > 0 {
		cfg.Melting.RecordEvery = record
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	p := cfg.Melting.Params(seed)
	start := time.Now()
	res, err := md.Run(cmd.Context(), p)
	if err != nil {
		return err
	}
	params := map[string]float64{
		"n":      float64(res.N),
		"dt":     p.Dt,
		"cutoff": p.Cutoff,
		"t_min":  cfg.Melting.TMin,
		"t_max":  cfg.Melting.TMax,
	}
	if err := st.SaveMelting("melting", res, params, seed); err != nil {
		return err
	}
	logrus.Infof("melt: saved %d frames in %v", res.NFrames, time.Since(start).Round(time.Millisecond))
	return nil
}

func runSpinodal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if gridSize > 0 {
		cfg.Spinodal.Grid = gridSize
	}
	if profile != "" {
		if !cfg.Spinodal.ApplyProfile(profile) {
			return fmt.Errorf("unknown profile %q (available: %v)", profile, config.SpinodalProfileNames())
		}
	}
	if chSteps > 0 {
		cfg.Spinodal.Steps = chSteps
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}

	sc := cfg.Spinodal
	checkpoints := sc.Checkpoints()
	scenarios := []struct {
		label    string
		baseline float64
		damping  float64
		f        phasefield.FreeEnergy
	}{
		{"unstable", 0, 0, phasefield.DoubleWell(sc.A)},
		{"stable", 0, 0, phasefield.SingleWell(sc.A)},
		{"nucleation", sc.NucleationBaseline, sc.NucleationDamping, phasefield.DoubleWell(sc.A)},
	}

	start := time.Now()
	results := make([]*phasefield.Result, 0, len(scenarios))
	var times []float64
	for _, scenario := range scenarios {
		p := sc.Params(scenario.baseline, scenario.damping, seed)
		res, err := phasefield.Run(cmd.Context(), scenario.label, p, scenario.f, checkpoints)
		if err != nil {
			return err
		}
		results = append(results, res)
		if times == nil {
			times = res.Times
		}
	}

	params := map[string]float64{
		"grid":  float64(sc.Grid),
		"dt":    sc.Dt,
		"kappa": sc.Kappa,
		"a":     sc.A,
		"steps": float64(sc.Steps),
	}
	physParams := [2]float64{sc.TimeScale, sc.LengthUnit}
	if err := st.SaveSpinodal("spinodal", results, times, physParams, params, seed); err != nil {
		return err
	}
	logrus.Infof("spinodal: saved %d frames x %d scenarios in %v",
		len(times), len(results), time.Since(start).Round(time.Millisecond))
	return nil
}

// engineRunner adapts a closure to sim.Runner so `all` can drive every
// engine uniformly.
type engineRunner struct {
	name string
	fn   func(ctx context.Context) error
}

func (r engineRunner) Name() string                  { return r.name }
func (r engineRunner) Run(ctx context.Context) error { return r.fn(ctx) }

func runAll(cmd *cobra.Command, args []string) error {
	runners := []sim.Runner{
		engineRunner{"ising", func(context.Context) error { return runIsing(cmd, nil) }},
		engineRunner{"melt", func(context.Context) error { return runMelt(cmd, nil) }},
		engineRunner{"spinodal", func(context.Context) error { return runSpinodal(cmd, nil) }},
	}
	for _, r := range runners {
		logrus.Infof("=== %s ===", r.Name())
		if err := r.Run(cmd.Context()); err != nil {
			return fmt.Errorf("%s: %w", r.Name(), err)
		}
	}
	return nil
}

func listDatasets(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	sets, err := st.List()
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		fmt.Println("no datasets found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tENGINE\tCREATED\tFRAMES\tSEED")
	for _, m := range sets {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			m.Name, m.Engine, m.CreatedAt.Format("2006-01-02 15:04:05"), m.Frames, m.Seed)
	}
	return w.Flush()
}

func plotDataset(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	m, err := st.Open(args[0])
	if err != nil {
		return err
	}

	switch m.Engine {
	case "ising":
		temps, mags, err := st.LoadMagnetization(m.Name)
		if err != nil {
			return err
		}
		fmt.Println(asciigraph.Plot(mags,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("%s: |M| vs T (%.0f..%.0f K)", m.Name, temps[0], temps[len(temps)-1])),
		))
		if tc, err := analysis.CuriePoint(temps, mags); err == nil {
			fmt.Printf("\nestimated transition: %.0f K\n", tc)
		}

	case "melting":
		_, msd, err := storage.LoadArray(filepath.Join(st.Dir(m.Name), "msd.npy"))
		if err != nil {
			return err
		}
		fmt.Println(asciigraph.Plot(msd,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("mean-squared displacement per frame"),
		))
		if ratio, err := analysis.MSDRatio(msd); err == nil {
			fmt.Printf("\nfinal/initial MSD ratio: %.1f\n", ratio)
		}

	case "spinodal":
		shape, frames, err := storage.LoadArray(filepath.Join(st.Dir(m.Name), "conc_unstable.npy"))
		if err != nil {
			return err
		}
		if len(shape) != 3 {
			return fmt.Errorf("conc_unstable.npy: want 3 dimensions, got %v", shape)
		}
		variance, err := analysis.VarianceSeries(frames, shape[0], shape[1]*shape[2])
		if err != nil {
			return err
		}
		fmt.Println(asciigraph.Plot(variance,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("unstable scenario: field variance per frame"),
		))

	default:
		return fmt.Errorf("no plot for engine %q", m.Engine)
	}
	return nil
}
