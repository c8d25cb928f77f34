package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skondo/matsim/internal/ising"
	"github.com/skondo/matsim/internal/md"
	"github.com/skondo/matsim/internal/phasefield"
	"github.com/skondo/matsim/internal/sim"
)

// Config collects every engine's parameters. CLI flags override file
// values; file values override the defaults.
type Config struct {
	Ising    IsingConfig    `yaml:"ising"`
	Melting  MeltingConfig  `yaml:"melting"`
	Spinodal SpinodalConfig `yaml:"spinodal"`
}

// MaterialConfig names a ferromagnet by its real Curie temperature; the
// coupling is derived by scaling onto the 2D Ising critical point.
type MaterialConfig struct {
	Name      string  `yaml:"name"`
	CurieTemp float64 `yaml:"curie_temp"`
}

type IsingConfig struct {
	Lattice    int              `yaml:"lattice"`
	EqSweeps   int              `yaml:"eq_sweeps"`
	MeasSweeps int              `yaml:"meas_sweeps"`
	TMax       float64          `yaml:"t_max"`
	TStep      float64          `yaml:"t_step"`
	Materials  []MaterialConfig `yaml:"materials"`
}

type MeltingConfig struct {
	Cells         int     `yaml:"cells"`
	LatticeConst  float64 `yaml:"lattice_const"`
	Mass          float64 `yaml:"mass"`
	Dt            float64 `yaml:"dt"`
	Epsilon       float64 `yaml:"epsilon"`
	Sigma         float64 `yaml:"sigma"`
	Cutoff        float64 `yaml:"cutoff"`
	VMax          float64 `yaml:"v_max"`
	TMin          float64 `yaml:"t_min"`
	TMax          float64 `yaml:"t_max"`
	Stages        int     `yaml:"stages"`
	StepsPerStage int     `yaml:"steps_per_stage"`
	RecordEvery   int     `yaml:"record_every"`
	RDFBins       int     `yaml:"rdf_bins"`
}

type SpinodalConfig struct {
	Grid     int     `yaml:"grid"`
	Dx       float64 `yaml:"dx"`
	Dt       float64 `yaml:"dt"`
	A        float64 `yaml:"a"`
	Kappa    float64 `yaml:"kappa"`
	Mobility float64 `yaml:"mobility"`
	Noise    float64 `yaml:"noise"`

	Steps       int `yaml:"steps"`
	DenseUntil  int `yaml:"dense_until"`
	DenseEvery  int `yaml:"dense_every"`
	SparseEvery int `yaml:"sparse_every"`

	NucleationBaseline float64 `yaml:"nucleation_baseline"`
	NucleationDamping  float64 `yaml:"nucleation_damping"`

	TimeScale  float64 `yaml:"time_scale"`  // seconds per dimensionless time unit
	LengthUnit float64 `yaml:"length_unit"` // meters per grid spacing
}

// Default mirrors the reference demo parameters.
func Default() *Config {
	return &Config{
		Ising: IsingConfig{
			Lattice:    64,
			EqSweeps:   900,
			MeasSweeps: 200,
			TMax:       1200,
			TStep:      5,
			Materials:  Materials,
		},
		Melting: MeltingConfig{
			Cells:         6,
			LatticeConst:  1.0,
			Mass:          1.0,
			Dt:            0.001,
			Epsilon:       1.0,
			Sigma:         1.0,
			Cutoff:        2.5,
			VMax:          100.0,
			TMin:          0.2,
			TMax:          2.0,
			Stages:        40,
			StepsPerStage: 400,
			RecordEvery:   50,
			RDFBins:       50,
		},
		Spinodal: SpinodalConfig{
			Grid:               256,
			Dx:                 1.0,
			Dt:                 1e-2,
			A:                  1.0,
			Kappa:              1.0,
			Mobility:           1.0,
			Noise:              0.01,
			Steps:              1200,
			DenseUntil:         0,
			DenseEvery:         20,
			SparseEvery:        20,
			NucleationBaseline: 0.6,
			NucleationDamping:  0.05,
			TimeScale:          1e-9,
			LengthUnit:         2e-9,
		},
	}
}

// Load reads a yaml config over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate fails fast on degenerate input so engines never emit empty or
// malformed arrays silently.
func (c *Config) Validate() error {
	if c.Ising.Lattice <= 0 {
		return fmt.Errorf("config: ising lattice must be positive, got %d", c.Ising.Lattice)
	}
	if c.Ising.TStep <= 0 || c.Ising.TMax < 0 {
		return fmt.Errorf("config: ising temperature grid invalid")
	}
	if len(c.Ising.Materials) == 0 {
		return fmt.Errorf("config: no ising materials configured")
	}
	for _, m := range c.Ising.Materials {
		if m.Name == "" || m.CurieTemp <= 0 {
			return fmt.Errorf("config: material %q needs a positive curie_temp", m.Name)
		}
	}
	if c.Melting.Cells <= 0 {
		return fmt.Errorf("config: melting cells must be positive, got %d", c.Melting.Cells)
	}
	if c.Melting.Stages <= 0 || c.Melting.TMin <= 0 || c.Melting.TMax < c.Melting.TMin {
		return fmt.Errorf("config: melting ramp invalid (%g..%g over %d stages)",
			c.Melting.TMin, c.Melting.TMax, c.Melting.Stages)
	}
	if c.Spinodal.Grid <= 0 {
		return fmt.Errorf("config: spinodal grid must be positive, got %d", c.Spinodal.Grid)
	}
	if c.Spinodal.Steps <= 0 {
		return fmt.Errorf("config: spinodal steps must be positive, got %d", c.Spinodal.Steps)
	}
	if len(c.Spinodal.Checkpoints()) == 0 {
		return fmt.Errorf("config: spinodal checkpoint schedule is empty")
	}
	return nil
}

// IsingParams builds the sampler parameters for one material.
func (c *IsingConfig) Params(mat MaterialConfig, seed int64) ising.Params {
	return ising.Params{
		L:          c.Lattice,
		J:          ising.CouplingFromCurie(mat.CurieTemp),
		KB:         1.0,
		Temps:      sim.Arange(0, c.TMax, c.TStep),
		EqSweeps:   c.EqSweeps,
		MeasSweeps: c.MeasSweeps,
		Seed:       seed,
	}
}

// Params builds the MD parameters.
func (c *MeltingConfig) Params(seed int64) md.Params {
	return md.Params{
		Cells:        c.Cells,
		LatticeConst: c.LatticeConst,
		Mass:         c.Mass,
		Dt:           c.Dt,
		Epsilon:      c.Epsilon,
		Sigma:        c.Sigma,
		Cutoff:       c.Cutoff,
		VMax:         c.VMax,
		Temps:        sim.Linspace(c.TMin, c.TMax, c.Stages),
		StepsPerTemp: c.StepsPerStage,
		RecordEvery:  c.RecordEvery,
		RDFBins:      c.RDFBins,
		Seed:         seed,
	}
}

// Params builds solver parameters for one scenario. Baseline and damping
// are zero except for the nucleation case.
func (c *SpinodalConfig) Params(baseline, damping float64, seed int64) phasefield.Params {
	return phasefield.Params{
		Nx:       c.Grid,
		Ny:       c.Grid,
		Dx:       c.Dx,
		Dt:       c.Dt,
		Kappa:    c.Kappa,
		Mobility: c.Mobility,
		Baseline: baseline,
		Noise:    c.Noise,
		Damping:  damping,
		Seed:     seed,
	}
}

// Checkpoints builds the snapshot schedule: uniform when dense_until is
// zero, otherwise dense early / sparse late.
func (c *SpinodalConfig) Checkpoints() []int {
	if c.DenseUntil > 0 {
		return sim.DenseSparse(c.DenseUntil, c.DenseEvery, c.Steps, c.SparseEvery)
	}
	return sim.Every(c.Steps, c.DenseEvery)
}
