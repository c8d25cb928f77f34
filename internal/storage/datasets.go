package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/skondo/matsim/internal/export"
	"github.com/skondo/matsim/internal/ising"
	"github.com/skondo/matsim/internal/md"
	"github.com/skondo/matsim/internal/phasefield"
)

// SaveIsing writes one material's sweep: magnetization.csv, a two-color
// spin bitmap per sampled temperature (0000.png, 0005.png, ...), then the
// manifest. Layout matches the demo's materials/<name>/ directory.
func (s *Store) SaveIsing(name string, res *ising.Result, params map[string]float64, seed int64) error {
	dir := s.Dir(name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := os.Create(filepath.Join(dir, "magnetization.csv"))
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write([]string{"T_K", "M_abs"}); err != nil {
		f.Close()
		return err
	}
	for _, p := range res.Points {
		row := []string{
			strconv.FormatFloat(p.T, 'f', 1, 64),
			strconv.FormatFloat(p.M, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	for _, snap := range res.Snapshots {
		img, err := export.SpinImage(snap.Spins, snap.L)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("%04d.png", int(snap.T)))
		if err := export.WritePNG(path, img); err != nil {
			return err
		}
	}

	return s.writeManifest(dir, &Manifest{
		Name:      name,
		Engine:    "ising",
		CreatedAt: time.Now(),
		Seed:      seed,
		Frames:    len(res.Points),
		Params:    merged(params, res.Metrics),
		Artifacts: map[string][]int{
			"magnetization.csv": {len(res.Points), 2},
		},
	})
}

// LoadMagnetization reads an Ising dataset's (T, |M|) table.
func (s *Store) LoadMagnetization(name string) (temps, mags []float64, err error) {
	if _, err := s.Open(name); err != nil {
		return nil, nil, err
	}
	f, err := os.Open(filepath.Join(s.Dir(name), "magnetization.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	for i := 1; i < len(records); i++ {
		if len(records[i]) < 2 {
			continue
		}
		t, err1 := strconv.ParseFloat(records[i][0], 64)
		m, err2 := strconv.ParseFloat(records[i][1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		temps = append(temps, t)
		mags = append(mags, m)
	}
	return temps, mags, nil
}

// SaveMelting writes an MD ramp: frames, temps, msd, rdfs and rdf_r_axis
// with the exact shapes the viewer indexes, then the manifest.
func (s *Store) SaveMelting(name string, res *md.Result, params map[string]float64, seed int64) error {
	dir := s.Dir(name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	artifacts := map[string][]int{
		"frames.npy":     {res.NFrames, res.N, 3},
		"temps.npy":      {res.NFrames},
		"msd.npy":        {res.NFrames},
		"rdfs.npy":       {res.NFrames, res.Bins},
		"rdf_r_axis.npy": {res.Bins},
	}
	writes := []struct {
		file string
		data []float64
	}{
		{"frames.npy", res.Frames},
		{"temps.npy", res.Temps},
		{"msd.npy", res.MSD},
		{"rdfs.npy", res.RDFs},
		{"rdf_r_axis.npy", res.RAxis},
	}
	for _, a := range writes {
		if err := WriteArray(filepath.Join(dir, a.file), artifacts[a.file], a.data); err != nil {
			return err
		}
	}

	return s.writeManifest(dir, &Manifest{
		Name:      name,
		Engine:    "melting",
		CreatedAt: time.Now(),
		Seed:      seed,
		Frames:    res.NFrames,
		Params:    merged(params, res.Metrics),
		Artifacts: artifacts,
	})
}

// SaveSpinodal writes one conc_<label>.npy stack per scenario plus the
// shared time axis and physical unit factors, then the manifest. All
// scenarios must agree on the frame count; the shared time.npy makes that a
// write-time guarantee.
func (s *Store) SaveSpinodal(name string, results []*phasefield.Result, times []float64, physParams [2]float64, params map[string]float64, seed int64) error {
	if len(results) == 0 {
		return fmt.Errorf("storage: no phase-field scenarios to save")
	}
	for _, r := range results {
		if r.NFrames != len(times) {
			return fmt.Errorf("storage: scenario %s has %d frames, time axis has %d",
				r.Label, r.NFrames, len(times))
		}
	}

	dir := s.Dir(name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	artifacts := make(map[string][]int, len(results)+2)
	for _, r := range results {
		file := fmt.Sprintf("conc_%s.npy", r.Label)
		shape := []int{r.NFrames, r.Nx, r.Ny}
		if err := WriteArray32(filepath.Join(dir, file), shape, r.Frames); err != nil {
			return err
		}
		artifacts[file] = shape
	}

	times32 := make([]float32, len(times))
	for i, t := range times {
		times32[i] = float32(t)
	}
	if err := WriteArray32(filepath.Join(dir, "time.npy"), []int{len(times)}, times32); err != nil {
		return err
	}
	artifacts["time.npy"] = []int{len(times)}

	pp := []float64{physParams[0], physParams[1]}
	if err := WriteArray(filepath.Join(dir, "phys_params.npy"), []int{2}, pp); err != nil {
		return err
	}
	artifacts["phys_params.npy"] = []int{2}

	return s.writeManifest(dir, &Manifest{
		Name:      name,
		Engine:    "spinodal",
		CreatedAt: time.Now(),
		Seed:      seed,
		Frames:    len(times),
		Params:    params,
		Artifacts: artifacts,
	})
}

func merged(params, metrics map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(params)+len(metrics))
	for k, v := range params {
		out[k] = v
	}
	for k, v := range metrics {
		out[k] = v
	}
	return out
}
