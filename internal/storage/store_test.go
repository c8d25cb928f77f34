package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skondo/matsim/internal/ising"
	"github.com/skondo/matsim/internal/md"
	"github.com/skondo/matsim/internal/phasefield"
)

func TestWriteLoadArrayRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.npy")
	data := []float64{1, 2, 3, 4, 5, 6}

	require.NoError(t, WriteArray(path, []int{2, 3}, data))

	shape, got, err := LoadArray(path)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3}, shape)
	assert.Equal(t, data, got)
}

func TestWriteLoadArray32RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.npy")

	require.NoError(t, WriteArray32(path, []int{4}, []float32{0.5, -0.5, 1, 0}))

	shape, got, err := LoadArray(path)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, shape)
	assert.Equal(t, []float64{0.5, -0.5, 1, 0}, got)
}

func TestWriteArrayRejectsShapeMismatch(t *testing.T) {
	err := WriteArray(filepath.Join(t.TempDir(), "a.npy"), []int{2, 2}, []float64{1, 2, 3})
	assert.Error(t, err)
}

func TestOpenIncomplete(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Init())

	// Directory exists but the run never finished: no manifest.
	require.NoError(t, os.MkdirAll(s.Dir("half_written"), 0755))
	_, err := s.Open("half_written")
	assert.ErrorIs(t, err, ErrIncomplete)

	// Missing dataset is also a precondition failure, not an IO error.
	_, err = s.Open("never_ran")
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestListSkipsIncomplete(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Init())

	require.NoError(t, os.MkdirAll(s.Dir("junk"), 0755))
	res := &md.Result{
		NFrames: 1, N: 2, Bins: 2,
		Frames: []float64{0, 0, 0, 1, 0, 0},
		Temps:  []float64{0.2},
		MSD:    []float64{0},
		RDFs:   []float64{0, 1},
		RAxis:  []float64{0.25, 0.75},
	}
	require.NoError(t, s.SaveMelting("melting", res, nil, 1))

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "melting", list[0].Name)
	assert.Equal(t, "melting", list[0].Engine)
}

func TestSaveIsingRoundTrip(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Init())

	res := &ising.Result{
		Points: []ising.MagPoint{{T: 0, M: 1.0}, {T: 600, M: 0.42}},
		Snapshots: []ising.Snapshot{
			{T: 0, L: 2, Spins: []int8{1, 1, 1, 1}},
			{T: 600, L: 2, Spins: []int8{1, -1, -1, 1}},
		},
		Metrics: map[string]float64{"acceptance_rate": 0.3},
	}
	require.NoError(t, s.SaveIsing("ising_fe", res, map[string]float64{"curie_temp": 1043}, 7))

	m, err := s.Open("ising_fe")
	require.NoError(t, err)
	assert.Equal(t, "ising", m.Engine)
	assert.Equal(t, 2, m.Frames)
	assert.Equal(t, int64(7), m.Seed)
	assert.Equal(t, 0.3, m.Params["acceptance_rate"])
	assert.Equal(t, 1043.0, m.Params["curie_temp"])

	temps, mags, err := s.LoadMagnetization("ising_fe")
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 600}, temps)
	assert.InDelta(t, 0.42, mags[1], 1e-6)

	for _, png := range []string{"0000.png", "0600.png"} {
		_, err := os.Stat(filepath.Join(s.Dir("ising_fe"), png))
		assert.NoError(t, err, png)
	}
}

func TestLoadMagnetizationRequiresManifest(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Init())
	require.NoError(t, os.MkdirAll(s.Dir("partial"), 0755))
	require.NoError(t, os.WriteFile(
		filepath.Join(s.Dir("partial"), "magnetization.csv"),
		[]byte("T_K,M_abs\n0.0,1.000000\n"), 0644))

	_, _, err := s.LoadMagnetization("partial")
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestSaveMeltingShapes(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Init())

	nFrames, n, bins := 3, 4, 5
	res := &md.Result{
		NFrames: nFrames, N: n, Bins: bins,
		Frames: make([]float64, nFrames*n*3),
		Temps:  make([]float64, nFrames),
		MSD:    make([]float64, nFrames),
		RDFs:   make([]float64, nFrames*bins),
		RAxis:  make([]float64, bins),
	}
	require.NoError(t, s.SaveMelting("melting", res, nil, 3))

	m, err := s.Open("melting")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 3}, m.Artifacts["frames.npy"])
	assert.Equal(t, []int{3, 5}, m.Artifacts["rdfs.npy"])

	shape, _, err := LoadArray(filepath.Join(s.Dir("melting"), "frames.npy"))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 3}, shape)
}

func TestSaveSpinodal(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Init())

	mk := func(label string) *phasefield.Result {
		return &phasefield.Result{
			Label: label, Nx: 2, Ny: 2, NFrames: 2,
			Frames: []float32{0, 0, 0, 0, 1, 1, 1, 1},
			Times:  []float64{0, 0.5},
		}
	}
	results := []*phasefield.Result{mk("unstable"), mk("stable"), mk("nucleation")}
	times := []float64{0, 0.5}

	require.NoError(t, s.SaveSpinodal("spinodal", results, times, [2]float64{1e-9, 2e-9}, nil, 9))

	m, err := s.Open("spinodal")
	require.NoError(t, err)
	assert.Equal(t, 2, m.Frames)
	for _, label := range []string{"unstable", "stable", "nucleation"} {
		assert.Equal(t, []int{2, 2, 2}, m.Artifacts["conc_"+label+".npy"])
	}

	shape, pp, err := LoadArray(filepath.Join(s.Dir("spinodal"), "phys_params.npy"))
	require.NoError(t, err)
	assert.Equal(t, []int{2}, shape)
	assert.Equal(t, []float64{1e-9, 2e-9}, pp)

	shape, times64, err := LoadArray(filepath.Join(s.Dir("spinodal"), "time.npy"))
	require.NoError(t, err)
	assert.Equal(t, []int{2}, shape)
	assert.InDelta(t, 0.5, times64[1], 1e-6)
}

func TestSaveSpinodalRejectsFrameMismatch(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.Init())

	bad := &phasefield.Result{Label: "unstable", Nx: 2, Ny: 2, NFrames: 1, Frames: make([]float32, 4)}
	err := s.SaveSpinodal("spinodal", []*phasefield.Result{bad}, []float64{0, 0.5}, [2]float64{1, 1}, nil, 0)
	assert.Error(t, err)

	// Nothing half-written may look complete.
	_, err = s.Open("spinodal")
	assert.ErrorIs(t, err, ErrIncomplete)
}
