package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/kshedden/gonpy"
)

// ErrIncomplete marks a dataset directory with no manifest: the engine run
// never completed (or never ran), and nothing in the directory may be
// trusted. Consumers must treat it as a failed precondition, not reach into
// the arrays.
var ErrIncomplete = errors.New("dataset incomplete")

// Store owns one data root with a directory per engine run.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(name string) string {
	return filepath.Join(s.baseDir, name)
}

// Manifest describes a completed dataset. It is written last, after every
// artifact, so its presence guarantees the frame counts and shapes it lists.
type Manifest struct {
	Name      string             `json:"name"`
	Engine    string             `json:"engine"`
	CreatedAt time.Time          `json:"created_at"`
	Seed      int64              `json:"seed"`
	Frames    int                `json:"frames"`
	Params    map[string]float64 `json:"params"`
	Artifacts map[string][]int   `json:"artifacts"` // file -> shape
}

const manifestFile = "manifest.json"

func (s *Store) writeManifest(dir string, m *Manifest) error {
	f, err := os.Create(filepath.Join(dir, manifestFile))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// Open loads a dataset's manifest, or ErrIncomplete when the run directory
// exists without one.
func (s *Store) Open(name string) (*Manifest, error) {
	dir := s.Dir(name)
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		if os.IsNotExist(err) {
			if _, derr := os.Stat(dir); derr == nil {
				return nil, fmt.Errorf("%w: %s has no manifest", ErrIncomplete, name)
			}
			return nil, fmt.Errorf("%w: dataset %s not found", ErrIncomplete, name)
		}
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("storage: corrupt manifest for %s: %w", name, err)
	}
	return &m, nil
}

// List returns the manifests of all completed datasets, sorted by name.
// Incomplete directories are skipped.
func (s *Store) List() ([]Manifest, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Manifest{}, nil
		}
		return nil, err
	}

	out := make([]Manifest, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m, err := s.Open(e.Name())
		if err != nil {
			continue
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// WriteArray persists a float64 array with an explicit shape as .npy.
func WriteArray(path string, shape []int, data []float64) error {
	if err := checkShape(shape, len(data)); err != nil {
		return err
	}
	w, err := gonpy.NewFileWriter(path)
	if err != nil {
		return err
	}
	w.Shape = shape
	return w.WriteFloat64(data)
}

// WriteArray32 persists a float32 array (phase-field snapshots) as .npy.
func WriteArray32(path string, shape []int, data []float32) error {
	if err := checkShape(shape, len(data)); err != nil {
		return err
	}
	w, err := gonpy.NewFileWriter(path)
	if err != nil {
		return err
	}
	w.Shape = shape
	return w.WriteFloat32(data)
}

func checkShape(shape []int, have int) error {
	n := 1
	for _, d := range shape {
		n *= d
	}
	if n != have {
		return fmt.Errorf("storage: shape %v wants %d values, got %d", shape, n, have)
	}
	return nil
}

// LoadArray reads a .npy artifact back as float64, with its shape.
// Single-precision files are widened.
func LoadArray(path string) ([]int, []float64, error) {
	r, err := gonpy.NewFileReader(path)
	if err != nil {
		return nil, nil, err
	}
	if r.Dtype == "f4" {
		v32, err := r.GetFloat32()
		if err != nil {
			return nil, nil, err
		}
		v := make([]float64, len(v32))
		for i, x := range v32 {
			v[i] = float64(x)
		}
		return r.Shape, v, nil
	}
	v, err := r.GetFloat64()
	if err != nil {
		return nil, nil, err
	}
	return r.Shape, v, nil
}
