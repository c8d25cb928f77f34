package export

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
)

func TestSpinImage(t *testing.T) {
	spins := []int8{1, -1, -1, 1}
	img, err := SpinImage(spins, 2)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("bounds %v, want 2x2", b)
	}
	// Row-major spins land as (x=j, y=i).
	if img.ColorIndexAt(0, 0) != 1 || img.ColorIndexAt(1, 0) != 0 {
		t.Error("first row colors wrong")
	}
	if img.ColorIndexAt(0, 1) != 0 || img.ColorIndexAt(1, 1) != 1 {
		t.Error("second row colors wrong")
	}
}

func TestSpinImageRejectsMismatch(t *testing.T) {
	if _, err := SpinImage([]int8{1, 1, 1}, 2); err == nil {
		t.Error("expected an error for 3 spins on a 2x2 grid")
	}
}

func TestFieldImageEndpoints(t *testing.T) {
	img, err := FieldImage([]float32{-0.8, 0, 0.8, 0}, 2, 2, -0.8, 0.8)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(0, 0); got != SpinDown {
		t.Errorf("low end = %v, want %v", got, SpinDown)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Errorf("midpoint = %v, want white", got)
	}
	if got := img.RGBAAt(0, 1); got != SpinUp {
		t.Errorf("high end = %v, want %v", got, SpinUp)
	}
}

func TestFieldImageClampsOutOfRange(t *testing.T) {
	img, err := FieldImage([]float32{-5, 5}, 1, 2, -0.8, 0.8)
	if err != nil {
		t.Fatal(err)
	}
	if img.RGBAAt(0, 0) != SpinDown || img.RGBAAt(1, 0) != SpinUp {
		t.Error("out-of-range values not clamped to the palette ends")
	}
}

func TestFieldImageRejectsBadRange(t *testing.T) {
	if _, err := FieldImage([]float32{0}, 1, 1, 1, 1); err == nil {
		t.Error("expected an error for an empty value range")
	}
}

func TestWritePNG(t *testing.T) {
	img, err := SpinImage([]int8{1, -1, -1, 1}, 2)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "spins.png")
	if err := WritePNG(path, img); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Fatal("wrote an empty file")
	}
}
