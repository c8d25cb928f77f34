package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// Spin colors match the demo palette: muted blue for down, soft orange
// for up.
var (
	SpinDown = color.RGBA{R: 0x4E, G: 0x79, B: 0xA7, A: 0xFF}
	SpinUp   = color.RGBA{R: 0xF2, G: 0x8E, B: 0x2B, A: 0xFF}
)

// SpinImage renders an L x L spin grid as a two-level bitmap.
func SpinImage(spins []int8, l int) (*image.Paletted, error) {
	if len(spins) != l*l {
		return nil, fmt.Errorf("export: spin grid has %d sites, want %d", len(spins), l*l)
	}
	img := image.NewPaletted(image.Rect(0, 0, l, l), color.Palette{SpinDown, SpinUp})
	for i := 0; i < l; i++ {
		for j := 0; j < l; j++ {
			if spins[i*l+j] > 0 {
				img.SetColorIndex(j, i, 1)
			} else {
				img.SetColorIndex(j, i, 0)
			}
		}
	}
	return img, nil
}

// FieldImage renders a concentration field with a blue-white-orange
// diverging map over [lo, hi], the range the viewer displays.
func FieldImage(field []float32, nx, ny int, lo, hi float64) (*image.RGBA, error) {
	if len(field) != nx*ny {
		return nil, fmt.Errorf("export: field has %d cells, want %d", len(field), nx*ny)
	}
	if hi <= lo {
		return nil, fmt.Errorf("export: bad range [%g, %g]", lo, hi)
	}
	img := image.NewRGBA(image.Rect(0, 0, ny, nx))
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			t := (float64(field[i*ny+j]) - lo) / (hi - lo)
			img.SetRGBA(j, i, diverging(t))
		}
	}
	return img, nil
}

// diverging interpolates SpinDown -> white -> SpinUp for t in [0, 1],
// clamping outside.
func diverging(t float64) color.RGBA {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	white := color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
	if t < 0.5 {
		return lerp(SpinDown, white, t*2)
	}
	return lerp(white, SpinUp, (t-0.5)*2)
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + t*(float64(y)-float64(x)))
	}
	return color.RGBA{mix(a.R, b.R), mix(a.G, b.G), mix(a.B, b.B), 0xFF}
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("export: encode %s: %w", path, err)
	}
	return nil
}
