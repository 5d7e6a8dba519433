// Package ocrtest renders small text images for backend integration tests.
package ocrtest

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RequireTesseract skips the test when the tesseract binary is not on PATH.
func RequireTesseract(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("tesseract"); err != nil {
		t.Skip("tesseract not installed in PATH")
	}
}

// WriteTextPNG draws each line in black on white, scaled up for legibility,
// and returns the path of the written PNG inside t.TempDir().
func WriteTextPNG(t *testing.T, lines ...string) string {
	t.Helper()

	const lineHeight = 20
	small := image.NewRGBA(image.Rect(0, 0, 160, 20+lineHeight*len(lines)))
	draw.Draw(small, small.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	d := &font.Drawer{
		Dst:  small,
		Src:  image.Black,
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		d.Dot = fixed.P(10, 20+i*lineHeight)
		d.DrawString(line)
	}

	const factor = 4
	big := image.NewRGBA(image.Rect(0, 0, small.Bounds().Dx()*factor, small.Bounds().Dy()*factor))
	draw.NearestNeighbor.Scale(big, big.Bounds(), small, small.Bounds(), draw.Src, nil)

	path := filepath.Join(t.TempDir(), "text.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, big); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return path
}
