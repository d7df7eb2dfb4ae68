package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "img.png")
	if err := os.WriteFile(path, pngBytes(t, w, h), 0o600); err != nil {
		t.Fatalf("write png: %v", err)
	}
	return path
}

func dimsOf(t *testing.T, path string) (int, int) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read image: %v", err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	return cfg.Width, cfg.Height
}

func TestBoundImage_Downscales(t *testing.T) {
	// WHAT: The longest side shrinks to the cap, aspect ratio preserved.
	// WHY: Unbounded rasters blow tesseract memory on large scans.
	path := writePNG(t, 100, 40)
	if err := boundImage(path, 50); err != nil {
		t.Fatalf("boundImage() error = %v", err)
	}
	w, h := dimsOf(t, path)
	if w != 50 || h != 20 {
		t.Errorf("bounded dims = %dx%d, want 50x20", w, h)
	}
}

func TestBoundImage_NoOpWithinLimit(t *testing.T) {
	// WHAT: Images already within the cap are left untouched.
	path := writePNG(t, 30, 20)
	before, _ := os.ReadFile(path)
	if err := boundImage(path, 50); err != nil {
		t.Fatalf("boundImage() error = %v", err)
	}
	after, _ := os.ReadFile(path)
	if !bytes.Equal(before, after) {
		t.Error("boundImage rewrote a file already within the limit")
	}
}

func TestGrayscaleImage(t *testing.T) {
	// WHAT: The rewritten file decodes as grayscale.
	path := filepath.Join(t.TempDir(), "color.png")
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 10, B: 10, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := grayscaleImage(path); err != nil {
		t.Fatalf("grayscaleImage() error = %v", err)
	}

	out, err := decodeImage(path)
	if err != nil {
		t.Fatalf("decode after grayscale: %v", err)
	}
	if _, ok := out.(*image.Gray); !ok {
		t.Errorf("decoded image type = %T, want *image.Gray", out)
	}
}
