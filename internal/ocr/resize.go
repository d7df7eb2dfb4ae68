package ocr

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	_ "image/jpeg"
	_ "golang.org/x/image/tiff"
)

// boundImage downscales an image file in place when its longest dimension
// exceeds maxDim, using Catmull-Rom resampling. The result is re-encoded as
// PNG regardless of the source format; tesseract sniffs content, not
// extension.
func boundImage(path string, maxDim int) error {
	img, err := decodeImage(path)
	if err != nil {
		return err
	}

	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxDim {
		return nil
	}

	scale := float64(maxDim) / float64(longest)
	nw, nh := int(float64(w)*scale), int(float64(h)*scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return encodePNG(path, dst)
}

// grayscaleImage rewrites an image file as grayscale PNG for the aggressive
// OCR retry.
func grayscaleImage(path string) error {
	img, err := decodeImage(path)
	if err != nil {
		return err
	}
	gray := image.NewGray(img.Bounds())
	draw.Draw(gray, gray.Bounds(), img, img.Bounds().Min, draw.Src)
	return encodePNG(path, gray)
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func encodePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
