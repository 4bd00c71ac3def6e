// Package imaging prepares statement photos for OCR: bounded downscale,
// greyscale, contrast normalization, and sharpening, written out as a
// temporary PNG artifact.
package imaging

import (
	"fmt"
	"image"
	"os"

	dimaging "github.com/disintegration/imaging"
)

// Engine is the set of transforms the preprocessor applies, in order.
type Engine interface {
	Resize(img image.Image, maxWidth int) image.Image
	Greyscale(img image.Image) image.Image
	Normalize(img image.Image) image.Image
	Sharpen(img image.Image) image.Image
}

// StdEngine is the default Engine.
type StdEngine struct{}

// Resize scales the image down to maxWidth, preserving aspect ratio.
// Narrower images pass through untouched; nothing is ever upscaled.
func (StdEngine) Resize(img image.Image, maxWidth int) image.Image {
	if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		return img
	}
	return dimaging.Resize(img, maxWidth, 0, dimaging.Lanczos)
}

func (StdEngine) Greyscale(img image.Image) image.Image {
	return dimaging.Grayscale(img)
}

func (StdEngine) Normalize(img image.Image) image.Image {
	return dimaging.AdjustContrast(img, 20)
}

func (StdEngine) Sharpen(img image.Image) image.Image {
	return dimaging.Sharpen(img, 1.0)
}

// DefaultMaxWidth bounds preprocessed images; OCR gains little above it.
const DefaultMaxWidth = 2000

// Preprocessor turns a source image into a cleaned temporary PNG.
type Preprocessor struct {
	engine   Engine
	maxWidth int
	tempDir  string
}

// NewPreprocessor builds a preprocessor. A nil engine selects StdEngine,
// a non-positive maxWidth selects DefaultMaxWidth, and an empty tempDir
// selects the system temp directory.
func NewPreprocessor(engine Engine, maxWidth int, tempDir string) *Preprocessor {
	if engine == nil {
		engine = StdEngine{}
	}
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	return &Preprocessor{engine: engine, maxWidth: maxWidth, tempDir: tempDir}
}

// Preprocess reads the source image, applies the transform chain, and
// writes the result to a temporary PNG. It returns the artifact path and
// a cleanup function that removes it; cleanup is safe to call even after
// a downstream failure.
func (p *Preprocessor) Preprocess(src string) (string, func(), error) {
	img, err := dimaging.Open(src)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open image: %w", err)
	}

	img = p.engine.Resize(img, p.maxWidth)
	img = p.engine.Greyscale(img)
	img = p.engine.Normalize(img)
	img = p.engine.Sharpen(img)

	f, err := os.CreateTemp(p.tempDir, "statement-*.png")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create artifact: %w", err)
	}
	name := f.Name()
	if err := dimaging.Encode(f, img, dimaging.PNG); err != nil {
		f.Close()
		os.Remove(name)
		return "", nil, fmt.Errorf("failed to encode artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", nil, fmt.Errorf("failed to write artifact: %w", err)
	}

	cleanup := func() { os.Remove(name) }
	return name, cleanup, nil
}
