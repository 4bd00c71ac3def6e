// Package ocr defines the text-recognition capability the image pipeline
// depends on, plus a default adapter that shells out to the tesseract
// binary. Recognition quality is whatever the engine delivers; callers
// never retry or post-correct here.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
)

// Options tune a single recognition call.
type Options struct {
	// Lang is the recognition language, e.g. "eng".
	Lang string
	// Debug raises engine verbosity only.
	Debug bool
}

// Engine recognizes text in an encoded image.
type Engine interface {
	Recognize(ctx context.Context, image []byte, opts Options) (string, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, image []byte, opts Options) (string, error)

func (f EngineFunc) Recognize(ctx context.Context, image []byte, opts Options) (string, error) {
	return f(ctx, image, opts)
}

// Tesseract runs the tesseract CLI on a temporary copy of the image.
type Tesseract struct {
	binary string
}

// NewTesseract builds a CLI adapter; an empty binary means "tesseract"
// from PATH.
func NewTesseract(binary string) *Tesseract {
	if binary == "" {
		binary = "tesseract"
	}
	return &Tesseract{binary: binary}
}

func (t *Tesseract) Recognize(ctx context.Context, image []byte, opts Options) (string, error) {
	f, err := os.CreateTemp("", "ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to stage image: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(image); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to stage image: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to stage image: %w", err)
	}

	lang := opts.Lang
	if lang == "" {
		lang = "eng"
	}
	args := []string{f.Name(), "stdout", "-l", lang}
	if !opts.Debug {
		args = append(args, "--loglevel", "OFF")
	}

	cmd := exec.CommandContext(ctx, t.binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract failed: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.String(), nil
}
