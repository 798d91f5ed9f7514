package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// OptimizeImage re-encodes the image at path as a JPEG with the given quality
// and writes it next to the original as {stem}_optimized.jpg. Transparency
// and palette data are flattened by the JPEG encoder.
func OptimizeImage(path string, quality int) (string, error) {
	if quality < 1 || quality > 100 {
		return "", &ValidationError{Reason: fmt.Sprintf("quality must be between 1 and 100, got %d", quality)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %v", path, err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image %s: %v", path, err)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(filepath.Dir(path), stem+"_optimized.jpg")

	out, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %v", outPath, err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: quality}); err != nil {
		os.Remove(outPath)
		return "", fmt.Errorf("failed to encode %s: %v", outPath, err)
	}

	return outPath, nil
}

// OptimizeImages optimizes every image in paths, skipping and logging
// failures. Returns the paths of the optimized copies.
func OptimizeImages(paths []string, quality int) []string {
	optimized := make([]string, 0, len(paths))
	for _, p := range paths {
		outPath, err := OptimizeImage(p, quality)
		if err != nil {
			log.Error().Err(err).Str("path", p).Msg("failed to optimize image")
			continue
		}
		optimized = append(optimized, outPath)
	}
	return optimized
}
