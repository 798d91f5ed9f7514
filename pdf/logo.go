package pdf

import (
	"bytes"
	"image"
	"image/color"

	// Decoders for every supported extraction format, so DecodeConfig can
	// report dimensions and color model without a full decode.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Classifier decides whether an image is logo-like and should be excluded
// from extraction output. Implementations must treat undecodable data as not
// a logo and leave the decision to the caller's size/format checks.
type Classifier interface {
	IsLogo(data []byte) bool
}

// Thresholds holds the tunable limits used by HeuristicClassifier.
type Thresholds struct {
	MinDimension int     // flag images narrower or shorter than this (pixels)
	AspectLow    float64 // lower bound of the near-square aspect ratio band
	AspectHigh   float64 // upper bound of the near-square aspect ratio band
	MaxBytes     int     // flag images smaller than this (bytes)
}

// DefaultThresholds returns the stock logo detection limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinDimension: LogoMinDimension,
		AspectLow:    LogoAspectLow,
		AspectHigh:   LogoAspectHigh,
		MaxBytes:     LogoMaxBytes,
	}
}

// HeuristicClassifier flags images as logo-like based on cheap signals:
// small dimensions, near-square aspect ratio, an alpha or indexed color
// model, or a small byte size. Any single hit classifies the image as a
// logo. The near-square rule is known to catch legitimate icons and
// diagrams as well; tune Thresholds or swap the Classifier if that matters.
type HeuristicClassifier struct {
	T Thresholds
}

// NewHeuristicClassifier returns a classifier with default thresholds.
func NewHeuristicClassifier() *HeuristicClassifier {
	return &HeuristicClassifier{T: DefaultThresholds()}
}

// IsLogo reports whether the image data looks like a logo.
func (c *HeuristicClassifier) IsLogo(data []byte) bool {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return false
	}

	if cfg.Width < c.T.MinDimension || cfg.Height < c.T.MinDimension {
		return true
	}

	if cfg.Height > 0 {
		aspect := float64(cfg.Width) / float64(cfg.Height)
		if aspect >= c.T.AspectLow && aspect <= c.T.AspectHigh {
			return true
		}
	}

	if hasAlphaOrPalette(cfg.ColorModel) {
		return true
	}

	if len(data) < c.T.MaxBytes {
		return true
	}

	return false
}

// hasAlphaOrPalette reports whether the color model carries transparency or
// is palette-indexed, both common in logos and decorative graphics.
func hasAlphaOrPalette(m color.Model) bool {
	switch m {
	case color.NRGBAModel, color.NRGBA64Model, color.AlphaModel, color.Alpha16Model:
		return true
	}
	_, indexed := m.(color.Palette)
	return indexed
}
