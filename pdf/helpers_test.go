package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/stretchr/testify/require"
)

// noiseImage returns an opaque RGBA image filled with deterministic noise.
// Noise barely compresses, which keeps encoded fixtures above the size
// thresholds the extractor checks.
func noiseImage(w, h int) *image.RGBA {
	rng := rand.New(rand.NewSource(42))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8(rng.Intn(256)),
				G: uint8(rng.Intn(256)),
				B: uint8(rng.Intn(256)),
				A: 255,
			})
		}
	}
	return img
}

// solidImage returns a single-color opaque image. It compresses to well under
// a kilobyte, which tests use to exercise the minimum-size gate.
func solidImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 30, G: 90, B: 200, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image, quality int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}))
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

// imagePDF builds a PDF with one page per image file.
func imagePDF(t *testing.T, outPath string, imgFiles ...string) string {
	t.Helper()
	require.NoError(t, api.ImportImagesFile(imgFiles, outPath, nil, nil))
	return outPath
}

// blankPDF writes a minimal well-formed single-page PDF with no content.
func blankPDF(t *testing.T, path string) string {
	t.Helper()

	var buf bytes.Buffer
	offsets := make([]int, 4)
	buf.WriteString("%PDF-1.4\n")
	offsets[1] = buf.Len()
	buf.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	offsets[2] = buf.Len()
	buf.WriteString("2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n")
	offsets[3] = buf.Len()
	buf.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << >> >>\nendobj\n")
	xref := buf.Len()
	buf.WriteString("xref\n0 4\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 3; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	buf.WriteString("trailer\n<< /Size 4 /Root 1 0 R >>\nstartxref\n")
	fmt.Fprintf(&buf, "%d\n", xref)
	buf.WriteString("%%EOF\n")

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

// scenarioPDF builds the canonical 3-page fixture: page 1 carries a 50x50
// opaque PNG (logo-like), page 2 an 800x600 JPEG (content), page 3 nothing.
func scenarioPDF(t *testing.T, dir string) string {
	t.Helper()

	logoFile := writeFile(t, dir, "logo.png", encodePNG(t, noiseImage(50, 50)))
	photoFile := writeFile(t, dir, "photo.jpg", encodeJPEG(t, noiseImage(800, 600), 90))

	logoPage := imagePDF(t, filepath.Join(dir, "logo_page.pdf"), logoFile)
	photoPage := imagePDF(t, filepath.Join(dir, "photo_page.pdf"), photoFile)
	blankPage := blankPDF(t, filepath.Join(dir, "blank_page.pdf"))

	merged := filepath.Join(dir, "scenario.pdf")
	require.NoError(t, api.MergeCreateFile([]string{logoPage, photoPage, blankPage}, merged, false, nil))
	return merged
}
