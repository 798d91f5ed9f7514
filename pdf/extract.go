package pdf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ProgressFunc is invoked after each page has been processed.
type ProgressFunc func(currentPage, totalPages int)

// Stats accumulates counters over one extraction run. A snapshot is returned
// when the run completes; nothing is shared between runs.
type Stats struct {
	TotalPages    int     `json:"total_pages"`
	TotalImages   int     `json:"total_images"`
	Successful    int     `json:"successful_extractions"`
	Failed        int     `json:"failed_extractions"`
	FilteredLogos int     `json:"filtered_logos"`
	TotalSizeMB   float64 `json:"total_size_mb"`
}

// ExtractedImage describes one image written to the output directory.
type ExtractedImage struct {
	Path      string `json:"-"`
	Filename  string `json:"filename"`
	Page      int    `json:"page"`
	Index     int    `json:"index"`
	Format    string `json:"format"`
	SizeBytes int64  `json:"size_bytes"`
}

// Options configures an extraction run.
type Options struct {
	// OutputDir receives the extracted image files, named page{N}_img{M}.{ext}.
	OutputDir string

	// FilterLogos enables the logo classifier. Filtered images are counted
	// but never written.
	FilterLogos bool

	// MinImageSizeKB skips images below this size. Zero disables the
	// minimum; a negative value selects DefaultMinImageSizeKB.
	MinImageSizeKB int

	// Pages restricts extraction to the given 1-based page numbers.
	// Empty means all pages.
	Pages []int

	// Formats restricts the accepted image file types. Empty means
	// SupportedImageFormats.
	Formats []string

	// Progress, if set, is called after each page.
	Progress ProgressFunc

	// Classifier overrides the default heuristic logo classifier.
	Classifier Classifier
}

// Extractor walks a document page by page and writes accepted images to the
// output directory. One Extractor owns one run's stats; it is not safe for
// concurrent use.
type Extractor struct {
	opts    Options
	formats map[string]bool
	clf     Classifier
	log     zerolog.Logger
}

// NewExtractor creates an extractor, filling unset options with defaults.
func NewExtractor(opts Options) *Extractor {
	if opts.MinImageSizeKB < 0 {
		opts.MinImageSizeKB = DefaultMinImageSizeKB
	}
	formats := opts.Formats
	if len(formats) == 0 {
		formats = SupportedImageFormats
	}
	accepted := make(map[string]bool, len(formats))
	for _, f := range formats {
		accepted[f] = true
	}
	clf := opts.Classifier
	if clf == nil {
		clf = NewHeuristicClassifier()
	}
	return &Extractor{
		opts:    opts,
		formats: accepted,
		clf:     clf,
		log:     log.With().Str("component", "extractor").Logger(),
	}
}

// ExtractImages extracts all embedded images from the PDF at pdfPath.
//
// Document-level failures (missing file, corrupt PDF) abort immediately.
// A failure on a single page or image is logged, counted, and skipped; the
// run always continues to the end of the document.
func (e *Extractor) ExtractImages(pdfPath string) ([]ExtractedImage, *Stats, error) {
	e.log.Info().Str("path", pdfPath).Msg("starting image extraction")

	doc, err := OpenDocument(pdfPath)
	if err != nil {
		e.log.Error().Err(err).Str("path", pdfPath).Msg("failed to open PDF")
		return nil, nil, err
	}

	if err := os.MkdirAll(e.opts.OutputDir, 0755); err != nil {
		return nil, nil, &ProcessingError{Reason: "failed to create output directory", Err: err}
	}

	stats := &Stats{TotalPages: doc.PageCount()}
	e.log.Info().Int("pages", stats.TotalPages).Msg("processing PDF")

	pages := e.opts.Pages
	if len(pages) == 0 {
		for p := 1; p <= stats.TotalPages; p++ {
			pages = append(pages, p)
		}
	} else if err := ValidatePageNumbers(pages, stats.TotalPages); err != nil {
		return nil, nil, &ValidationError{Reason: "invalid page selection", Err: err}
	}

	var extracted []ExtractedImage
	for i, pageNr := range pages {
		extracted = append(extracted, e.extractPage(doc, pageNr, stats)...)
		if e.opts.Progress != nil {
			e.opts.Progress(i+1, len(pages))
		}
	}

	e.log.Info().
		Int("total_images", stats.TotalImages).
		Int("successful", stats.Successful).
		Int("failed", stats.Failed).
		Int("filtered_logos", stats.FilteredLogos).
		Float64("total_size_mb", stats.TotalSizeMB).
		Msg("extraction completed")

	return extracted, stats, nil
}

// extractPage processes a single page. Enumeration failure skips the page;
// per-image failures are counted and skipped.
func (e *Extractor) extractPage(doc *Document, pageNr int, stats *Stats) []ExtractedImage {
	raws, err := doc.PageImages(pageNr)
	if err != nil {
		e.log.Error().Err(err).Int("page", pageNr).Msg("failed to enumerate page images, skipping page")
		return nil
	}

	if len(raws) == 0 {
		e.log.Debug().Int("page", pageNr).Msg("no images found on page")
		return nil
	}

	var extracted []ExtractedImage
	for i, raw := range raws {
		stats.TotalImages++

		img, err := e.extractOne(raw, pageNr, i+1, stats)
		if err != nil {
			stats.Failed++
			e.log.Error().Err(err).Int("page", pageNr).Int("image", i+1).Msg("failed to extract image")
			continue
		}
		if img != nil {
			extracted = append(extracted, *img)
		}
	}
	return extracted
}

// extractOne applies the format, size and logo checks to one raw image and
// writes it on acceptance. A nil, nil return means the image was skipped or
// filtered without being an error.
func (e *Extractor) extractOne(raw RawImage, pageNr, imgNr int, stats *Stats) (*ExtractedImage, error) {
	if !e.formats[raw.Format] {
		e.log.Warn().Str("format", raw.Format).Int("page", pageNr).Int("image", imgNr).Msg("unsupported image format, skipping")
		return nil, nil
	}

	if len(raw.Data) < e.opts.MinImageSizeKB*1024 {
		e.log.Debug().Int("bytes", len(raw.Data)).Int("page", pageNr).Msg("image below minimum size, skipping")
		return nil, nil
	}

	if e.opts.FilterLogos && e.clf.IsLogo(raw.Data) {
		stats.FilteredLogos++
		e.log.Debug().Int("page", pageNr).Int("image", imgNr).Msg("filtered out logo-like image")
		return nil, nil
	}

	filename := fmt.Sprintf("page%d_img%d.%s", pageNr, imgNr, raw.Format)
	fullPath := filepath.Join(e.opts.OutputDir, filename)

	if err := os.WriteFile(fullPath, raw.Data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %v", filename, err)
	}

	stats.Successful++
	stats.TotalSizeMB += float64(len(raw.Data)) / (1024 * 1024)

	return &ExtractedImage{
		Path:      fullPath,
		Filename:  filename,
		Page:      pageNr,
		Index:     imgNr,
		Format:    raw.Format,
		SizeBytes: int64(len(raw.Data)),
	}, nil
}
