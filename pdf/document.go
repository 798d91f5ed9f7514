package pdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// extractConf returns a pdfcpu configuration prepared for image extraction.
func extractConf() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidateLinks = false
	conf.Offline = true
	conf.Cmd = model.EXTRACTIMAGES
	return conf
}

// Document is a handle to a parsed PDF from which embedded images can be
// enumerated page by page.
type Document struct {
	ctx  *model.Context
	path string
}

// RawImage holds the bytes of an embedded raster image fetched from the
// document, identified by its xref object number.
type RawImage struct {
	ObjNr  int    // xref object number of the image stream
	Name   string // resource name within the page dictionary
	Format string // file extension reported by pdfcpu ("png", "jpg", ...)
	Data   []byte
}

// OpenDocument parses and validates the PDF at path. A missing or corrupt
// document fails here, before any page is processed.
func OpenDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ValidationError{Reason: fmt.Sprintf("PDF file not found: %s", path), Err: err}
		}
		return nil, &ProcessingError{Reason: fmt.Sprintf("failed to read PDF: %s", path), Err: err}
	}

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), extractConf())
	if err != nil {
		return nil, &ProcessingError{Reason: "failed to parse PDF", Err: err}
	}

	return &Document{ctx: ctx, path: path}, nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.ctx.PageCount
}

// PageImages enumerates the embedded images on the given 1-based page and
// fetches their raw bytes. Images whose data cannot be read are dropped from
// the result. The slice is ordered by object number so repeated runs over the
// same document enumerate images identically.
func (d *Document) PageImages(pageNr int) ([]RawImage, error) {
	imgs, err := pdfcpu.ExtractPageImages(d.ctx, pageNr, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list images on page %d: %v", pageNr, err)
	}

	raws := make([]RawImage, 0, len(imgs))
	for _, img := range imgs {
		data, err := io.ReadAll(img)
		if err != nil || len(data) == 0 {
			continue
		}
		raws = append(raws, RawImage{
			ObjNr:  img.ObjNr,
			Name:   img.Name,
			Format: strings.ToLower(img.FileType),
			Data:   data,
		})
	}

	sort.Slice(raws, func(i, j int) bool { return raws[i].ObjNr < raws[j].ObjNr })
	return raws, nil
}
