package pdf

import (
	"fmt"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ValidatePDF checks that path points to a readable, well-formed PDF with at
// least one page. It returns a *ValidationError describing the first problem
// found, or nil.
func ValidatePDF(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &ValidationError{Reason: fmt.Sprintf("file does not exist: %s", path), Err: err}
		}
		return &ValidationError{Reason: fmt.Sprintf("cannot access file: %s", path), Err: err}
	}
	if info.IsDir() {
		return &ValidationError{Reason: fmt.Sprintf("path is a directory, not a file: %s", path)}
	}

	count, err := api.PageCountFile(path)
	if err != nil {
		return &ValidationError{Reason: "file is not a valid PDF", Err: err}
	}
	if count == 0 {
		return &ValidationError{Reason: "PDF file is empty"}
	}

	return nil
}
