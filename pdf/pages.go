package pdf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParsePageSpecifier parses a page selection string into a sorted, deduplicated
// list of page numbers. Supported formats: "1", "1,3", "1-5", "1,3-5,7".
func ParsePageSpecifier(spec string) ([]int, error) {
	spec = strings.ReplaceAll(spec, " ", "")
	if spec == "" {
		return nil, fmt.Errorf("empty page specification")
	}

	var pages []int
	for _, part := range strings.Split(spec, ",") {
		first, second, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(first)
		if err != nil {
			return nil, fmt.Errorf("invalid page number: %s", first)
		}

		end := start
		if isRange {
			end, err = strconv.Atoi(second)
			if err != nil {
				return nil, fmt.Errorf("invalid end page: %s", second)
			}
			if start > end {
				return nil, fmt.Errorf("invalid range: start > end (%d > %d)", start, end)
			}
		}

		for p := start; p <= end; p++ {
			pages = append(pages, p)
		}
	}

	sort.Ints(pages)
	deduped := pages[:0]
	for i, p := range pages {
		if i == 0 || p != pages[i-1] {
			deduped = append(deduped, p)
		}
	}
	return deduped, nil
}

// ValidatePageNumbers checks that every page number fits within the document.
func ValidatePageNumbers(pages []int, totalPages int) error {
	for _, p := range pages {
		if p < 1 {
			return fmt.Errorf("page numbers must be positive, got %d", p)
		}
		if p > totalPages {
			return fmt.Errorf("page %d exceeds total pages (%d)", p, totalPages)
		}
	}
	return nil
}
