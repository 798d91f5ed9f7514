package api

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
)

// ZipEntry names one file to include in an archive under a chosen arcname.
type ZipEntry struct {
	Path    string
	Arcname string
}

// writeZip streams a DEFLATE-compressed archive of the given files to w.
func writeZip(w io.Writer, entries []ZipEntry) error {
	zw := zip.NewWriter(w)

	for _, entry := range entries {
		f, err := os.Open(entry.Path)
		if err != nil {
			zw.Close()
			return fmt.Errorf("failed to open %s: %v", entry.Path, err)
		}

		dst, err := zw.Create(entry.Arcname)
		if err != nil {
			f.Close()
			zw.Close()
			return fmt.Errorf("failed to add %s to archive: %v", entry.Arcname, err)
		}

		_, err = io.Copy(dst, f)
		f.Close()
		if err != nil {
			zw.Close()
			return fmt.Errorf("failed to write %s to archive: %v", entry.Arcname, err)
		}
	}

	return zw.Close()
}
