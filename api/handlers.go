package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	pdfPkg "pdf_image_extractor/pdf"
)

// HandleExtract accepts a PDF upload, validates it, starts image extraction
// in the background and returns the job ID right away. The client polls the
// progress endpoint and fetches results from the images endpoint once the job
// reports done.
func HandleExtract(c *gin.Context, config *Config, store *Store) {
	file, header, err := c.Request.FormFile("pdf")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No PDF file provided"})
		return
	}
	defer file.Close()

	if err := validatePDFUpload(file, header, config.MaxFileSize); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload", "reason": err.Error()})
		return
	}

	if err := os.MkdirAll(config.TempDir, DefaultFilePermissions); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create temp directory"})
		return
	}

	job := store.Create(config.OutputDir)
	inFile := filepath.Join(config.TempDir, "input_"+job.ID+".pdf")

	out, err := os.Create(inFile)
	if err != nil {
		store.Fail(job.ID, "failed to create temp file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create temp file"})
		return
	}
	_, err = out.ReadFrom(file)
	out.Close()
	if err != nil {
		os.Remove(inFile)
		store.Fail(job.ID, "failed to save input file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save input file"})
		return
	}

	// Full structural validation beyond the header check above.
	if err := pdfPkg.ValidatePDF(inFile); err != nil {
		os.Remove(inFile)
		store.Fail(job.ID, err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid PDF file", "reason": err.Error()})
		return
	}

	opts, err := extractionOptions(c, config, store, job)
	if err != nil {
		os.Remove(inFile)
		store.Fail(job.ID, err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid extraction options", "reason": err.Error()})
		return
	}

	// The output directory is cleared before each run so re-running the same
	// document never accumulates files.
	if err := clearDir(job.OutputDir); err != nil {
		os.Remove(inFile)
		store.Fail(job.ID, err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare output directory"})
		return
	}

	optimizeQuality := 0
	if quality := c.PostForm("optimize_quality"); quality != "" {
		q, err := strconv.Atoi(quality)
		if err != nil || q < 1 || q > 100 {
			os.Remove(inFile)
			store.Fail(job.ID, "optimize_quality must be between 1 and 100")
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid extraction options", "reason": "optimize_quality must be between 1 and 100"})
			return
		}
		optimizeQuality = q
	}

	go runExtraction(store, job, opts, inFile, optimizeQuality)

	c.JSON(http.StatusAccepted, gin.H{"job_id": job.ID})
}

// runExtraction performs one job's extraction and records the outcome in the
// store. The run itself stays sequential; only the HTTP response is decoupled
// from it so the progress endpoint sees the job while it is in flight.
func runExtraction(store *Store, job *Job, opts pdfPkg.Options, inFile string, optimizeQuality int) {
	defer scheduleRemove(inFile)

	images, stats, err := pdfPkg.NewExtractor(opts).ExtractImages(inFile)
	if err != nil {
		log.Error().Err(err).Str("job_id", job.ID).Msg("extraction failed")
		store.Fail(job.ID, err.Error())
		return
	}

	var optimized []string
	if optimizeQuality > 0 {
		paths := make([]string, len(images))
		for i, img := range images {
			paths[i] = img.Path
		}
		for _, p := range pdfPkg.OptimizeImages(paths, optimizeQuality) {
			optimized = append(optimized, filepath.Base(p))
		}
	}

	store.Complete(job.ID, images, stats, optimized)
}

// HandleProgress reports how far a running extraction has gotten.
func HandleProgress(c *gin.Context, store *Store) {
	job, ok := store.Snapshot(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id":       job.ID,
		"status":       job.Status,
		"current_page": job.CurrentPage,
		"total_pages":  job.TotalPages,
		"error":        job.Error,
	})
}

// HandleListImages returns the extracted images and stats for a finished job.
func HandleListImages(c *gin.Context, store *Store) {
	job, ok := store.Snapshot(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	if job.Status != JobDone {
		c.JSON(http.StatusConflict, gin.H{"error": "Job is not finished", "status": job.Status})
		return
	}

	response := gin.H{
		"job_id": job.ID,
		"images": job.Images,
		"stats":  job.Stats,
	}
	if len(job.Optimized) > 0 {
		response["optimized"] = job.Optimized
	}
	c.JSON(http.StatusOK, response)
}

// HandleDownloadImage serves one extracted image as an attachment. An
// optional "as" query parameter renames the download; the original extension
// is kept if the new name drops it.
func HandleDownloadImage(c *gin.Context, store *Store) {
	job, ok := store.Snapshot(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	name := sanitizeFilename(c.Param("name"))
	fullPath := filepath.Join(job.OutputDir, name)
	if _, err := os.Stat(fullPath); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}

	downloadName := name
	if as := c.Query("as"); as != "" {
		downloadName = withExtension(sanitizeFilename(as), filepath.Ext(name))
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", downloadName))
	c.File(fullPath)
}

// zipRequest selects images for a ZIP download. An empty selection means all
// images of the job. DownloadName renames the file inside the archive.
type zipRequest struct {
	Images []zipEntry `json:"images"`
}

type zipEntry struct {
	Filename     string `json:"filename"`
	DownloadName string `json:"download_name"`
}

// HandleDownloadZip streams the selected images of a job as a ZIP archive.
func HandleDownloadZip(c *gin.Context, store *Store) {
	job, ok := store.Snapshot(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	if job.Status != JobDone {
		c.JSON(http.StatusConflict, gin.H{"error": "Job is not finished", "status": job.Status})
		return
	}

	var req zipRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "reason": err.Error()})
		return
	}

	// No explicit selection downloads everything.
	if len(req.Images) == 0 {
		for _, img := range job.Images {
			req.Images = append(req.Images, zipEntry{Filename: img.Filename})
		}
	}
	if len(req.Images) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No images to download"})
		return
	}

	entries := make([]ZipEntry, 0, len(req.Images))
	for _, sel := range req.Images {
		name := sanitizeFilename(sel.Filename)
		fullPath := filepath.Join(job.OutputDir, name)
		if _, err := os.Stat(fullPath); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Image not found", "reason": name})
			return
		}
		arcname := name
		if sel.DownloadName != "" {
			arcname = withExtension(sanitizeFilename(sel.DownloadName), filepath.Ext(name))
		}
		entries = append(entries, ZipEntry{Path: fullPath, Arcname: arcname})
	}

	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", `attachment; filename="extracted_images.zip"`)
	c.Status(http.StatusOK)

	if err := writeZip(c.Writer, entries); err != nil {
		// Headers are already out; all we can do is log and drop the conn.
		log.Error().Err(err).Str("job_id", job.ID).Msg("failed to stream ZIP archive")
	}
}

// extractionOptions builds pdf.Options from the request form, falling back to
// the service configuration.
func extractionOptions(c *gin.Context, config *Config, store *Store, job *Job) (pdfPkg.Options, error) {
	opts := pdfPkg.Options{
		OutputDir:      job.OutputDir,
		FilterLogos:    config.FilterLogos,
		MinImageSizeKB: config.MinImageSizeKB,
	}

	if v := c.PostForm("filter_logos"); v != "" {
		filter, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("filter_logos must be a boolean, got %q", v)
		}
		opts.FilterLogos = filter
	}

	if v := c.PostForm("min_size_kb"); v != "" {
		minSize, err := strconv.Atoi(v)
		if err != nil || minSize < 0 {
			return opts, fmt.Errorf("min_size_kb must be a non-negative integer, got %q", v)
		}
		opts.MinImageSizeKB = minSize
	}

	if v := c.PostForm("pages"); v != "" {
		pages, err := pdfPkg.ParsePageSpecifier(v)
		if err != nil {
			return opts, err
		}
		opts.Pages = pages
	}

	opts.Progress = func(current, total int) {
		store.SetProgress(job.ID, current, total)
	}

	return opts, nil
}

// validatePDFUpload checks the upload size cap and the PDF magic header.
func validatePDFUpload(file multipart.File, header *multipart.FileHeader, maxSize int64) error {
	if header.Size > maxSize {
		return fmt.Errorf("file size %d exceeds maximum allowed %d bytes", header.Size, maxSize)
	}

	buffer := make([]byte, 4)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file header: %v", err)
	}
	if n < 4 || string(buffer[:4]) != "%PDF" {
		return fmt.Errorf("invalid PDF file: header does not match")
	}

	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to reset file position: %v", err)
	}
	return nil
}

// sanitizeFilename removes path traversal attempts and dangerous characters
func sanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "..", "")
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = filepath.Base(filename)
	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = "image"
	}
	return filename
}

// withExtension appends ext when name has no extension of its own.
func withExtension(name, ext string) string {
	if filepath.Ext(name) == "" && ext != "" {
		return name + ext
	}
	return name
}

// clearDir empties dir, creating it if it does not exist.
func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return os.MkdirAll(dir, DefaultFilePermissions)
		}
		return fmt.Errorf("failed to read output directory: %v", err)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("failed to clear output directory: %v", err)
		}
	}
	return nil
}

// scheduleRemove deletes a temp file shortly after the response is sent to
// avoid racing the file transfer.
func scheduleRemove(path string) {
	go func() {
		time.Sleep(InputCleanupDelay)
		os.Remove(path)
	}()
}
