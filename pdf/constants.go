package pdf

const (
	// DefaultMinImageSizeKB is the minimum size for an extracted image in KB.
	// Anything smaller is skipped before the logo filter even runs.
	DefaultMinImageSizeKB = 1

	// DefaultJPEGQuality is the JPEG quality used when optimizing images.
	DefaultJPEGQuality = 95

	// LogoMinDimension is the width/height in pixels below which an image
	// is considered logo-like.
	LogoMinDimension = 100

	// LogoAspectLow and LogoAspectHigh bound the near-square aspect ratio
	// range typical for logos and icons.
	LogoAspectLow  = 0.8
	LogoAspectHigh = 1.2

	// LogoMaxBytes is the byte size below which an image is considered
	// logo-like (10KB).
	LogoMaxBytes = 10 * 1024
)

// SupportedImageFormats lists the file types eligible for extraction, keyed
// by the extension pdfcpu reports for the embedded image stream.
var SupportedImageFormats = []string{"jpeg", "jpg", "png", "gif", "bmp", "tiff", "tif"}
