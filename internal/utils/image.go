package utils

// DefaultMaxImageBytes caps uploaded images at 10MB, matching the public
// upload contract (JPEG, PNG, WebP under 10MB).
const DefaultMaxImageBytes = 10 * 1024 * 1024

var allowedImageMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
}

// ValidateImageFile checks an upload's declared mime type and size before any
// analysis work is done. maxBytes <= 0 falls back to DefaultMaxImageBytes.
func ValidateImageFile(mimeType string, size int64, maxBytes int64) bool {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	if _, ok := allowedImageMimeTypes[mimeType]; !ok {
		return false
	}
	return size <= maxBytes
}
