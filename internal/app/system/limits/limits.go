// internal/app/system/limits/limits.go
package limits

// Request body size limits.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxImageUploadSize is the maximum accepted size for an employee photo.
	MaxImageUploadSize = 5 << 20 // 5 MiB

	// MaxMultipartMemory is how much of a multipart body is held in memory
	// before spilling to temp files; the rest of the form (text fields)
	// is small, so the image limit dominates.
	MaxMultipartMemory = 8 << 20 // 8 MiB

	// MaxLoginBodySize caps the login JSON body.
	MaxLoginBodySize = 1 << 20 // 1 MB
)
