// Package uploads stores employee photos on local disk.
//
// Files are written under a single upload directory with names that
// combine a millisecond timestamp and a random component, so concurrent
// uploads never collide. A name collision is a hard failure, never a
// silent overwrite. Stored paths are relative URLs under the configured
// prefix; the files themselves are served read-only by the static
// fileserver mounted in bootstrap.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rfields/staffdir/internal/app/system/httperr"
	"go.uber.org/zap"
)

// Failure modes surfaced to handlers.
var (
	ErrUnsupportedMediaType = httperr.ErrUnsupportedMediaType
	ErrPayloadTooLarge      = httperr.ErrPayloadTooLarge
	ErrStorageConflict      = httperr.ErrStorageConflict
)

// allowedTypes maps accepted image MIME types to a fallback extension,
// used when the uploaded filename has none.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
}

// Saver writes validated image uploads into a local directory.
type Saver struct {
	dir       string
	urlPrefix string
	maxBytes  int64
	log       *zap.Logger
}

// NewSaver creates the upload directory if needed and returns a Saver.
// urlPrefix is the public prefix the stored relative paths live under
// (e.g. "/uploads").
func NewSaver(dir, urlPrefix string, maxBytes int64, logger *zap.Logger) (*Saver, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Saver{
		dir:       dir,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		maxBytes:  maxBytes,
		log:       logger,
	}, nil
}

// SaveImage validates and stores one uploaded image, returning the
// relative URL to record on the employee.
//
// Both the declared Content-Type and the sniffed content must be on the
// allow-list. The size cap is enforced twice: against the reported part
// size before any write, and against the bytes actually copied; an
// overflow discards the partial file.
func (s *Saver) SaveImage(fh *multipart.FileHeader) (string, error) {
	if fh.Size > s.maxBytes {
		return "", ErrPayloadTooLarge
	}

	if declared := fh.Header.Get("Content-Type"); declared != "" {
		if _, ok := allowedTypes[normalizeMime(declared)]; !ok {
			return "", ErrUnsupportedMediaType
		}
	}

	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	sniffed, err := detectContentType(file)
	if err != nil {
		return "", fmt.Errorf("sniff upload: %w", err)
	}
	fallbackExt, ok := allowedTypes[sniffed]
	if !ok {
		return "", ErrUnsupportedMediaType
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = fallbackExt
	}

	name := fmt.Sprintf("image-%d-%s%s", time.Now().UnixMilli(), uuid.New().String()[:8], ext)
	dst := filepath.Join(s.dir, name)

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", ErrStorageConflict
		}
		return "", fmt.Errorf("create upload file: %w", err)
	}

	// Copy one byte past the cap so an oversized stream is detected even
	// when the reported part size lied.
	written, err := io.CopyN(out, file, s.maxBytes+1)
	closeErr := out.Close()
	switch {
	case err != nil && err != io.EOF:
		_ = os.Remove(dst)
		return "", fmt.Errorf("write upload: %w", err)
	case written > s.maxBytes:
		_ = os.Remove(dst)
		return "", ErrPayloadTooLarge
	case closeErr != nil:
		_ = os.Remove(dst)
		return "", fmt.Errorf("close upload file: %w", closeErr)
	}

	s.log.Info("image stored",
		zap.String("file", name),
		zap.Int64("bytes", written),
		zap.String("type", sniffed))

	return path.Join(s.urlPrefix, name), nil
}

// Remove deletes a previously stored image given its relative URL.
// Used to clean up after a failed create.
func (s *Saver) Remove(relPath string) error {
	name := path.Base(relPath)
	if name == "." || name == "/" || name == "" {
		return nil
	}
	return os.Remove(filepath.Join(s.dir, name))
}

// detectContentType sniffs the first 512 bytes and resets the reader.
func detectContentType(file multipart.File) (string, error) {
	buf := make([]byte, 512)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	if n == 0 {
		return "application/octet-stream", nil
	}
	return normalizeMime(http.DetectContentType(buf[:n])), nil
}

// normalizeMime drops any parameters and lowercases the media type.
func normalizeMime(ct string) string {
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
