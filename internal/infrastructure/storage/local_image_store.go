// Package storage keeps listing images on the local filesystem.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	catalogapp "github.com/Geogebrd/scaond-hand-platform/internal/application/catalog"
	"github.com/Geogebrd/scaond-hand-platform/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// allowedImageTypes maps sniffed content types to the stored file extension
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// LocalImageStore writes uploads under dir with generated names. The returned
// path is "<prefix>/<name>", where prefix is the last element of dir, so it can
// be served by a static route mounted at the same prefix.
type LocalImageStore struct {
	dir     string
	prefix  string
	maxSize int64
	logger  *zap.Logger
}

// NewLocalImageStore creates dir if needed
func NewLocalImageStore(dir string, maxSize int64, logger *zap.Logger) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &LocalImageStore{
		dir:     dir,
		prefix:  filepath.Base(filepath.Clean(dir)),
		maxSize: maxSize,
		logger:  logger,
	}, nil
}

// Dir returns the directory served under Prefix
func (s *LocalImageStore) Dir() string { return s.dir }

// Prefix returns the first element of every stored path
func (s *LocalImageStore) Prefix() string { return s.prefix }

// Save checks the real content type from the first bytes, not the client's
// header, and rejects anything larger than the configured limit.
func (s *LocalImageStore) Save(ctx context.Context, upload catalogapp.ImageUpload) (string, error) {
	if upload.Content == nil {
		return "", shared.NewValidationError("Image is empty")
	}
	if s.maxSize > 0 && upload.Size > s.maxSize {
		return "", shared.NewValidationError(fmt.Sprintf("Image exceeds %d bytes", s.maxSize))
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(upload.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		if errors.Is(err, io.EOF) {
			return "", shared.NewValidationError("Image is empty")
		}
		return "", shared.NewStorageError("Failed to read image", err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", shared.NewValidationError("Unsupported image type")
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(s.dir, name)
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", shared.NewStorageError("Failed to store image", err)
	}

	var body io.Reader = io.MultiReader(bytes.NewReader(head), upload.Content)
	if s.maxSize > 0 {
		// one extra byte detects oversized bodies with a lying Size
		body = io.LimitReader(body, s.maxSize+1)
	}
	written, copyErr := io.Copy(f, body)
	closeErr := f.Close()

	switch {
	case copyErr != nil || closeErr != nil:
		_ = os.Remove(dst)
		return "", shared.NewStorageError("Failed to store image", errors.Join(copyErr, closeErr))
	case s.maxSize > 0 && written > s.maxSize:
		_ = os.Remove(dst)
		return "", shared.NewValidationError(fmt.Sprintf("Image exceeds %d bytes", s.maxSize))
	}

	s.logger.Debug("Image stored",
		zap.String("name", name),
		zap.String("content_type", contentType),
		zap.Int64("size", written))
	return path.Join(s.prefix, name), nil
}

// Delete removes a file previously returned by Save. Paths outside the store
// and missing files are ignored.
func (s *LocalImageStore) Delete(ctx context.Context, stored string) error {
	dir, name := path.Split(stored)
	if strings.TrimSuffix(dir, "/") != s.prefix || name == "" || name == "." || name == ".." {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return shared.NewStorageError("Failed to delete image", err)
	}
	return nil
}

var _ catalogapp.ImageStore = (*LocalImageStore)(nil)
