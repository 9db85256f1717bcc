package service

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const MaxUploadBytes = 5 << 20 // 5 MiB

var (
	ErrEmptyUpload     = errors.New("no file to upload")
	ErrUploadTooLarge  = errors.New("file exceeds the upload size limit")
	ErrUnsupportedType = errors.New("unsupported image type")
)

var allowedImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// UploadService stores poster images on local disk under a per-type
// subdirectory and hands back the public URL.
type UploadService struct {
	dir    string
	prefix string
	log    *zap.Logger
}

func NewUploadService(dir, urlPrefix string, log *zap.Logger) *UploadService {
	return &UploadService{dir: dir, prefix: urlPrefix, log: log}
}

// SaveImage validates and persists one uploaded image. The stored name is a
// fresh UUID so concurrent uploads of the same filename cannot collide.
// size is the declared length of r; reading is capped at the limit anyway.
func (s *UploadService) SaveImage(r io.Reader, contentType, kind string, size int64) (string, error) {
	if size == 0 {
		return "", ErrEmptyUpload
	}
	if size > MaxUploadBytes {
		return "", ErrUploadTooLarge
	}
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", ErrUnsupportedType
	}

	if kind == "" {
		kind = "misc"
	}
	kind = filepath.Base(strings.TrimSpace(kind)) // no path traversal via type

	dir := filepath.Join(s.dir, kind)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("upload directory creation failed: %w", err)
	}

	name := uuid.NewString() + "." + ext
	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("upload file creation failed: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("upload write failed: %w", err)
	}
	if written > MaxUploadBytes {
		os.Remove(path)
		return "", ErrUploadTooLarge
	}

	s.log.Info("image stored", zap.String("path", path), zap.Int64("bytes", written))
	return s.prefix + "/" + kind + "/" + name, nil
}
