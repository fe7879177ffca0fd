// Package storage provides bucket-style file storage on local disk with
// public URLs, the stand-in for the hosted object store the platform
// originally used.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// avatarMaxDim bounds uploaded avatar images on their longest side.
const avatarMaxDim = 512

// Service stores uploaded files under root/<bucket>/<path> and serves them
// below publicBaseURL/uploads/<bucket>/<path>.
type Service struct {
	root          string
	publicBaseURL string
	logger        *zap.Logger
}

func NewService(root, publicBaseURL string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		root:          root,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// Root returns the on-disk storage root, for static file serving.
func (s *Service) Root() string {
	return s.root
}

// Upload writes the blob to bucket/path, overwriting any existing object,
// and returns its public URL.
func (s *Service) Upload(ctx context.Context, bucket, path string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dest, err := s.destPath(bucket, path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	f, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("failed to create object file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	url := s.publicURL(bucket, path)
	s.logger.Debug("Object stored",
		zap.String("bucket", bucket),
		zap.String("path", path),
		zap.String("url", url),
	)
	return url, nil
}

// UploadImage decodes the blob, downscales it to fit avatarMaxDim and stores
// the result. Orientation metadata is honored during decode.
func (s *Service) UploadImage(ctx context.Context, bucket, path string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > avatarMaxDim || bounds.Dy() > avatarMaxDim {
		img = imaging.Fit(img, avatarMaxDim, avatarMaxDim, imaging.Lanczos)
	}

	dest, err := s.destPath(bucket, path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}
	if err := imaging.Save(img, dest); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	url := s.publicURL(bucket, path)
	s.logger.Debug("Image stored",
		zap.String("bucket", bucket),
		zap.String("path", path),
		zap.String("url", url),
	)
	return url, nil
}

func (s *Service) destPath(bucket, path string) (string, error) {
	cleaned := filepath.Clean("/" + path)
	if bucket == "" || strings.ContainsAny(bucket, "/\\") {
		return "", fmt.Errorf("invalid bucket name %q", bucket)
	}
	return filepath.Join(s.root, bucket, cleaned), nil
}

func (s *Service) publicURL(bucket, path string) string {
	cleaned := strings.TrimLeft(filepath.ToSlash(filepath.Clean("/"+path)), "/")
	return fmt.Sprintf("%s/uploads/%s/%s", s.publicBaseURL, bucket, cleaned)
}
