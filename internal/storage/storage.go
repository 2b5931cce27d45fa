package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ignite/search-attribution/internal/config"
)

// Storage persists rendered reports and, for AWS runs, opens hit-data inputs.
// The backend is selected by config: "local" writes files under the configured
// output directory, "aws" talks to S3.
type Storage struct {
	config config.StorageConfig

	// AWS storage (optional)
	aws *AWSStorage
}

// New creates a new Storage instance
func New(ctx context.Context, cfg config.StorageConfig) (*Storage, error) {
	s := &Storage{config: cfg}

	switch cfg.Type {
	case "aws":
		awsStorage, err := NewAWSStorage(ctx, cfg.AWSRegion, cfg.GetAWSProfile())
		if err != nil {
			return nil, fmt.Errorf("initializing AWS storage: %w", err)
		}
		s.aws = awsStorage
	case "local", "":
		if err := os.MkdirAll(cfg.LocalPath, 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory %s: %w", cfg.LocalPath, err)
		}
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}

	return s, nil
}

// SaveReport writes the rendered report under the given filename and returns where it
// ended up (a file path, or an s3:// URL for AWS storage). The whole report is written
// in one shot; there are no partial writes.
func (s *Storage) SaveReport(ctx context.Context, filename, body string) (string, error) {
	if s.aws != nil {
		key := s.reportKey(filename)
		if err := s.aws.SaveReportToS3(ctx, s.config.OutputBucket, key, body); err != nil {
			return "", err
		}
		return fmt.Sprintf("s3://%s/%s", s.config.OutputBucket, key), nil
	}

	path := filepath.Join(s.config.LocalPath, filename)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("writing report %s: %w", path, err)
	}
	return path, nil
}

// OpenInput streams a hit-data object from S3. Only valid for AWS storage.
func (s *Storage) OpenInput(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if s.aws == nil {
		return nil, fmt.Errorf("S3 input requires storage type \"aws\"")
	}
	return s.aws.GetObjectStream(ctx, bucket, key)
}

func (s *Storage) reportKey(filename string) string {
	prefix := strings.TrimSuffix(s.config.OutputPrefix, "/")
	if prefix == "" {
		return filename
	}
	return prefix + "/" + filename
}
