package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"realty_leads_backend/platform/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOArchive implements ArchiveService using MinIO.
type MinIOArchive struct {
	client *minio.Client
	bucket string
}

// NewMinIOArchive creates a new MinIO-backed submission archive.
func NewMinIOArchive(cfg config.ArchiveConfig) (*MinIOArchive, error) {
	if !cfg.IsArchiveEnabled() {
		return nil, fmt.Errorf("archive storage is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &MinIOArchive{
		client: client,
		bucket: cfg.GetArchiveBucket(),
	}, nil
}

// EnsureBucketExists creates the archive bucket if it doesn't exist.
func (s *MinIOArchive) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}

	return nil
}

// ArchiveSubmission writes one failed submission as a JSON object keyed
// by date and a fresh UUID.
func (s *MinIOArchive) ArchiveSubmission(ctx context.Context, sub FailedSubmission) (string, error) {
	if sub.FailedAt.IsZero() {
		sub.FailedAt = time.Now()
	}

	payload, err := json.MarshalIndent(sub, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal failed submission: %w", err)
	}

	key := fmt.Sprintf("%s/%s/%s.json",
		sub.LeadType,
		sub.FailedAt.UTC().Format("2006-01-02"),
		uuid.New(),
	)

	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(payload), int64(len(payload)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive submission %s: %w", key, err)
	}
	return key, nil
}

// Compile-time check that MinIOArchive implements ArchiveService
var _ ArchiveService = (*MinIOArchive)(nil)
