// Package storage provides S3-compatible object storage for the
// submission archive. Submissions that could not be persisted in any
// store are written here so they can be recovered by hand.
package storage

import (
	"context"
	"time"
)

// FailedSubmission is the archived record of a submission that no
// persistence tier accepted.
type FailedSubmission struct {
	LeadType  string            `json:"leadType"`
	Fields    map[string]string `json:"fields"`
	SourceURL string            `json:"sourceUrl,omitempty"`
	IPAddress string            `json:"ipAddress,omitempty"`
	UserAgent string            `json:"userAgent,omitempty"`
	FailedAt  time.Time         `json:"failedAt"`
	LastError string            `json:"lastError"`
}

// ArchiveService stores failed submissions for manual recovery.
type ArchiveService interface {
	// ArchiveSubmission writes one failed submission and returns its object key.
	ArchiveSubmission(ctx context.Context, sub FailedSubmission) (string, error)
	// EnsureBucketExists creates the archive bucket if it doesn't exist.
	EnsureBucketExists(ctx context.Context) error
}
