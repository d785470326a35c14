// Package archive writes consumed data batches to an object store as
// parquet artifacts, one per committed Add/Update. Archival runs after the
// transaction commits and is best-effort: failures are reported to the
// caller for logging, never to the client.
package archive

import (
	"context"
	"path"
	"strings"
)

// ObjectStore abstracts the minimal S3 operations the archiver needs.
type ObjectStore interface {
	Ping(ctx context.Context) error
	EnsureBucket(ctx context.Context, bucket string) error
	BucketExists(ctx context.Context, bucket string) (bool, error)
	PutObject(ctx context.Context, bucket, key string, data []byte) error
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	ListPrefix(ctx context.Context, bucket, prefix string) ([]string, error)
}

func joinKey(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			clean = append(clean, sanitizeSegment(p))
		}
	}
	return path.Join(clean...)
}

// sanitizeSegment keeps object keys flat and portable: path separators and
// spaces collapse to dashes.
func sanitizeSegment(s string) string {
	s = strings.TrimSpace(s)
	for _, bad := range []string{"/", "\\", " ", "(", ")"} {
		s = strings.ReplaceAll(s, bad, "-")
	}
	return strings.Trim(s, "-")
}
