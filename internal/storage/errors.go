package storage

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/minio/minio-go/v7"
)

// ErrNoSuchKey is returned by backends that track missing objects
// directly, like the filesystem store.
var ErrNoSuchKey = errors.New("no such key")

// IsNoSuchKey reports whether an error clearly means the object does
// not exist (S3/MinIO NoSuchKey/NotFound, or a missing file).
func IsNoSuchKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNoSuchKey) || errors.Is(err, fs.ErrNotExist) {
		return true
	}

	var minioErr minio.ErrorResponse
	if errors.As(err, &minioErr) {
		switch strings.ToLower(strings.TrimSpace(minioErr.Code)) {
		case "nosuchkey", "notfound":
			return true
		}
	}

	// Some gateways flatten errors into plain strings.
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "nosuchkey") ||
		strings.Contains(lower, "specified key does not exist") ||
		strings.Contains(lower, "not found")
}
