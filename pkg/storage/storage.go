package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// FileStorage defines the contract for the blob store holding uploads.
type FileStorage interface {
	// Upload writes r under key and returns the location to persist.
	Upload(ctx context.Context, r io.Reader, key string) (string, error)
	// Delete removes a previously uploaded file by the location Upload returned.
	Delete(ctx context.Context, location string) error
}

// SubmissionKey builds a collision free key for a submission upload. The
// student, assignment and time go into the name; a short random suffix keeps
// two uploads in the same nanosecond apart.
func SubmissionKey(studentID, assignmentID uint, fileName string, at time.Time) string {
	ext := strings.ToLower(filepath.Ext(path.Base(filepath.ToSlash(fileName))))
	if len(ext) > 16 || strings.ContainsAny(ext, " /\\") {
		ext = ""
	}
	return fmt.Sprintf("submissions/%d_%d_%d_%s%s",
		studentID, assignmentID, at.UnixNano(), uuid.NewString()[:8], ext)
}
