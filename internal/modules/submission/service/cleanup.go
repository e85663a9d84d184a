package service

import (
	"context"
	"fmt"

	repo "anoa.com/assignmenthub/internal/modules/submission/repository"
	"anoa.com/assignmenthub/pkg/logger"
	"anoa.com/assignmenthub/pkg/storage"
)

const cleanupBatchSize = 100

// CleanupJob deletes uploads that a resubmission replaced. A file whose
// delete fails stays queued for the next run.
type CleanupJob struct {
	repo     repo.SubmissionRepository
	storage  storage.FileStorage
	schedule string
}

func NewCleanupJob(repo repo.SubmissionRepository, fileStorage storage.FileStorage, schedule string) *CleanupJob {
	return &CleanupJob{repo: repo, storage: fileStorage, schedule: schedule}
}

func (j *CleanupJob) Name() string {
	return "superseded-file-cleanup"
}

func (j *CleanupJob) Schedule() string {
	return j.schedule
}

func (j *CleanupJob) Execute(ctx context.Context) error {
	files, err := j.repo.FindSupersededFiles(ctx, cleanupBatchSize)
	if err != nil {
		return fmt.Errorf("failed to load superseded files: %w", err)
	}

	var failed int
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := j.storage.Delete(ctx, f.FilePath); err != nil {
			failed++
			logger.Log.WithError(err).WithField("file_path", f.FilePath).Warn("failed to delete superseded file")
			continue
		}
		if err := j.repo.DeleteSupersededFile(ctx, f.ID); err != nil {
			return fmt.Errorf("failed to dequeue superseded file %d: %w", f.ID, err)
		}
	}

	logger.Log.WithField("deleted", len(files)-failed).WithField("failed", failed).Info("superseded file cleanup finished")
	return nil
}
