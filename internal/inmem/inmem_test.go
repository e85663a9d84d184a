package inmem

import (
	"context"
	"testing"

	"anoa.com/assignmenthub/internal/entity"
	assignmentRepo "anoa.com/assignmenthub/internal/modules/assignment/repository"
	notifRepo "anoa.com/assignmenthub/internal/modules/notification/repository"
	submissionRepo "anoa.com/assignmenthub/internal/modules/submission/repository"
	userRepo "anoa.com/assignmenthub/internal/modules/user/repository"
	"anoa.com/assignmenthub/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	_ userRepo.UserRepository             = (*UserRepository)(nil)
	_ assignmentRepo.AssignmentRepository = (*AssignmentRepository)(nil)
	_ submissionRepo.SubmissionRepository = (*SubmissionRepository)(nil)
	_ notifRepo.NotificationRepository    = (*NotificationRepository)(nil)
	_ storage.FileStorage                 = (*FileStorage)(nil)
)

func strPtr(s string) *string { return &s }

func TestUserRepositoryUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	require.NoError(t, repo.Create(ctx, &entity.User{Email: "a@x.com", RegNumber: strPtr("S1")}))
	require.NoError(t, repo.Create(ctx, &entity.User{Email: "l1@x.com"}))
	require.NoError(t, repo.Create(ctx, &entity.User{Email: "l2@x.com"}), "NULL reg numbers never collide")

	assert.ErrorIs(t, repo.Create(ctx, &entity.User{Email: "a@x.com"}), gorm.ErrDuplicatedKey)
	assert.ErrorIs(t, repo.Create(ctx, &entity.User{Email: "b@x.com", RegNumber: strPtr("S1")}), gorm.ErrDuplicatedKey)

	_, err := repo.FindByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSubmissionUpsertKeepsOneRow(t *testing.T) {
	ctx := context.Background()
	repo := NewSubmissionRepository()

	first := &entity.Submission{StudentID: 1, AssignmentID: 2, FilePath: "a.pdf"}
	replaced, err := repo.Upsert(ctx, first)
	require.NoError(t, err)
	assert.Empty(t, replaced)

	_, err = repo.UpdateGrade(ctx, first.ID, 90, strPtr("good"))
	require.NoError(t, err)

	second := &entity.Submission{StudentID: 1, AssignmentID: 2, FilePath: "b.pdf"}
	replaced, err = repo.Upsert(ctx, second)
	require.NoError(t, err)

	assert.Equal(t, "a.pdf", replaced)
	assert.Equal(t, first.ID, second.ID)
	assert.Nil(t, second.Grade)
	assert.Nil(t, second.Feedback)
	assert.Equal(t, 1, repo.Count())

	files, err := repo.FindSupersededFiles(ctx, 10)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "a.pdf", files[0].FilePath)
}
