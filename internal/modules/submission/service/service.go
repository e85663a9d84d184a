package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/assignmenthub/internal/entity"
	assignmentRepo "anoa.com/assignmenthub/internal/modules/assignment/repository"
	notifService "anoa.com/assignmenthub/internal/modules/notification/service"
	"anoa.com/assignmenthub/internal/modules/submission/dto"
	repo "anoa.com/assignmenthub/internal/modules/submission/repository"
	"anoa.com/assignmenthub/pkg/apperror"
	"anoa.com/assignmenthub/pkg/clock"
	"anoa.com/assignmenthub/pkg/logger"
	"anoa.com/assignmenthub/pkg/ratelimiter"
	"anoa.com/assignmenthub/pkg/sanitize"
	"anoa.com/assignmenthub/pkg/storage"
	"gorm.io/gorm"
)

const rateLimitAction = "submit"

type Service interface {
	Submit(ctx context.Context, caller *entity.User, assignmentID uint, file dto.UploadedFile) (*entity.Submission, error)
	Grade(ctx context.Context, caller *entity.User, submissionID uint, req dto.GradeRequest) (*entity.Submission, error)
	ListForAssignment(ctx context.Context, caller *entity.User, assignmentID uint) ([]entity.Submission, error)
	GetMine(ctx context.Context, caller *entity.User, assignmentID uint) (*entity.Submission, error)
}

type service struct {
	repo           repo.SubmissionRepository
	assignmentRepo assignmentRepo.AssignmentRepository
	storage        storage.FileStorage
	limiter        *ratelimiter.Limiter
	notifications  notifService.NotificationService
	clock          clock.Clock
	rateWindow     time.Duration
}

type Options struct {
	Limiter       *ratelimiter.Limiter
	Notifications notifService.NotificationService
	Clock         clock.Clock
	// RateWindow is the minimum gap between two submissions of one student
	// to one assignment. Zero disables the limit.
	RateWindow time.Duration
}

func NewService(repo repo.SubmissionRepository, assignmentRepo assignmentRepo.AssignmentRepository, fileStorage storage.FileStorage, opts Options) Service {
	c := opts.Clock
	if c == nil {
		c = clock.System()
	}
	return &service{
		repo:           repo,
		assignmentRepo: assignmentRepo,
		storage:        fileStorage,
		limiter:        opts.Limiter,
		notifications:  opts.Notifications,
		clock:          c,
		rateWindow:     opts.RateWindow,
	}
}

func (s *service) Submit(ctx context.Context, caller *entity.User, assignmentID uint, file dto.UploadedFile) (*entity.Submission, error) {
	if !caller.IsStudent() {
		return nil, fmt.Errorf("only students can submit: %w", apperror.ErrForbidden)
	}
	if file.Reader == nil {
		return nil, fmt.Errorf("file is required: %w", apperror.ErrInvalidInput)
	}

	assignment, err := s.findAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if assignment.DeadlinePassed(now) {
		return nil, apperror.ErrDeadlinePassed
	}

	release, err := s.limiter.Acquire(ctx, rateLimitAction, caller.ID, assignment.ID, s.rateWindow)
	if err != nil {
		return nil, err
	}

	key := storage.SubmissionKey(caller.ID, assignment.ID, file.FileName, now)
	location, err := s.storage.Upload(ctx, file.Reader, key)
	if err != nil {
		release()
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	sub := &entity.Submission{
		FilePath:     location,
		SubmittedAt:  now,
		StudentID:    caller.ID,
		AssignmentID: assignment.ID,
	}
	if _, err := s.repo.Upsert(ctx, sub); err != nil {
		release()
		// The row was never written, so the new upload is unreferenced.
		if delErr := s.storage.Delete(context.Background(), location); delErr != nil {
			logger.Log.WithError(delErr).WithField("location", location).Warn("failed to remove orphaned upload")
		}
		return nil, err
	}

	s.notify(ctx, &entity.Notification{
		UserID:       assignment.LecturerID,
		ActorID:      caller.ID,
		Type:         entity.NotificationSubmissionReceived,
		Message:      fmt.Sprintf("%s submitted %s", caller.FullName, assignment.Title),
		AssignmentID: assignment.ID,
		SubmissionID: sub.ID,
	})

	return sub, nil
}

func (s *service) Grade(ctx context.Context, caller *entity.User, submissionID uint, req dto.GradeRequest) (*entity.Submission, error) {
	if req.Grade == nil {
		return nil, fmt.Errorf("grade is required: %w", apperror.ErrInvalidInput)
	}

	sub, err := s.repo.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("submission not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	assignment, err := s.findAssignment(ctx, sub.AssignmentID)
	if err != nil {
		return nil, err
	}
	if !caller.IsLecturer() || assignment.LecturerID != caller.ID {
		return nil, fmt.Errorf("not authorized to grade this submission: %w", apperror.ErrForbidden)
	}

	graded, err := s.repo.UpdateGrade(ctx, sub.ID, *req.Grade, sanitize.Optional(req.Feedback))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("submission not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	s.notify(ctx, &entity.Notification{
		UserID:       graded.StudentID,
		ActorID:      caller.ID,
		Type:         entity.NotificationSubmissionGraded,
		Message:      fmt.Sprintf("Your submission for %s was graded: %d", assignment.Title, *req.Grade),
		AssignmentID: assignment.ID,
		SubmissionID: graded.ID,
	})

	return graded, nil
}

func (s *service) ListForAssignment(ctx context.Context, caller *entity.User, assignmentID uint) ([]entity.Submission, error) {
	assignment, err := s.findAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if !caller.IsLecturer() || assignment.LecturerID != caller.ID {
		return nil, fmt.Errorf("not authorized to view these submissions: %w", apperror.ErrForbidden)
	}

	return s.repo.FindByAssignment(ctx, assignment.ID)
}

func (s *service) GetMine(ctx context.Context, caller *entity.User, assignmentID uint) (*entity.Submission, error) {
	sub, err := s.repo.FindByStudentAndAssignment(ctx, caller.ID, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("submission not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return sub, nil
}

func (s *service) findAssignment(ctx context.Context, id uint) (*entity.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("assignment not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return assignment, nil
}

func (s *service) notify(ctx context.Context, n *entity.Notification) {
	if s.notifications == nil {
		return
	}
	if err := s.notifications.CreateNotification(ctx, n); err != nil {
		logger.Log.WithError(err).WithField("type", n.Type).Warn("failed to create notification")
	}
}
