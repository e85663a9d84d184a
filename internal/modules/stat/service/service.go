package service

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/assignmenthub/internal/entity"
	assignmentRepo "anoa.com/assignmenthub/internal/modules/assignment/repository"
	"anoa.com/assignmenthub/internal/modules/stat/dto"
	submissionRepo "anoa.com/assignmenthub/internal/modules/submission/repository"
	userRepo "anoa.com/assignmenthub/internal/modules/user/repository"
	"anoa.com/assignmenthub/pkg/apperror"
	"gorm.io/gorm"
)

type StatService interface {
	GetTotalUsers(ctx context.Context) (int64, error)
	// GetAssignmentStats summarizes grading progress. Only the owning
	// lecturer may read it.
	GetAssignmentStats(ctx context.Context, caller *entity.User, assignmentID uint) (*dto.AssignmentStats, error)
}

type statService struct {
	userRepo       userRepo.UserRepository
	assignmentRepo assignmentRepo.AssignmentRepository
	submissionRepo submissionRepo.SubmissionRepository
}

func NewStatService(userRepo userRepo.UserRepository, assignmentRepo assignmentRepo.AssignmentRepository, submissionRepo submissionRepo.SubmissionRepository) StatService {
	return &statService{
		userRepo:       userRepo,
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
	}
}

func (s *statService) GetTotalUsers(ctx context.Context) (int64, error) {
	return s.userRepo.Count(ctx)
}

func (s *statService) GetAssignmentStats(ctx context.Context, caller *entity.User, assignmentID uint) (*dto.AssignmentStats, error) {
	assignment, err := s.assignmentRepo.FindByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("assignment not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if !caller.IsLecturer() || assignment.LecturerID != caller.ID {
		return nil, fmt.Errorf("not authorized to view these statistics: %w", apperror.ErrForbidden)
	}

	subs, err := s.submissionRepo.FindByAssignment(ctx, assignment.ID)
	if err != nil {
		return nil, err
	}

	stats := &dto.AssignmentStats{AssignmentID: assignment.ID, Submissions: len(subs)}
	var total int
	for _, sub := range subs {
		if sub.Grade != nil {
			stats.Graded++
			total += *sub.Grade
		}
	}
	if stats.Graded > 0 {
		avg := float64(total) / float64(stats.Graded)
		stats.AverageGrade = &avg
	}

	return stats, nil
}
