package service

import (
	"context"
	"errors"
	"fmt"

	"anoa.com/assignmenthub/internal/entity"
	"anoa.com/assignmenthub/internal/modules/assignment/dto"
	repo "anoa.com/assignmenthub/internal/modules/assignment/repository"
	search "anoa.com/assignmenthub/internal/modules/search/service"
	"anoa.com/assignmenthub/pkg/apperror"
	"anoa.com/assignmenthub/pkg/logger"
	"anoa.com/assignmenthub/pkg/sanitize"
	"gorm.io/gorm"
)

const defaultSearchLimit = 20

type Service interface {
	CreateAssignment(ctx context.Context, caller *entity.User, req dto.CreateAssignmentRequest) (*entity.Assignment, error)
	// ListAssignments shows a lecturer only their own assignments; students
	// see every assignment.
	ListAssignments(ctx context.Context, caller *entity.User) ([]entity.Assignment, error)
	SearchAssignments(ctx context.Context, caller *entity.User, query string, limit int) ([]entity.Assignment, error)
	GetAssignment(ctx context.Context, caller *entity.User, id uint) (*entity.Assignment, error)
}

type service struct {
	repo  repo.AssignmentRepository
	index search.AssignmentIndex
}

// NewService wires the assignment service. index may be nil, in which case
// search falls back to the database.
func NewService(repo repo.AssignmentRepository, index search.AssignmentIndex) Service {
	return &service{repo: repo, index: index}
}

func (s *service) CreateAssignment(ctx context.Context, caller *entity.User, req dto.CreateAssignmentRequest) (*entity.Assignment, error) {
	if !caller.IsLecturer() {
		return nil, fmt.Errorf("only lecturers can create assignments: %w", apperror.ErrForbidden)
	}

	title := sanitize.Text(req.Title)
	if title == "" {
		return nil, fmt.Errorf("title is required: %w", apperror.ErrInvalidInput)
	}

	assignment := &entity.Assignment{
		Title:       title,
		Description: sanitize.Text(req.Description),
		LecturerID:  caller.ID,
	}
	if req.Deadline != nil {
		deadline := req.Deadline.UTC()
		assignment.Deadline = &deadline
	}

	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, err
	}

	if s.index != nil {
		if err := s.index.IndexAssignment(assignment); err != nil {
			logger.Log.WithError(err).Warn("failed to index assignment")
		}
	}

	return assignment, nil
}

func (s *service) ListAssignments(ctx context.Context, caller *entity.User) ([]entity.Assignment, error) {
	if caller.IsLecturer() {
		return s.repo.FindByLecturer(ctx, caller.ID)
	}
	return s.repo.FindAll(ctx)
}

func (s *service) SearchAssignments(ctx context.Context, caller *entity.User, query string, limit int) ([]entity.Assignment, error) {
	query = sanitize.Text(query)
	if query == "" {
		return nil, fmt.Errorf("search query is required: %w", apperror.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	var lecturerID *uint
	if caller.IsLecturer() {
		id := caller.ID
		lecturerID = &id
	}

	if s.index != nil {
		ids, err := s.index.SearchAssignmentIDs(query, lecturerID, int64(limit))
		if err == nil {
			return s.hydrate(ctx, ids, lecturerID)
		}
		logger.Log.WithError(err).Warn("search index unavailable, falling back to database")
	}

	return s.repo.Search(ctx, query, lecturerID, limit)
}

// hydrate loads ids from the database keeping the index order. Rows the
// caller may not see are dropped even if the index returned them.
func (s *service) hydrate(ctx context.Context, ids []uint, lecturerID *uint) ([]entity.Assignment, error) {
	rows, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]entity.Assignment, len(rows))
	for _, a := range rows {
		byID[a.ID] = a
	}

	result := make([]entity.Assignment, 0, len(ids))
	for _, id := range ids {
		a, ok := byID[id]
		if !ok {
			continue
		}
		if lecturerID != nil && a.LecturerID != *lecturerID {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (s *service) GetAssignment(ctx context.Context, caller *entity.User, id uint) (*entity.Assignment, error) {
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("assignment not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	if caller.IsLecturer() && assignment.LecturerID != caller.ID {
		return nil, fmt.Errorf("not authorized to view this assignment: %w", apperror.ErrForbidden)
	}

	return assignment, nil
}
