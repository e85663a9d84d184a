package repository

import (
	"context"
	"strings"

	"anoa.com/assignmenthub/internal/entity"
	"gorm.io/gorm"
)

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *entity.Assignment) error
	FindByID(ctx context.Context, id uint) (*entity.Assignment, error)
	FindByIDs(ctx context.Context, ids []uint) ([]entity.Assignment, error)
	FindAll(ctx context.Context) ([]entity.Assignment, error)
	FindByLecturer(ctx context.Context, lecturerID uint) ([]entity.Assignment, error)
	// Search matches title or description case-insensitively. A non-nil
	// lecturerID restricts the result to that lecturer's assignments.
	Search(ctx context.Context, query string, lecturerID *uint, limit int) ([]entity.Assignment, error)
}

type assignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *entity.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) FindByID(ctx context.Context, id uint) (*entity.Assignment, error) {
	var assignment entity.Assignment
	if err := r.db.WithContext(ctx).First(&assignment, id).Error; err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepository) FindByIDs(ctx context.Context, ids []uint) ([]entity.Assignment, error) {
	var assignments []entity.Assignment
	if len(ids) == 0 {
		return assignments, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) FindAll(ctx context.Context) ([]entity.Assignment, error) {
	var assignments []entity.Assignment
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) FindByLecturer(ctx context.Context, lecturerID uint) ([]entity.Assignment, error) {
	var assignments []entity.Assignment
	err := r.db.WithContext(ctx).
		Where("lecturer_id = ?", lecturerID).
		Order("id ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepository) Search(ctx context.Context, query string, lecturerID *uint, limit int) ([]entity.Assignment, error) {
	var assignments []entity.Assignment

	pattern := "%" + escapeLike(query) + "%"
	db := r.db.WithContext(ctx).
		Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	if lecturerID != nil {
		db = db.Where("lecturer_id = ?", *lecturerID)
	}

	err := db.Order("id ASC").Limit(limit).Find(&assignments).Error
	return assignments, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
