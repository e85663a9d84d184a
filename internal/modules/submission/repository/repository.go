package repository

import (
	"context"
	"errors"

	"anoa.com/assignmenthub/internal/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubmissionRepository interface {
	// Upsert stores sub as the single submission of (StudentID, AssignmentID).
	// An existing row keeps its id and submitted_at, takes the new file path
	// and loses its grade and feedback. sub is reloaded from the database and
	// the replaced file path (empty for a first submission) is returned.
	Upsert(ctx context.Context, sub *entity.Submission) (string, error)
	FindByID(ctx context.Context, id uint) (*entity.Submission, error)
	FindByAssignment(ctx context.Context, assignmentID uint) ([]entity.Submission, error)
	FindByStudentAndAssignment(ctx context.Context, studentID, assignmentID uint) (*entity.Submission, error)
	UpdateGrade(ctx context.Context, id uint, grade int, feedback *string) (*entity.Submission, error)

	FindSupersededFiles(ctx context.Context, limit int) ([]entity.SupersededFile, error)
	DeleteSupersededFile(ctx context.Context, id uint) error
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Upsert(ctx context.Context, sub *entity.Submission) (string, error) {
	var replaced string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing entity.Submission
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("student_id = ? AND assignment_id = ?", sub.StudentID, sub.AssignmentID).
			First(&existing).Error
		switch {
		case err == nil:
			replaced = existing.FilePath
		case errors.Is(err, gorm.ErrRecordNotFound):
		default:
			return err
		}

		// The unique index closes the window between the lookup above and
		// this insert for two concurrent first submissions.
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "student_id"}, {Name: "assignment_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"file_path": gorm.Expr("excluded.file_path"),
				"grade":     nil,
				"feedback":  nil,
			}),
		}).Create(sub).Error; err != nil {
			return err
		}

		if replaced != "" && replaced != sub.FilePath {
			if err := tx.Create(&entity.SupersededFile{FilePath: replaced}).Error; err != nil {
				return err
			}
		}

		return tx.Where("student_id = ? AND assignment_id = ?", sub.StudentID, sub.AssignmentID).
			First(sub).Error
	})
	if err != nil {
		return "", err
	}

	return replaced, nil
}

func (r *submissionRepository) FindByID(ctx context.Context, id uint) (*entity.Submission, error) {
	var sub entity.Submission
	if err := r.db.WithContext(ctx).First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepository) FindByAssignment(ctx context.Context, assignmentID uint) ([]entity.Submission, error) {
	var subs []entity.Submission
	err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("id ASC").
		Find(&subs).Error
	return subs, err
}

func (r *submissionRepository) FindByStudentAndAssignment(ctx context.Context, studentID, assignmentID uint) (*entity.Submission, error) {
	var sub entity.Submission
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
		First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepository) UpdateGrade(ctx context.Context, id uint, grade int, feedback *string) (*entity.Submission, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Submission{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"grade":    grade,
			"feedback": feedback,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.FindByID(ctx, id)
}

func (r *submissionRepository) FindSupersededFiles(ctx context.Context, limit int) ([]entity.SupersededFile, error) {
	var files []entity.SupersededFile
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Limit(limit).
		Find(&files).Error
	return files, err
}

func (r *submissionRepository) DeleteSupersededFile(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&entity.SupersededFile{}, id).Error
}
