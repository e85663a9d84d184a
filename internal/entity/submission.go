package entity

import "time"

type Submission struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	FilePath     string      `gorm:"type:text;not null" json:"file_path"`
	SubmittedAt  time.Time   `gorm:"not null" json:"submitted_at"`
	StudentID    uint        `gorm:"not null;uniqueIndex:idx_submission_student_assignment,priority:1" json:"student_id"`
	AssignmentID uint        `gorm:"not null;index;uniqueIndex:idx_submission_student_assignment,priority:2" json:"assignment_id"`
	Grade        *int        `json:"grade"`
	Feedback     *string     `gorm:"type:text" json:"feedback"`
	Student      *User       `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Assignment   *Assignment `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE" json:"-"`
}

// SupersededFile is a stored upload that a resubmission replaced. Rows are
// drained by the cleanup job.
type SupersededFile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FilePath  string    `gorm:"type:text;not null" json:"file_path"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
