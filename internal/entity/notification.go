package entity

import "time"

const (
	NotificationSubmissionReceived = "submission_received"
	NotificationSubmissionGraded   = "submission_graded"
)

type Notification struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"index;not null" json:"user_id"` // recipient
	ActorID      uint      `gorm:"not null" json:"actor_id"`
	Type         string    `gorm:"type:varchar(50);not null" json:"type"`
	Message      string    `gorm:"type:text" json:"message"`
	AssignmentID uint      `gorm:"not null" json:"assignment_id"`
	SubmissionID uint      `gorm:"not null" json:"submission_id"`
	IsRead       bool      `gorm:"default:false" json:"is_read"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}
