package entity

import "time"

type Assignment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:255;index;not null" json:"title"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Deadline    *time.Time `json:"deadline"`
	LecturerID  uint       `gorm:"index;not null" json:"lecturer_id"`
	Lecturer    *User      `gorm:"foreignKey:LecturerID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// DeadlinePassed reports whether now is strictly after the deadline.
// Assignments without a deadline never close.
func (a *Assignment) DeadlinePassed(now time.Time) bool {
	return a.Deadline != nil && now.After(*a.Deadline)
}
