package dto

import "time"

// CreateAssignmentRequest carries no lecturer id; ownership always comes
// from the authenticated caller.
type CreateAssignmentRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description" binding:"required"`
	Deadline    *time.Time `json:"deadline"`
}

type SearchAssignmentsQuery struct {
	Query string `form:"q" binding:"required,max=200"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

type AssignmentURI struct {
	AssignmentID uint `uri:"assignment_id" binding:"required,min=1"`
}
