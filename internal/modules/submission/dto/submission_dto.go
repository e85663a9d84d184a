package dto

import "io"

// UploadedFile is the file part of a submission, decoupled from multipart.
type UploadedFile struct {
	Reader   io.Reader
	FileName string
	Size     int64
}

type GradeRequest struct {
	Grade    *int    `json:"grade" binding:"required"`
	Feedback *string `json:"feedback"`
}

type AssignmentURI struct {
	AssignmentID uint `uri:"assignment_id" binding:"required,min=1"`
}

type SubmissionURI struct {
	SubmissionID uint `uri:"submission_id" binding:"required,min=1"`
}
