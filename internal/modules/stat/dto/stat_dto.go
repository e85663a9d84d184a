package dto

type AssignmentStats struct {
	AssignmentID uint     `json:"assignment_id"`
	Submissions  int      `json:"submissions"`
	Graded       int      `json:"graded"`
	AverageGrade *float64 `json:"average_grade"`
}
