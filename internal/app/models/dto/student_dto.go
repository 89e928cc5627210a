package dto

import (
	"mime/multipart"
	"time"
)

// CreateStudentRequest carries the form fields of a multipart create
// submission. File parts travel separately as UploadedFiles.
type CreateStudentRequest struct {
	Firstname  string `form:"firstname" validate:"required"`
	Lastname   string `form:"lastname" validate:"required"`
	Email      string `form:"email" validate:"required"`
	Grade      string `form:"grade" validate:"required"`
	Gender     string `form:"gender"`
	Birthday   string `form:"birthday"`   // YYYY-MM-DD
	Activities string `form:"activities"` // JSON array
}

// UploadedFiles groups the file parts of a create submission.
type UploadedFiles struct {
	ProfileImage *multipart.FileHeader
	Documents    []*multipart.FileHeader
}

// StudentSummary is the list projection: identity and admission fields
// only, no activities, profile image or documents.
type StudentSummary struct {
	ID        int64   `json:"id"`
	Firstname string  `json:"firstname"`
	Lastname  string  `json:"lastname"`
	Email     string  `json:"email"`
	Grade     string  `json:"grade"`
	Gender    *string `json:"gender"`
	Birthday  *string `json:"birthday"`
}

// StudentDetail is the full projection returned by get-by-id, with the
// birthday as an ISO date string and activities parsed from JSON.
type StudentDetail struct {
	ID           int64         `json:"id"`
	Firstname    string        `json:"firstname"`
	Lastname     string        `json:"lastname"`
	Email        string        `json:"email"`
	Grade        string        `json:"grade"`
	Gender       *string       `json:"gender"`
	Birthday     *string       `json:"birthday"`
	Activities   []interface{} `json:"activities"`
	ProfileImage *string       `json:"profile_image"`
	CreatedAt    time.Time     `json:"created_at"`
}
