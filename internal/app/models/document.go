package models

import "time"

// Document maps a row of the 'documents' table. A document always belongs
// to exactly one student; its lifetime is bound to that student.
type Document struct {
	ID         int64     `json:"id" db:"id"`
	Filename   string    `json:"filename" db:"filename"`
	FilePath   string    `json:"file_path" db:"file_path"`
	FileType   *string   `json:"file_type,omitempty" db:"file_type"` // MIME type
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
	StudentID  int64     `json:"student_id" db:"student_id"`
}
