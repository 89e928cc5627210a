package models

import "time"

// Student maps a row of the 'students' table. JSON names keep the wire
// format the existing admission client speaks.
type Student struct {
	ID           int64      `json:"id" db:"id"`
	FirstName    string     `json:"firstname" db:"firstname"`
	LastName     string     `json:"lastname" db:"lastname"`
	Email        string     `json:"email" db:"email"`
	Grade        string     `json:"grade" db:"grade"`
	Gender       *string    `json:"gender,omitempty" db:"gender"`
	Birthday     *time.Time `json:"birthday,omitempty" db:"birthday"`
	Activities   []byte     `json:"-" db:"activities"` // raw JSON array
	ProfileImage *string    `json:"profile_image,omitempty" db:"profile_image"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
