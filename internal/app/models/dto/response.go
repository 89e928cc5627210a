package dto

// MessageResponse is the success envelope of mutating endpoints.
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"Student created successfully"`
}

// NewMessageResponse creates a success envelope with a message
func NewMessageResponse(message string) MessageResponse {
	return MessageResponse{
		Success: true,
		Message: message,
	}
}

// StudentResponse wraps the detail projection of a single student.
type StudentResponse struct {
	Success bool           `json:"success" example:"true"`
	Student *StudentDetail `json:"student"`
}

// NewStudentResponse creates a success envelope around a student detail
func NewStudentResponse(student *StudentDetail) StudentResponse {
	return StudentResponse{
		Success: true,
		Student: student,
	}
}
