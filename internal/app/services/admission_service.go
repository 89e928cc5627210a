package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/emre/admission/internal/app/models"
	"github.com/emre/admission/internal/app/models/dto"
	"github.com/emre/admission/internal/app/repositories"
	"github.com/emre/admission/internal/db"
	"github.com/emre/admission/internal/pkg/apperrors"
	"github.com/emre/admission/internal/pkg/filestorage"
	"github.com/emre/admission/internal/pkg/helpers"
	"github.com/emre/admission/internal/pkg/validation"
)

// AdmissionService defines the student admission workflow operations
type AdmissionService interface {
	CreateStudent(ctx context.Context, req *dto.CreateStudentRequest, files *dto.UploadedFiles) (int64, error)
	GetStudentByID(ctx context.Context, id int64) (*dto.StudentDetail, error)
	ListStudents(ctx context.Context) ([]dto.StudentSummary, error)
	DeleteStudent(ctx context.Context, id int64) error
}

// admissionServiceImpl implements AdmissionService
type admissionServiceImpl struct {
	students  studentStore
	documents documentStore
	storage   filestorage.FileStorage
	tx        txRunner
	rules     *validation.Rules
	logger    zerolog.Logger
}

// NewAdmissionService creates a new AdmissionService
func NewAdmissionService(
	students *repositories.StudentRepository,
	documents *repositories.DocumentRepository,
	storage filestorage.FileStorage,
	database *db.PostgresDB,
	rules *validation.Rules,
	logger zerolog.Logger,
) AdmissionService {
	return &admissionServiceImpl{
		students:  students,
		documents: documents,
		storage:   storage,
		tx:        database,
		rules:     rules,
		logger:    logger,
	}
}

var formValidator = validator.New()

// CreateStudent runs the create-with-attachments workflow: field and file
// validation first (no side effect on failure), then the profile image
// write, then the student row and each document (file write, then row)
// inside one transaction. A failure after files are written rolls back the
// rows but leaves the files behind: stored files are cheap to reclaim
// later, rows referencing a missing student are not.
func (s *admissionServiceImpl) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest, files *dto.UploadedFiles) (int64, error) {
	if files == nil {
		files = &dto.UploadedFiles{}
	}

	if err := validateRequiredFields(req); err != nil {
		return 0, err
	}

	if files.ProfileImage != nil {
		if err := s.rules.Validate(files.ProfileImage, validation.CategoryProfileImage); err != nil {
			return 0, err
		}
	}
	if err := s.rules.ValidateAll(files.Documents, validation.CategoryDocument); err != nil {
		return 0, err
	}

	student := &models.Student{
		FirstName: req.Firstname,
		LastName:  req.Lastname,
		Email:     req.Email,
		Grade:     req.Grade,
	}

	if req.Gender != "" {
		gender := req.Gender
		student.Gender = &gender
	}

	if req.Birthday != "" {
		birthday, err := helpers.ParseDate(req.Birthday)
		if err != nil {
			return 0, apperrors.NewInvalidFormatError(
				fmt.Sprintf("Invalid data format: birthday must be %s", strings.ToUpper(helpers.DateLayout)))
		}
		student.Birthday = &birthday
	}

	student.Activities = []byte("[]")
	if req.Activities != "" {
		var activities []interface{}
		if err := json.Unmarshal([]byte(req.Activities), &activities); err != nil {
			return 0, apperrors.NewInvalidFormatError("Invalid data format: activities must be a JSON array")
		}
		student.Activities = []byte(req.Activities)
	}

	if files.ProfileImage != nil {
		storedPath, err := s.storage.SaveProfileImage(files.ProfileImage)
		if err != nil {
			return 0, apperrors.NewStorageError(fmt.Sprintf("Failed to store profile image: %v", err))
		}
		student.ProfileImage = &storedPath
	}

	var studentID int64
	err := s.tx.WithTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		id, err := s.students.Create(ctx, q, student)
		if err != nil {
			return err
		}
		studentID = id

		// Document paths depend on the student id, so these writes can only
		// happen once the insert above has returned it.
		for _, fh := range files.Documents {
			storedPath, err := s.storage.SaveDocument(fh, id)
			if err != nil {
				return apperrors.NewStorageError(fmt.Sprintf("Failed to store document %s: %v", fh.Filename, err))
			}

			doc := &models.Document{
				Filename:  filestorage.SanitizeFilename(fh.Filename),
				FilePath:  storedPath,
				StudentID: id,
			}
			if contentType := fh.Header.Get("Content-Type"); contentType != "" {
				doc.FileType = &contentType
			}

			if _, err := s.documents.Create(ctx, q, doc); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info().Int64("studentId", studentID).Int("documents", len(files.Documents)).Msg("Student created")
	return studentID, nil
}

// GetStudentByID returns the full detail projection of one student
func (s *admissionServiceImpl) GetStudentByID(ctx context.Context, id int64) (*dto.StudentDetail, error) {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	if student == nil {
		return nil, apperrors.ErrStudentNotFound
	}

	activities := []interface{}{}
	if len(student.Activities) > 0 {
		if err := json.Unmarshal(student.Activities, &activities); err != nil {
			return nil, fmt.Errorf("error decoding activities: %w", err)
		}
	}

	return &dto.StudentDetail{
		ID:           student.ID,
		Firstname:    student.FirstName,
		Lastname:     student.LastName,
		Email:        student.Email,
		Grade:        student.Grade,
		Gender:       student.Gender,
		Birthday:     helpers.FormatDate(student.Birthday),
		Activities:   activities,
		ProfileImage: student.ProfileImage,
		CreatedAt:    student.CreatedAt,
	}, nil
}

// ListStudents returns the summary projection of all students
func (s *admissionServiceImpl) ListStudents(ctx context.Context) ([]dto.StudentSummary, error) {
	students, err := s.students.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing students: %w", err)
	}

	summaries := make([]dto.StudentSummary, 0, len(students))
	for _, student := range students {
		summaries = append(summaries, dto.StudentSummary{
			ID:        student.ID,
			Firstname: student.FirstName,
			Lastname:  student.LastName,
			Email:     student.Email,
			Grade:     student.Grade,
			Gender:    student.Gender,
			Birthday:  helpers.FormatDate(student.Birthday),
		})
	}

	return summaries, nil
}

// DeleteStudent removes a student, its document rows and their backing
// files. Files go first, outside the relational transaction, and a file
// that fails to delete is logged and skipped: an interruption then leaves
// at most dangling rows, which are detectable, never a file referencing a
// deleted row.
func (s *admissionServiceImpl) DeleteStudent(ctx context.Context, id int64) error {
	student, err := s.students.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting student: %w", err)
	}
	if student == nil {
		return apperrors.ErrStudentNotFound
	}

	docs, err := s.documents.FindByStudent(ctx, id)
	if err != nil {
		return fmt.Errorf("error getting documents: %w", err)
	}

	for _, doc := range docs {
		if err := s.storage.Delete(doc.FilePath); err != nil {
			s.logger.Warn().Err(err).Int64("documentId", doc.ID).Str("path", doc.FilePath).
				Msg("Failed to delete document file, continuing")
		}
	}
	if student.ProfileImage != nil {
		if err := s.storage.Delete(*student.ProfileImage); err != nil {
			s.logger.Warn().Err(err).Str("path", *student.ProfileImage).
				Msg("Failed to delete profile image, continuing")
		}
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context, q db.Querier) error {
		if _, err := s.documents.DeleteByStudent(ctx, q, id); err != nil {
			return err
		}
		return s.students.Delete(ctx, q, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info().Int64("studentId", id).Int("documents", len(docs)).Msg("Student deleted")
	return nil
}

// validateRequiredFields checks the presence of firstname, lastname, email
// and grade; the first absent field aborts the submission.
func validateRequiredFields(req *dto.CreateStudentRequest) error {
	err := formValidator.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		field := strings.ToLower(validationErrs[0].Field())
		return apperrors.NewMissingFieldError(fmt.Sprintf("Missing required field: %s", field))
	}

	return err
}
