package services

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"path"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/emre/admission/internal/app/models"
	"github.com/emre/admission/internal/app/models/dto"
	"github.com/emre/admission/internal/db"
	"github.com/emre/admission/internal/pkg/apperrors"
	"github.com/emre/admission/internal/pkg/filestorage"
	"github.com/emre/admission/internal/pkg/validation"
)

// Function-field stubs for the narrow store interfaces. Unset fields fail
// the test when called.

type stubStudents struct {
	t         *testing.T
	createFn  func(ctx context.Context, q db.Querier, student *models.Student) (int64, error)
	getAllFn  func(ctx context.Context) ([]models.Student, error)
	getByIDFn func(ctx context.Context, id int64) (*models.Student, error)
	deleteFn  func(ctx context.Context, q db.Querier, id int64) error
}

func (s *stubStudents) Create(ctx context.Context, q db.Querier, student *models.Student) (int64, error) {
	if s.createFn == nil {
		s.t.Fatal("unexpected StudentRepository.Create call")
	}
	return s.createFn(ctx, q, student)
}

func (s *stubStudents) GetAll(ctx context.Context) ([]models.Student, error) {
	if s.getAllFn == nil {
		s.t.Fatal("unexpected StudentRepository.GetAll call")
	}
	return s.getAllFn(ctx)
}

func (s *stubStudents) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	if s.getByIDFn == nil {
		s.t.Fatal("unexpected StudentRepository.GetByID call")
	}
	return s.getByIDFn(ctx, id)
}

func (s *stubStudents) Delete(ctx context.Context, q db.Querier, id int64) error {
	if s.deleteFn == nil {
		s.t.Fatal("unexpected StudentRepository.Delete call")
	}
	return s.deleteFn(ctx, q, id)
}

type stubDocuments struct {
	t                 *testing.T
	createFn          func(ctx context.Context, q db.Querier, doc *models.Document) (int64, error)
	getByIDFn         func(ctx context.Context, id int64) (*models.Document, error)
	findByStudentFn   func(ctx context.Context, studentID int64) ([]models.Document, error)
	deleteFn          func(ctx context.Context, q db.Querier, id int64) error
	deleteByStudentFn func(ctx context.Context, q db.Querier, studentID int64) (int64, error)
}

func (s *stubDocuments) Create(ctx context.Context, q db.Querier, doc *models.Document) (int64, error) {
	if s.createFn == nil {
		s.t.Fatal("unexpected DocumentRepository.Create call")
	}
	return s.createFn(ctx, q, doc)
}

func (s *stubDocuments) GetByID(ctx context.Context, id int64) (*models.Document, error) {
	if s.getByIDFn == nil {
		s.t.Fatal("unexpected DocumentRepository.GetByID call")
	}
	return s.getByIDFn(ctx, id)
}

func (s *stubDocuments) FindByStudent(ctx context.Context, studentID int64) ([]models.Document, error) {
	if s.findByStudentFn == nil {
		s.t.Fatal("unexpected DocumentRepository.FindByStudent call")
	}
	return s.findByStudentFn(ctx, studentID)
}

func (s *stubDocuments) Delete(ctx context.Context, q db.Querier, id int64) error {
	if s.deleteFn == nil {
		s.t.Fatal("unexpected DocumentRepository.Delete call")
	}
	return s.deleteFn(ctx, q, id)
}

func (s *stubDocuments) DeleteByStudent(ctx context.Context, q db.Querier, studentID int64) (int64, error) {
	if s.deleteByStudentFn == nil {
		s.t.Fatal("unexpected DocumentRepository.DeleteByStudent call")
	}
	return s.deleteByStudentFn(ctx, q, studentID)
}

// stubTx runs the callback directly, with no connection behind it.
type stubTx struct{}

func (stubTx) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx, nil)
}

// fakeStorage records saves and deletes in memory.
type fakeStorage struct {
	savedImages  []string
	savedDocs    []string
	deleted      []string
	saveImageErr error
	saveDocErr   error
	deleteErr    error
}

func (f *fakeStorage) SaveProfileImage(fh *multipart.FileHeader) (string, error) {
	if f.saveImageErr != nil {
		return "", f.saveImageErr
	}
	stored := "profile_images/" + filestorage.SanitizeFilename(fh.Filename)
	f.savedImages = append(f.savedImages, stored)
	return stored, nil
}

func (f *fakeStorage) SaveDocument(fh *multipart.FileHeader, studentID int64) (string, error) {
	if f.saveDocErr != nil {
		return "", f.saveDocErr
	}
	stored := path.Join("documents", strconv.FormatInt(studentID, 10), filestorage.SanitizeFilename(fh.Filename))
	f.savedDocs = append(f.savedDocs, stored)
	return stored, nil
}

func (f *fakeStorage) Delete(storedPath string) error {
	f.deleted = append(f.deleted, storedPath)
	return f.deleteErr
}

func (f *fakeStorage) FullPath(storedPath string) string {
	return path.Join("/storage", storedPath)
}

func fileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("ReadForm: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })

	headers := form.File["file"]
	if len(headers) != 1 {
		t.Fatalf("expected 1 file header, got %d", len(headers))
	}
	return headers[0]
}

func newAdmissionService(students *stubStudents, documents *stubDocuments, storage *fakeStorage) *admissionServiceImpl {
	return &admissionServiceImpl{
		students:  students,
		documents: documents,
		storage:   storage,
		tx:        stubTx{},
		rules:     validation.NewRules(validation.DefaultMaxFileSize),
		logger:    zerolog.Nop(),
	}
}

func validRequest() *dto.CreateStudentRequest {
	return &dto.CreateStudentRequest{
		Firstname: "Ada",
		Lastname:  "Lovelace",
		Email:     "ada@example.com",
		Grade:     "10",
	}
}

func TestCreateStudentMissingField(t *testing.T) {
	svc := newAdmissionService(&stubStudents{t: t}, &stubDocuments{t: t}, &fakeStorage{})

	req := validRequest()
	req.Firstname = ""

	_, err := svc.CreateStudent(context.Background(), req, nil)
	if !errors.Is(err, apperrors.ErrMissingField) {
		t.Fatalf("err = %v, want ErrMissingField", err)
	}
	if err.Error() != "Missing required field: firstname" {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestCreateStudentInvalidBirthday(t *testing.T) {
	svc := newAdmissionService(&stubStudents{t: t}, &stubDocuments{t: t}, &fakeStorage{})

	req := validRequest()
	req.Birthday = "17/05/2008"

	_, err := svc.CreateStudent(context.Background(), req, nil)
	if !errors.Is(err, apperrors.ErrInvalidFormat) {
		t.Fatalf("err = %v, want ErrInvalidFormat", err)
	}
}

func TestCreateStudentInvalidActivities(t *testing.T) {
	svc := newAdmissionService(&stubStudents{t: t}, &stubDocuments{t: t}, &fakeStorage{})

	req := validRequest()
	req.Activities = `{"not":"an array"}`

	_, err := svc.CreateStudent(context.Background(), req, nil)
	if !errors.Is(err, apperrors.ErrInvalidFormat) {
		t.Fatalf("err = %v, want ErrInvalidFormat", err)
	}
}

func TestCreateStudentRejectedFileBeforeAnyWrite(t *testing.T) {
	storage := &fakeStorage{}
	// No store stubs set: any repository call fails the test
	svc := newAdmissionService(&stubStudents{t: t}, &stubDocuments{t: t}, storage)

	files := &dto.UploadedFiles{
		ProfileImage: fileHeader(t, "photo.gif", "gif-bytes"),
	}

	_, err := svc.CreateStudent(context.Background(), validRequest(), files)
	if !errors.Is(err, apperrors.ErrFileRejected) {
		t.Fatalf("err = %v, want ErrFileRejected", err)
	}
	if len(storage.savedImages) != 0 || len(storage.savedDocs) != 0 {
		t.Fatal("storage was written before validation passed")
	}
}

func TestCreateStudentHappyPath(t *testing.T) {
	var insertedStudent *models.Student
	var insertedDocs []*models.Document
	storage := &fakeStorage{}

	students := &stubStudents{
		t: t,
		createFn: func(_ context.Context, _ db.Querier, student *models.Student) (int64, error) {
			insertedStudent = student
			return 7, nil
		},
	}
	documents := &stubDocuments{
		t: t,
		createFn: func(_ context.Context, _ db.Querier, doc *models.Document) (int64, error) {
			insertedDocs = append(insertedDocs, doc)
			return int64(len(insertedDocs)), nil
		},
	}
	svc := newAdmissionService(students, documents, storage)

	req := validRequest()
	req.Gender = "female"
	req.Birthday = "2008-05-17"
	req.Activities = `["chess","robotics"]`

	files := &dto.UploadedFiles{
		ProfileImage: fileHeader(t, "photo.jpg", "jpeg-bytes"),
		Documents: []*multipart.FileHeader{
			fileHeader(t, "transcript.pdf", "pdf-bytes"),
			fileHeader(t, "recommendation letter.docx", "docx-bytes"),
		},
	}

	id, err := svc.CreateStudent(context.Background(), req, files)
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if id != 7 {
		t.Fatalf("id = %d, want 7", id)
	}

	if insertedStudent == nil {
		t.Fatal("student was not inserted")
	}
	if insertedStudent.Gender == nil || *insertedStudent.Gender != "female" {
		t.Errorf("Gender = %v", insertedStudent.Gender)
	}
	if insertedStudent.Birthday == nil || !insertedStudent.Birthday.Equal(time.Date(2008, 5, 17, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Birthday = %v", insertedStudent.Birthday)
	}
	if string(insertedStudent.Activities) != `["chess","robotics"]` {
		t.Errorf("Activities = %s", insertedStudent.Activities)
	}
	if insertedStudent.ProfileImage == nil || *insertedStudent.ProfileImage != "profile_images/photo.jpg" {
		t.Errorf("ProfileImage = %v", insertedStudent.ProfileImage)
	}

	if len(insertedDocs) != 2 {
		t.Fatalf("inserted %d document rows, want 2", len(insertedDocs))
	}
	if insertedDocs[0].FilePath != "documents/7/transcript.pdf" {
		t.Errorf("FilePath = %q", insertedDocs[0].FilePath)
	}
	if insertedDocs[1].Filename != "recommendation_letter.docx" {
		t.Errorf("sanitized Filename = %q", insertedDocs[1].Filename)
	}
	for _, doc := range insertedDocs {
		if doc.StudentID != 7 {
			t.Errorf("StudentID = %d, want 7", doc.StudentID)
		}
	}
}

func TestCreateStudentDefaultsActivitiesToEmptyArray(t *testing.T) {
	var insertedStudent *models.Student
	students := &stubStudents{
		t: t,
		createFn: func(_ context.Context, _ db.Querier, student *models.Student) (int64, error) {
			insertedStudent = student
			return 1, nil
		},
	}
	svc := newAdmissionService(students, &stubDocuments{t: t}, &fakeStorage{})

	if _, err := svc.CreateStudent(context.Background(), validRequest(), nil); err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if string(insertedStudent.Activities) != "[]" {
		t.Fatalf("Activities = %s, want []", insertedStudent.Activities)
	}
}

func TestCreateStudentDuplicateEmail(t *testing.T) {
	students := &stubStudents{
		t: t,
		createFn: func(_ context.Context, _ db.Querier, _ *models.Student) (int64, error) {
			return 0, apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists,
				"A student with email ada@example.com already exists")
		},
	}
	svc := newAdmissionService(students, &stubDocuments{t: t}, &fakeStorage{})

	_, err := svc.CreateStudent(context.Background(), validRequest(), nil)
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Fatalf("err = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestGetStudentByIDNotFound(t *testing.T) {
	students := &stubStudents{
		t: t,
		getByIDFn: func(_ context.Context, _ int64) (*models.Student, error) {
			return nil, nil
		},
	}
	svc := newAdmissionService(students, &stubDocuments{t: t}, &fakeStorage{})

	_, err := svc.GetStudentByID(context.Background(), 99)
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("err = %v, want ErrStudentNotFound", err)
	}
}

func TestGetStudentByIDProjectsDetail(t *testing.T) {
	birthday := time.Date(2008, 5, 17, 0, 0, 0, 0, time.UTC)
	image := "profile_images/photo.jpg"
	students := &stubStudents{
		t: t,
		getByIDFn: func(_ context.Context, id int64) (*models.Student, error) {
			return &models.Student{
				ID:           id,
				FirstName:    "Ada",
				LastName:     "Lovelace",
				Email:        "ada@example.com",
				Grade:        "10",
				Birthday:     &birthday,
				Activities:   []byte(`["chess"]`),
				ProfileImage: &image,
			}, nil
		},
	}
	svc := newAdmissionService(students, &stubDocuments{t: t}, &fakeStorage{})

	detail, err := svc.GetStudentByID(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetStudentByID: %v", err)
	}
	if detail.Birthday == nil || *detail.Birthday != "2008-05-17" {
		t.Errorf("Birthday = %v", detail.Birthday)
	}
	if len(detail.Activities) != 1 || detail.Activities[0] != "chess" {
		t.Errorf("Activities = %v", detail.Activities)
	}
	if detail.ProfileImage == nil || *detail.ProfileImage != image {
		t.Errorf("ProfileImage = %v", detail.ProfileImage)
	}
}

func TestListStudentsEmpty(t *testing.T) {
	students := &stubStudents{
		t: t,
		getAllFn: func(_ context.Context) ([]models.Student, error) {
			return nil, nil
		},
	}
	svc := newAdmissionService(students, &stubDocuments{t: t}, &fakeStorage{})

	list, err := svc.ListStudents(context.Background())
	if err != nil {
		t.Fatalf("ListStudents: %v", err)
	}
	if list == nil {
		t.Fatal("list should be an empty slice, not nil")
	}
	if len(list) != 0 {
		t.Fatalf("len = %d, want 0", len(list))
	}
}

func TestDeleteStudentNotFound(t *testing.T) {
	students := &stubStudents{
		t: t,
		getByIDFn: func(_ context.Context, _ int64) (*models.Student, error) {
			return nil, nil
		},
	}
	svc := newAdmissionService(students, &stubDocuments{t: t}, &fakeStorage{})

	err := svc.DeleteStudent(context.Background(), 99)
	if !errors.Is(err, apperrors.ErrStudentNotFound) {
		t.Fatalf("err = %v, want ErrStudentNotFound", err)
	}
}

func TestDeleteStudentRemovesFilesAndRows(t *testing.T) {
	image := "profile_images/photo.jpg"
	storage := &fakeStorage{}
	var deletedRows, studentDeleted bool

	students := &stubStudents{
		t: t,
		getByIDFn: func(_ context.Context, id int64) (*models.Student, error) {
			return &models.Student{ID: id, ProfileImage: &image}, nil
		},
		deleteFn: func(_ context.Context, _ db.Querier, _ int64) error {
			studentDeleted = true
			return nil
		},
	}
	documents := &stubDocuments{
		t: t,
		findByStudentFn: func(_ context.Context, _ int64) ([]models.Document, error) {
			return []models.Document{
				{ID: 1, FilePath: "documents/7/transcript.pdf"},
				{ID: 2, FilePath: "documents/7/letter.docx"},
			}, nil
		},
		deleteByStudentFn: func(_ context.Context, _ db.Querier, _ int64) (int64, error) {
			deletedRows = true
			return 2, nil
		},
	}
	svc := newAdmissionService(students, documents, storage)

	if err := svc.DeleteStudent(context.Background(), 7); err != nil {
		t.Fatalf("DeleteStudent: %v", err)
	}

	want := []string{"documents/7/transcript.pdf", "documents/7/letter.docx", image}
	if len(storage.deleted) != len(want) {
		t.Fatalf("deleted files = %v, want %v", storage.deleted, want)
	}
	for i, p := range want {
		if storage.deleted[i] != p {
			t.Errorf("deleted[%d] = %q, want %q", i, storage.deleted[i], p)
		}
	}
	if !deletedRows || !studentDeleted {
		t.Fatal("rows were not deleted")
	}
}

func TestDeleteStudentContinuesPastFileErrors(t *testing.T) {
	storage := &fakeStorage{deleteErr: errors.New("disk error")}
	var studentDeleted bool

	students := &stubStudents{
		t: t,
		getByIDFn: func(_ context.Context, id int64) (*models.Student, error) {
			return &models.Student{ID: id}, nil
		},
		deleteFn: func(_ context.Context, _ db.Querier, _ int64) error {
			studentDeleted = true
			return nil
		},
	}
	documents := &stubDocuments{
		t: t,
		findByStudentFn: func(_ context.Context, _ int64) ([]models.Document, error) {
			return []models.Document{{ID: 1, FilePath: "documents/7/transcript.pdf"}}, nil
		},
		deleteByStudentFn: func(_ context.Context, _ db.Querier, _ int64) (int64, error) {
			return 1, nil
		},
	}
	svc := newAdmissionService(students, documents, storage)

	if err := svc.DeleteStudent(context.Background(), 7); err != nil {
		t.Fatalf("DeleteStudent should tolerate file delete failures, got %v", err)
	}
	if !studentDeleted {
		t.Fatal("student row was not deleted")
	}
}
