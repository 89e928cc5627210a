package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emre/admission/internal/app/models/dto"
	"github.com/emre/admission/internal/app/services"
	"github.com/emre/admission/internal/middleware"
	"github.com/emre/admission/internal/pkg/apperrors"
)

// StudentController handles student admission endpoints
type StudentController struct {
	admissionService services.AdmissionService
}

// NewStudentController creates a new StudentController
func NewStudentController(admissionService services.AdmissionService) *StudentController {
	return &StudentController{
		admissionService: admissionService,
	}
}

// CreateStudent handles student creation from a multipart form
// @Summary Create a new student
// @Description Creates a student record with an optional profile image and supporting documents
// @Tags students
// @Accept multipart/form-data
// @Produce json
// @Param firstname formData string true "First name"
// @Param lastname formData string true "Last name"
// @Param email formData string true "Email (unique)"
// @Param grade formData string true "Grade"
// @Param gender formData string false "Gender"
// @Param birthday formData string false "Birthday (YYYY-MM-DD)"
// @Param activities formData string false "Activities (JSON array)"
// @Param profile_image formData file false "Profile image (jpg, jpeg, png)"
// @Param documents formData file false "Documents (pdf, doc, docx)"
// @Success 200 {object} dto.MessageResponse "Student created successfully"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid field, rejected file"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/create [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBind(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid form data"))
		return
	}

	files := &dto.UploadedFiles{}
	if form, err := ctx.MultipartForm(); err == nil && form != nil {
		if headers := form.File["profile_image"]; len(headers) > 0 {
			files.ProfileImage = headers[0]
		}
		files.Documents = form.File["documents"]
	}

	if _, err := c.admissionService.CreateStudent(ctx, &req, files); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Student created successfully"))
}

// GetAllStudents returns the summary list of all students
// @Summary List all students
// @Description Retrieves the summary projection of every student record
// @Tags students
// @Produce json
// @Success 200 {array} dto.StudentSummary "Students retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/all [get]
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	students, err := c.admissionService.ListStudents(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, students)
}

// GetStudentByID returns the full detail of a single student
// @Summary Get student details
// @Description Retrieves one student including activities and profile image path
// @Tags students
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.StudentResponse "Student retrieved successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/all/{id} [get]
func (c *StudentController) GetStudentByID(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		// A non-numeric id matches no student, same as the old integer
		// route converter
		middleware.HandleAPIError(ctx, apperrors.ErrStudentNotFound)
		return
	}

	student, err := c.admissionService.GetStudentByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewStudentResponse(student))
}

// DeleteStudent removes a student with all documents and backing files
// @Summary Delete a student
// @Description Deletes the student row, its document rows and their stored files
// @Tags students
// @Produce json
// @Param id path int true "Student ID" Format(int64) minimum(1)
// @Success 200 {object} dto.MessageResponse "Student deleted successfully"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students/delete/{id} [delete]
func (c *StudentController) DeleteStudent(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.ErrStudentNotFound)
		return
	}

	if err := c.admissionService.DeleteStudent(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Student deleted successfully"))
}
