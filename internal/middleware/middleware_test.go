package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/emre/admission/internal/app/models/dto"
	"github.com/emre/admission/internal/pkg/apperrors"
)

func TestHandleAPIErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"missing field", apperrors.NewMissingFieldError("Missing required field: email"), http.StatusBadRequest},
		{"invalid format", apperrors.NewInvalidFormatError("Invalid data format: birthday must be YYYY-MM-DD"), http.StatusBadRequest},
		{"rejected file", apperrors.NewFileRejectedError("Invalid profile image format. Allowed formats: jpg, jpeg, png"), http.StatusBadRequest},
		{"student not found", apperrors.ErrStudentNotFound, http.StatusNotFound},
		{"document not found", apperrors.ErrDocumentNotFound, http.StatusNotFound},
		{"duplicate email", apperrors.NewCustomError(apperrors.ErrEmailAlreadyExists, "A student with email x already exists"), http.StatusInternalServerError},
		{"storage failure", apperrors.NewStorageError("disk full"), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := httptest.NewRecorder()
			ctx, _ := gin.CreateTestContext(res)

			HandleAPIError(ctx, tt.err)

			if res.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", res.Code, tt.wantStatus)
			}

			var body dto.ErrorResponse
			if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Success {
				t.Fatal("error body should have success=false")
			}
			if body.Message != tt.err.Error() {
				t.Fatalf("message = %q, want %q", body.Message, tt.err.Error())
			}
		})
	}
}

func TestRequestLoggerAssignsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Header().Get("X-Request-ID") == "" {
		t.Fatal("X-Request-ID header not set")
	}

	// A caller-supplied id is echoed back
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if got := res.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if got := res.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("Allow-Origin = %q", got)
	}

	// Preflight short-circuits with 204
	req = httptest.NewRequest(http.MethodOptions, "/ping", nil)
	res = httptest.NewRecorder()
	router.ServeHTTP(res, req)

	if res.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", res.Code)
	}
}
