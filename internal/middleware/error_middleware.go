package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emre/admission/internal/app/models/dto"
	"github.com/emre/admission/internal/pkg/apperrors"
	"github.com/emre/admission/internal/pkg/logger"
)

// HandleAPIError maps a service error to an HTTP status and writes the
// JSON error body. Validation failures are 400, missing records are 404,
// everything else (including duplicate email) is 500.
func HandleAPIError(ctx *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case apperrors.Is(err, apperrors.ErrMissingField,
		apperrors.ErrInvalidFormat,
		apperrors.ErrFileRejected):
		status = http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrStudentNotFound,
		apperrors.ErrDocumentNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("API error")
	}

	ctx.JSON(status, dto.NewErrorResponse(err.Error()))
}
