package validation

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/emre/admission/internal/pkg/apperrors"
)

// Category is the validation bucket for an uploaded file, determining its
// allowed extensions.
type Category string

const (
	// CategoryProfileImage covers the single profile image of a student
	CategoryProfileImage Category = "profile_image"
	// CategoryDocument covers supporting document uploads
	CategoryDocument Category = "document"
)

// DefaultMaxFileSize is the upload size ceiling applied when no limit is
// configured (16 MiB).
const DefaultMaxFileSize int64 = 16 << 20

var allowedExtensions = map[Category][]string{
	CategoryProfileImage: {"jpg", "jpeg", "png"},
	CategoryDocument:     {"pdf", "doc", "docx"},
}

// Rules enforces the extension allow-list and size ceiling for uploads.
type Rules struct {
	maxFileSize int64
}

// NewRules creates upload rules with the given size ceiling in bytes.
// Non-positive values fall back to DefaultMaxFileSize.
func NewRules(maxFileSize int64) *Rules {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	return &Rules{maxFileSize: maxFileSize}
}

// Validate checks a single uploaded file against its category.
// The size check reads FileHeader.Size, so the underlying stream is never
// consumed before the file is persisted.
func (r *Rules) Validate(fh *multipart.FileHeader, category Category) error {
	allowed, ok := allowedExtensions[category]
	if !ok {
		return fmt.Errorf("unknown file category: %s", category)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
	if ext == "" || !containsExtension(allowed, ext) {
		if category == CategoryProfileImage {
			return apperrors.NewFileRejectedError(fmt.Sprintf(
				"Invalid profile image format. Allowed formats: %s", strings.Join(allowed, ", ")))
		}
		return apperrors.NewFileRejectedError(fmt.Sprintf(
			"Invalid document format for %s. Allowed formats: %s", fh.Filename, strings.Join(allowed, ", ")))
	}

	if fh.Size > r.maxFileSize {
		limitMB := r.maxFileSize / (1024 * 1024)
		if category == CategoryProfileImage {
			return apperrors.NewFileRejectedError(fmt.Sprintf(
				"Profile image exceeds maximum size of %dMB", limitMB))
		}
		return apperrors.NewFileRejectedError(fmt.Sprintf(
			"Document %s exceeds maximum size of %dMB", fh.Filename, limitMB))
	}

	return nil
}

// ValidateAll checks every file in the list; the first failure aborts the
// whole submission.
func (r *Rules) ValidateAll(fhs []*multipart.FileHeader, category Category) error {
	for _, fh := range fhs {
		if err := r.Validate(fh, category); err != nil {
			return err
		}
	}
	return nil
}

func containsExtension(allowed []string, ext string) bool {
	for _, a := range allowed {
		if a == ext {
			return true
		}
	}
	return false
}
