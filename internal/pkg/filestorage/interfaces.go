package filestorage

import "mime/multipart"

// FileStorage defines the byte-persistence operations for uploads.
// Type and size checks happen before a file reaches this layer.
type FileStorage interface {
	// SaveProfileImage stores a profile image under the profile_images
	// directory and returns the stored path.
	SaveProfileImage(fh *multipart.FileHeader) (string, error)

	// SaveDocument stores a supporting document under the directory of the
	// owning student and returns the stored path.
	SaveDocument(fh *multipart.FileHeader, studentID int64) (string, error)

	// Delete removes a stored file. A missing target counts as success.
	Delete(storedPath string) error

	// FullPath resolves a stored path to the full filesystem path.
	// Returns the empty string when the path escapes the storage root.
	FullPath(storedPath string) string
}
