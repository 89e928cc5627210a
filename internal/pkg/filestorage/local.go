package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/emre/admission/internal/pkg/logger"
)

const (
	profileImageDir = "profile_images"
	documentDir     = "documents"
)

// LocalStorage persists uploads on the local filesystem under a single
// root directory. Stored paths are slash-separated and relative to the
// root, e.g. "profile_images/photo.jpg" or "documents/7/report.pdf".
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a LocalStorage rooted at basePath and provisions
// the root together with its category subdirectories.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	dirs := []string{
		basePath,
		filepath.Join(basePath, profileImageDir),
		filepath.Join(basePath, documentDir),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			logger.Error().Err(err).Str("path", dir).Msg("Failed to create storage directory")
			return nil, fmt.Errorf("failed to create storage directory %s: %w", dir, err)
		}
	}
	logger.Info().Str("path", basePath).Msg("Upload root ensured")

	return &LocalStorage{basePath: basePath}, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// SanitizeFilename reduces an uploaded filename to a safe base name:
// directory components are dropped and anything outside [A-Za-z0-9._-]
// becomes an underscore. Leading dots are stripped so a name cannot start
// hidden or empty.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	name = strings.TrimLeft(name, ".")
	if name == "" {
		return "unnamed"
	}
	return name
}

// SaveProfileImage stores a profile image as profile_images/<sanitized-name>.
func (ls *LocalStorage) SaveProfileImage(fh *multipart.FileHeader) (string, error) {
	return ls.save(fh, profileImageDir)
}

// SaveDocument stores a document as documents/<studentID>/<sanitized-name>.
// The student directory is created on demand.
func (ls *LocalStorage) SaveDocument(fh *multipart.FileHeader, studentID int64) (string, error) {
	return ls.save(fh, filepath.Join(documentDir, strconv.FormatInt(studentID, 10)))
}

func (ls *LocalStorage) save(fh *multipart.FileHeader, subPath string) (string, error) {
	file, err := fh.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fh.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	fullDirPath := filepath.Join(ls.basePath, subPath)
	if err := os.MkdirAll(fullDirPath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", fullDirPath).Msg("Failed to create subdirectory")
		return "", fmt.Errorf("failed to create subdirectory: %w", err)
	}

	filename := SanitizeFilename(fh.Filename)
	dstPath := filepath.Join(fullDirPath, filename)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		// Drop the partial write
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	storedPath := filepath.ToSlash(filepath.Join(subPath, filename))
	logger.Info().Str("filename", fh.Filename).Str("stored_as", storedPath).Msg("File saved")
	return storedPath, nil
}

// Delete removes a stored file. Returns nil if deletion succeeds or the
// file is already absent, so record cleanup never fails on a file that is
// gone.
func (ls *LocalStorage) Delete(storedPath string) error {
	if storedPath == "" {
		return nil
	}

	physicalPath := ls.FullPath(storedPath)
	if physicalPath == "" {
		return fmt.Errorf("invalid stored path: %s", storedPath)
	}

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
		return nil
	}

	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted")
	return nil
}

// FullPath resolves a stored path to its physical location under the root.
// Paths that are absolute or climb out of the root resolve to "".
func (ls *LocalStorage) FullPath(storedPath string) string {
	clean := filepath.Clean(filepath.FromSlash(storedPath))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return ""
	}
	return filepath.Join(ls.basePath, clean)
}
