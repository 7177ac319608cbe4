package upload

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quizforge/trivia-api/internal/security"
)

// MaxPictureSize caps profile picture uploads at 2MB.
const MaxPictureSize = 2 << 20

// DefaultPicture is used when no picture is uploaded.
const DefaultPicture = "default.jpg"

// ErrTooLarge indicates the uploaded file exceeds MaxPictureSize.
var ErrTooLarge = errors.New("uploaded file is too large")

// ErrBadExtension indicates a file extension outside the allow-list.
var ErrBadExtension = errors.New("file type not allowed")

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Store saves validated profile pictures under a fixed directory.
type Store struct {
	dir string
}

// NewStore constructs a Store, creating the directory when missing.
func NewStore(dir string) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("upload: empty directory")
	}
	if errMkdir := os.MkdirAll(dir, 0o755); errMkdir != nil {
		return nil, fmt.Errorf("upload: create directory: %w", errMkdir)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the upload directory path.
func (s *Store) Dir() string { return s.dir }

// AllowedFile reports whether a filename carries an allowed extension.
func AllowedFile(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// SavePicture validates and writes an uploaded profile picture, returning
// the stored filename. The name is sanitized and prefixed with random bytes
// so distinct uploads never collide.
func (s *Store) SavePicture(c *gin.Context, file *multipart.FileHeader) (string, error) {
	if file.Size > MaxPictureSize {
		return "", ErrTooLarge
	}
	if !AllowedFile(file.Filename) {
		return "", ErrBadExtension
	}

	base := unsafeFilenameChars.ReplaceAllString(filepath.Base(file.Filename), "_")
	prefix, errRandom := security.GenerateRandomString(8)
	if errRandom != nil {
		return "", fmt.Errorf("upload: generate filename: %w", errRandom)
	}
	stored := prefix + "_" + base

	if errSave := c.SaveUploadedFile(file, filepath.Join(s.dir, stored)); errSave != nil {
		return "", fmt.Errorf("upload: save file: %w", errSave)
	}
	return stored, nil
}
