// Package uploads stores banner and thumbnail images on disk.
package uploads

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrInvalidImage    = errors.New("invalid image data")
	ErrFileExists      = errors.New("file already exists")
	ErrFileNotExists   = errors.New("file does not exist")
	ErrInvalidFileName = errors.New("invalid file name")
)

// MaxImageSize caps a single upload.
const MaxImageSize = 5 << 20

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type Uploads struct {
	folderPath string
	mu         sync.RWMutex
}

func NewUploads(folderPath string) (*Uploads, error) {
	if folderPath == "" {
		return nil, errors.New("folder path is empty")
	}

	u := &Uploads{folderPath: filepath.Clean(folderPath)}

	if err := os.MkdirAll(u.folderPath, 0o755); err != nil {
		return nil, err
	}

	return u, nil
}

// Dir is the folder the images live in.
func (u *Uploads) Dir() string {
	return u.folderPath
}

// Store writes image under a fresh random name and returns that name. The
// extension follows the sniffed content type; non-images are rejected.
func (u *Uploads) Store(image []byte) (string, error) {
	ext, err := detect(image)
	if err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	if err := u.SaveImage(image, name); err != nil {
		return "", err
	}

	return name, nil
}

func (u *Uploads) SaveImage(image []byte, filename string) error {
	if len(image) == 0 {
		return ErrInvalidImage
	}

	fullPath, err := u.path(filename)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return ErrFileExists
	}
	if err != nil {
		return err
	}
	defer file.Close()

	if _, err := file.Write(image); err != nil {
		_ = os.Remove(fullPath)
		return err
	}

	return nil
}

func (u *Uploads) DeleteImage(filename string) error {
	fullPath, err := u.path(filename)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if err := os.Remove(fullPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrFileNotExists
		}
		return err
	}

	return nil
}

// ReplaceImage overwrites filename through a temp file and rename.
func (u *Uploads) ReplaceImage(image []byte, filename string) error {
	if len(image) == 0 {
		return ErrInvalidImage
	}

	fullPath, err := u.path(filename)
	if err != nil {
		return err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if _, err := os.Stat(fullPath); errors.Is(err, os.ErrNotExist) {
		return ErrFileNotExists
	}

	tempPath := fullPath + ".tmp"
	if err := os.WriteFile(tempPath, image, 0o644); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to write image data: %w", err)
	}

	if err := os.Rename(tempPath, fullPath); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Exists reports whether filename is a stored upload.
func (u *Uploads) Exists(filename string) bool {
	fullPath, err := u.path(filename)
	if err != nil {
		return false
	}

	u.mu.RLock()
	defer u.mu.RUnlock()

	info, err := os.Stat(fullPath)
	return err == nil && info.Mode().IsRegular()
}

// path keeps every name inside the uploads folder.
func (u *Uploads) path(filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) || strings.HasPrefix(filename, ".") {
		return "", ErrInvalidFileName
	}
	return filepath.Join(u.folderPath, filename), nil
}

func detect(image []byte) (string, error) {
	if len(image) == 0 || len(image) > MaxImageSize {
		return "", ErrInvalidImage
	}

	ext, ok := extensions[http.DetectContentType(image)]
	if !ok {
		return "", ErrInvalidImage
	}

	return ext, nil
}
