package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Uploader stores an image buffer and returns a durable URL for it.
type Uploader interface {
	Upload(file *multipart.FileHeader, folder string) (string, error)
}

// DiskUploader writes uploads under a local directory served as static files.
type DiskUploader struct {
	Dir     string
	BaseURL string
}

func NewDiskUploader(dir, baseURL string) *DiskUploader {
	return &DiskUploader{Dir: dir, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

// Upload saves the file under dir/folder with a random name and returns its URL.
func (u *DiskUploader) Upload(file *multipart.FileHeader, folder string) (string, error) {
	dst := filepath.Join(u.Dir, folder)
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	ext := filepath.Ext(file.Filename)
	name := uuid.New().String() + ext

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	out, err := os.Create(filepath.Join(dst, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}

	return u.BaseURL + "/" + path.Join(folder, name), nil
}
