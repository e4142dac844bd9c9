package handler

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/exoream/sayur/internal/util"
)

const (
	maxItemPhotoBytes = 5 << 20
	maxLovPhotoBytes  = 2 << 20
)

var allowedPhotoExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

func validatePhotoUpload(file *multipart.FileHeader, maxBytes int64) error {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedPhotoExts[ext] {
		return util.ErrValidation("Format foto harus jpg, jpeg, atau png")
	}
	if file.Size > maxBytes {
		return util.ErrValidation(fmt.Sprintf("Ukuran foto maksimal %d MB", maxBytes>>20))
	}
	return nil
}
