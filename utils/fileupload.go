package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

const (
	// MaxProofSize is 10MB in bytes
	MaxProofSize = 10 * 1024 * 1024
)

// AllowedProofFormats are the image extensions accepted for payment proofs
var AllowedProofFormats = []string{".png", ".jpg", ".jpeg"}

// FileUploadError represents a file upload validation error
type FileUploadError struct {
	Code    string
	Message string
}

func (e *FileUploadError) Error() string {
	return e.Message
}

// ValidateProofImage validates an uploaded payment-proof image's format and size
func ValidateProofImage(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > MaxProofSize {
		return &FileUploadError{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("File size exceeds maximum allowed size of %d MB", MaxProofSize/(1024*1024)),
		}
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	for _, allowed := range AllowedProofFormats {
		if ext == allowed {
			return nil
		}
	}

	return &FileUploadError{
		Code:    "INVALID_FILE_FORMAT",
		Message: fmt.Sprintf("Only %s files are allowed", strings.Join(AllowedProofFormats, ", ")),
	}
}
