package utils

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateProofImage(t *testing.T) {
	tests := []struct {
		name         string
		filename     string
		size         int64
		expectedCode string
	}{
		{"valid png", "receipt.png", 1024, ""},
		{"valid jpg", "receipt.jpg", 1024, ""},
		{"valid jpeg uppercase", "RECEIPT.JPEG", 1024, ""},
		{"too large", "receipt.png", MaxProofSize + 1, "FILE_TOO_LARGE"},
		{"exactly at limit", "receipt.png", MaxProofSize, ""},
		{"disallowed pdf", "receipt.pdf", 1024, "INVALID_FILE_FORMAT"},
		{"no extension", "receipt", 1024, "INVALID_FILE_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := &multipart.FileHeader{
				Filename: tt.filename,
				Size:     tt.size,
			}

			err := ValidateProofImage(header)

			if tt.expectedCode == "" {
				assert.NoError(t, err)
				return
			}

			assert.Error(t, err)
			uploadErr, ok := err.(*FileUploadError)
			assert.True(t, ok)
			assert.Equal(t, tt.expectedCode, uploadErr.Code)
		})
	}
}
