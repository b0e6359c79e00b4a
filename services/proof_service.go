package services

import (
	"fmt"
	"mime/multipart"

	"github.com/rachmati-dz/rachmati-api/utils"
)

// ProofService handles payment-proof image upload, retrieval and deletion
type ProofService interface {
	// UploadProof validates and uploads a proof image, returns the storage key
	UploadProof(fileHeader *multipart.FileHeader) (string, error)

	// GetProofURL generates a URL for admin review of an uploaded proof
	GetProofURL(proofKey string) (string, error)

	// DeleteProof removes a proof image from storage
	DeleteProof(proofKey string) error
}

// S3ProofService implements ProofService using AWS S3 for storage
type S3ProofService struct {
	s3Service S3Interface
}

var proofServiceInstance ProofService

// InitProofService initializes the proof service with an S3 backend
func InitProofService(s3Service S3Interface) ProofService {
	proofServiceInstance = &S3ProofService{
		s3Service: s3Service,
	}
	return proofServiceInstance
}

// GetProofService returns the initialized proof service instance
func GetProofService() ProofService {
	return proofServiceInstance
}

// SetProofService sets the proof service instance (primarily for testing)
func SetProofService(service ProofService) {
	proofServiceInstance = service
}

// UploadProof validates and uploads a proof image to S3
func (s *S3ProofService) UploadProof(fileHeader *multipart.FileHeader) (string, error) {
	if err := utils.ValidateProofImage(fileHeader); err != nil {
		return "", err
	}

	s3Key, err := s.s3Service.UploadFile(fileHeader)
	if err != nil {
		return "", fmt.Errorf("failed to upload payment proof: %w", err)
	}

	return s3Key, nil
}

// GetProofURL generates a presigned URL for reviewing a proof
func (s *S3ProofService) GetProofURL(proofKey string) (string, error) {
	if proofKey == "" {
		return "", nil
	}

	url, err := s.s3Service.GetPresignedURL(proofKey)
	if err != nil {
		return "", fmt.Errorf("failed to generate proof URL: %w", err)
	}

	return url, nil
}

// DeleteProof deletes a proof image from S3
func (s *S3ProofService) DeleteProof(proofKey string) error {
	if proofKey == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(proofKey); err != nil {
		return fmt.Errorf("failed to delete payment proof: %w", err)
	}

	return nil
}
