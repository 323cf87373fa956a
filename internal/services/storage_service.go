// internal/services/storage_service.go
package services

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"

	"github.com/karigarh/marketplace-backend/internal/config"
)

// Media folders. Thumbnails and brand assets are images; voice notes and
// voice stories are audio clips recorded on a phone.
const (
	FolderThumbnails  = "thumbnails"
	FolderVoiceNotes  = "voice-notes"
	FolderBrandAssets = "brand"
	FolderLiveClips   = "live-clips"
)

var allowedContentTypes = map[string][]string{
	FolderThumbnails:  {"image/jpeg", "image/png", "image/webp"},
	FolderBrandAssets: {"image/jpeg", "image/png", "image/webp", "image/svg+xml"},
	FolderVoiceNotes:  {"audio/mpeg", "audio/mp4", "audio/ogg", "audio/webm", "audio/wav"},
	FolderLiveClips:   {"video/mp4", "video/webm"},
}

const maxUploadSize = 50 << 20 // 50 MB

type StorageService struct {
	s3Client      *s3.S3
	bucket        string
	cloudFrontURL string
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.AWS.Region),
	}
	if cfg.AWS.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &StorageService{
		s3Client:      s3.New(sess),
		bucket:        cfg.AWS.S3Bucket,
		cloudFrontURL: strings.TrimSuffix(cfg.AWS.CloudFrontURL, "/"),
	}, nil
}

// UploadFile stores a media file under the given folder and returns its
// public URL. The key embeds the uploader so a producer's assets group
// together in the bucket.
func (s *StorageService) UploadFile(fileHeader *multipart.FileHeader, folder string, uploaderID uuid.UUID) (string, error) {
	allowed, ok := allowedContentTypes[folder]
	if !ok {
		return "", fmt.Errorf("unknown upload folder: %s", folder)
	}

	if fileHeader.Size > maxUploadSize {
		return "", fmt.Errorf("file too large: %d bytes (max %d)", fileHeader.Size, maxUploadSize)
	}

	contentType := fileHeader.Header.Get("Content-Type")
	if !contains(allowed, contentType) {
		return "", fmt.Errorf("content type %s not allowed for %s", contentType, folder)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	key := fmt.Sprintf("%s/%s/%s%s", folder, uploaderID.String(), uuid.New().String(), ext)

	_, err = s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return s.publicURL(key), nil
}

// DeleteFile removes an object by its public URL. Unknown URLs are ignored.
func (s *StorageService) DeleteFile(fileURL string) error {
	key := s.keyFromURL(fileURL)
	if key == "" {
		return nil
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	return nil
}

func (s *StorageService) publicURL(key string) string {
	if s.cloudFrontURL != "" {
		return s.cloudFrontURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}

func (s *StorageService) keyFromURL(fileURL string) string {
	if s.cloudFrontURL != "" && strings.HasPrefix(fileURL, s.cloudFrontURL+"/") {
		return strings.TrimPrefix(fileURL, s.cloudFrontURL+"/")
	}
	prefix := fmt.Sprintf("https://%s.s3.amazonaws.com/", s.bucket)
	if strings.HasPrefix(fileURL, prefix) {
		return strings.TrimPrefix(fileURL, prefix)
	}
	return ""
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}
