// internal/services/storage_service.go
package services

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/museum-backend/internal/config"
)

var (
	ErrFileTooLarge       = errors.New("file exceeds the maximum allowed size")
	ErrFileTypeNotAllowed = errors.New("file type is not allowed")
)

// StorageService keeps the bytes of exhibit photos and documents, either on
// the local disk under MEDIA_ROOT or in an S3 bucket. The database only holds
// the returned key.
type StorageService struct {
	s3Client *s3.S3
	config   *config.Config
	now      func() time.Time
}

type UploadResult struct {
	URL      string `json:"url"`
	Key      string `json:"key"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}

type UploadOptions struct {
	Folder       string // may contain time layout elements, e.g. "photos/2006/01/02"
	MaxSize      int64  // in bytes
	AllowedTypes []string
	IsPublic     bool
	ImageOnly    bool
}

func NewStorageService(cfg *config.Config) (*StorageService, error) {
	s := &StorageService{config: cfg, now: time.Now}

	if cfg.Storage.Backend != "s3" {
		return s, nil
	}

	awsConfig := &aws.Config{Region: aws.String(cfg.AWS.Region)}
	if cfg.AWS.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(
			cfg.AWS.AccessKeyID,
			cfg.AWS.SecretAccessKey,
			"",
		)
	}

	// Create AWS session
	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	s.s3Client = s3.New(sess)
	return s, nil
}

func (s *StorageService) PhotoUploadOptions() UploadOptions {
	return UploadOptions{
		Folder:       "exhibit_photos/2006/01/02",
		MaxSize:      s.config.Storage.MaxPhotoSize * 1024 * 1024,
		AllowedTypes: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"},
		IsPublic:     true,
		ImageOnly:    true,
	}
}

func (s *StorageService) DocumentUploadOptions() UploadOptions {
	return UploadOptions{
		Folder:  "exhibit_docs/2006/01/02",
		MaxSize: s.config.Storage.MaxDocSize * 1024 * 1024,
		AllowedTypes: []string{
			".pdf", ".doc", ".docx", ".odt", ".rtf", ".txt",
			".jpg", ".jpeg", ".png", ".tif", ".tiff",
		},
		IsPublic: true,
	}
}

func (s *StorageService) UploadFile(header *multipart.FileHeader, options UploadOptions) (*UploadResult, error) {
	// Validate file size
	if options.MaxSize > 0 && header.Size > options.MaxSize {
		return nil, fmt.Errorf("%d bytes (limit %d): %w", header.Size, options.MaxSize, ErrFileTooLarge)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	return s.Save(file, header.Filename, header.Header.Get("Content-Type"), options)
}

// Save stores the content of r under a fresh key derived from filename.
func (s *StorageService) Save(r io.Reader, filename, contentType string, options UploadOptions) (*UploadResult, error) {
	// Validate file type
	fileExt := strings.ToLower(filepath.Ext(filename))
	if len(options.AllowedTypes) > 0 && !contains(options.AllowedTypes, fileExt) {
		return nil, fmt.Errorf("%q: %w", fileExt, ErrFileTypeNotAllowed)
	}

	reader := r
	if options.MaxSize > 0 {
		reader = io.LimitReader(r, options.MaxSize+1)
	}

	// Read file content
	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if options.MaxSize > 0 && int64(len(fileBytes)) > options.MaxSize {
		return nil, fmt.Errorf("limit %d bytes: %w", options.MaxSize, ErrFileTooLarge)
	}

	if options.ImageOnly && !isValidImageType(fileBytes) {
		return nil, fmt.Errorf("content is not a supported image: %w", ErrFileTypeNotAllowed)
	}

	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(fileBytes)
	}

	key := s.generateFileName(filename, options.Folder)

	// Upload to S3 or local storage
	if s.s3Client != nil {
		return s.uploadToS3(fileBytes, key, contentType, options.IsPublic)
	}

	return s.uploadToLocal(fileBytes, key, contentType)
}

func (s *StorageService) uploadToS3(fileBytes []byte, key, contentType string, isPublic bool) (*UploadResult, error) {
	// Prepare S3 upload parameters
	params := &s3.PutObjectInput{
		Bucket:        aws.String(s.config.AWS.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(fileBytes),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(fileBytes))),
	}

	if isPublic {
		params.ACL = aws.String("public-read")
	}

	// Upload to S3
	if _, err := s.s3Client.PutObject(params); err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:      s.URL(key),
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

func (s *StorageService) uploadToLocal(fileBytes []byte, key, contentType string) (*UploadResult, error) {
	fullPath := filepath.Join(s.config.Storage.LocalPath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}
	if err := os.WriteFile(fullPath, fileBytes, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &UploadResult{
		URL:      s.URL(key),
		Key:      key,
		Size:     int64(len(fileBytes)),
		MimeType: contentType,
	}, nil
}

// DeleteFile removes a stored object. External references and missing
// files are ignored.
func (s *StorageService) DeleteFile(key string) error {
	if key == "" || isExternalReference(key) {
		return nil
	}

	if s.s3Client == nil {
		fullPath := filepath.Join(s.config.Storage.LocalPath, filepath.FromSlash(path.Clean("/" + key)))
		if err := os.Remove(fullPath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to delete file: %w", err)
		}
		return nil
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.config.AWS.S3Bucket),
		Key:    aws.String(key),
	})

	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}

	return nil
}

// DeleteFileQuietly is used after a database delete has already committed.
func (s *StorageService) DeleteFileQuietly(key string) {
	if err := s.DeleteFile(key); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Failed to delete stored file")
	}
}

// URL turns a stored key into an address clients can fetch.
func (s *StorageService) URL(key string) string {
	if key == "" || isExternalReference(key) {
		return key
	}

	if s.s3Client != nil {
		return s.getS3URL(key)
	}

	return strings.TrimRight(s.config.Storage.PublicBaseURL, "/") + "/" + strings.TrimLeft(key, "/")
}

func (s *StorageService) generateFileName(originalName, folder string) string {
	// Get file extension
	ext := strings.ToLower(filepath.Ext(originalName))

	// Create filename with timestamp and UUID
	now := s.now()
	filename := fmt.Sprintf("%s_%s%s", now.Format("20060102"), uuid.New().String()[:8], ext)

	if folder != "" {
		return path.Join(now.Format(folder), filename)
	}

	return filename
}

func (s *StorageService) getS3URL(key string) string {
	if s.config.AWS.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.config.AWS.CloudFrontURL, "/"), key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s",
		s.config.AWS.S3Bucket, s.config.AWS.Region, key)
}

func isValidImageType(buffer []byte) bool {
	// Check for JPEG
	if len(buffer) >= 3 && buffer[0] == 0xFF && buffer[1] == 0xD8 && buffer[2] == 0xFF {
		return true
	}

	// Check for PNG
	if len(buffer) >= 8 && buffer[0] == 0x89 && buffer[1] == 0x50 && buffer[2] == 0x4E && buffer[3] == 0x47 {
		return true
	}

	// Check for GIF
	if len(buffer) >= 6 && (string(buffer[0:6]) == "GIF87a" || string(buffer[0:6]) == "GIF89a") {
		return true
	}

	// Check for WebP
	if len(buffer) >= 12 && string(buffer[0:4]) == "RIFF" && string(buffer[8:12]) == "WEBP" {
		return true
	}

	return false
}

func isExternalReference(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func contains(items []string, item string) bool {
	for _, candidate := range items {
		if candidate == item {
			return true
		}
	}
	return false
}
