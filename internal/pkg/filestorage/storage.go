package filestorage

import (
	"context"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// Bucket names used by the service
const (
	BucketProjectBanners = "project-banners"
	BucketProfileImages  = "profile-images"
)

// MaxImageSize bounds uploaded banner and profile images
const MaxImageSize = 5 << 20

var (
	ErrEmptyFile        = errors.New("no file uploaded")
	ErrFileTooLarge     = errors.New("file exceeds maximum size")
	ErrUnsupportedImage = errors.New("unsupported image type")
)

var allowedImageExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// FileStorage stores uploaded files in named buckets and hands back a public URL
type FileStorage interface {
	// SaveFile stores the upload in bucket and returns its public URL
	SaveFile(ctx context.Context, bucket string, fileHeader *multipart.FileHeader) (string, error)

	// DeleteFile removes a previously saved file given its public URL.
	// Missing files are not an error.
	DeleteFile(ctx context.Context, bucket, fileURL string) error
}

// ValidateImage checks size and extension of an uploaded image and returns its content type
func ValidateImage(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil || fileHeader.Size == 0 {
		return "", ErrEmptyFile
	}
	if fileHeader.Size > MaxImageSize {
		return "", ErrFileTooLarge
	}
	contentType, ok := allowedImageExt[strings.ToLower(filepath.Ext(fileHeader.Filename))]
	if !ok {
		return "", ErrUnsupportedImage
	}
	return contentType, nil
}

// objectNameFromURL returns the last path element of a stored file URL
func objectNameFromURL(fileURL string) string {
	if i := strings.LastIndex(fileURL, "/"); i >= 0 {
		return fileURL[i+1:]
	}
	return fileURL
}
