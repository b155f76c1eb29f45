package catalog

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// imageContentTypes maps the accepted image extensions to their MIME type
var imageContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ObjectStorageService stores product images in an object store.
// Only the object key is kept on the product.
type ObjectStorageService interface {
	// GenerateUploadURL returns a presigned PUT URL and its expiry
	GenerateUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error)
	// GenerateDownloadURL returns a presigned GET URL and its expiry
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
	DeleteObject(ctx context.Context, key string) error
}

// NewImageKey builds a fresh object key products/<id>/<uuid><ext> for
// filename and returns it with the matching content type
func NewImageKey(productID uuid.UUID, filename string) (key, contentType string, err error) {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(filename)))
	contentType, ok := imageContentTypes[ext]
	if !ok {
		return "", "", shared.NewValidationError("Image must be one of png, jpg, jpeg, gif or webp")
	}
	return imageKeyPrefix(productID) + uuid.NewString() + ext, contentType, nil
}

// IsProductImageKey reports whether key was generated for productID
func IsProductImageKey(productID uuid.UUID, key string) bool {
	rest, ok := strings.CutPrefix(key, imageKeyPrefix(productID))
	if !ok || strings.Contains(rest, "/") {
		return false
	}
	_, allowed := imageContentTypes[strings.ToLower(path.Ext(rest))]
	return allowed
}

func imageKeyPrefix(productID uuid.UUID) string {
	return "products/" + productID.String() + "/"
}
