package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultUploadURLExpiration is how long a presigned upload URL stays valid
const DefaultUploadURLExpiration = 15 * time.Minute

// ImageService manages product images in object storage. Products keep
// only the object key.
type ImageService struct {
	productRepo catalog.ProductRepository
	storage     catalog.ObjectStorageService
	expiration  time.Duration
	logger      *zap.Logger
}

// NewImageService creates a new ImageService
func NewImageService(productRepo catalog.ProductRepository, storage catalog.ObjectStorageService, expiration time.Duration, logger *zap.Logger) *ImageService {
	if expiration <= 0 {
		expiration = DefaultUploadURLExpiration
	}
	return &ImageService{
		productRepo: productRepo,
		storage:     storage,
		expiration:  expiration,
		logger:      logger,
	}
}

// RequestUpload reserves a fresh object key for the product and returns a
// presigned URL the client uploads the bytes to
func (s *ImageService) RequestUpload(ctx context.Context, productID uuid.UUID, req ImageUploadRequest) (*ImageUploadResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	key, contentType, err := catalog.NewImageKey(productID, req.Filename)
	if err != nil {
		return nil, err
	}
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, s.expiration)
	if err != nil {
		return nil, shared.NewStorageError(err)
	}
	return &ImageUploadResponse{
		Key:         key,
		UploadURL:   url,
		ContentType: contentType,
		ExpiresAt:   expiresAt,
	}, nil
}

// Attach stores an uploaded object's key on the product. The previous
// image, if any, is deleted best-effort.
func (s *ImageService) Attach(ctx context.Context, productID uuid.UUID, req AttachImageRequest) (*ProductResponse, error) {
	if !catalog.IsProductImageKey(productID, req.Key) {
		return nil, shared.NewValidationError("Image key does not belong to this product")
	}
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	exists, err := s.storage.ObjectExists(ctx, req.Key)
	if err != nil {
		return nil, shared.NewStorageError(err)
	}
	if !exists {
		return nil, shared.NewValidationError("Image has not been uploaded")
	}
	previous, err := product.SetImage(req.Key)
	if err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	if previous != req.Key {
		s.deleteObject(ctx, previous)
	}
	s.logger.Info("Product image attached",
		zap.String("product_id", productID.String()),
		zap.String("key", req.Key),
	)
	return s.toResponse(ctx, product), nil
}

// Clear removes the product's image and deletes the object best-effort
func (s *ImageService) Clear(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	previous := product.ClearImage()
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.deleteObject(ctx, previous)
	return s.toResponse(ctx, product), nil
}

func (s *ImageService) deleteObject(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("Failed to delete previous product image", zap.String("key", key), zap.Error(err))
	}
}

func (s *ImageService) toResponse(ctx context.Context, p *catalog.Product) *ProductResponse {
	resp := ToProductResponse(p)
	resp.ImageURL = imageURL(ctx, s.storage, p.ImageRef, s.logger)
	return &resp
}
