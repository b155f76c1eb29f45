package storage

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/catalog"
)

// DefaultStubBaseURL is used when StubObjectStorage has no BaseURL
const DefaultStubBaseURL = "http://localhost:8080/_stub-storage"

var _ catalog.ObjectStorageService = (*StubObjectStorage)(nil)

// StubObjectStorage keeps object keys in memory. It stands in for S3 when
// storage is disabled and in tests. Generating an upload URL does not create
// the object; call Put to simulate the client's upload.
type StubObjectStorage struct {
	BaseURL string

	mu      sync.RWMutex
	objects map[string]string // key -> content type
	now     func() time.Time
}

// NewStubObjectStorage creates an empty stub
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: DefaultStubBaseURL,
		objects: make(map[string]string),
		now:     time.Now,
	}
}

// Put records key as uploaded
func (s *StubObjectStorage) Put(key, contentType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = contentType
}

// Len returns the number of stored objects
func (s *StubObjectStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *StubObjectStorage) GenerateUploadURL(_ context.Context, key, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := s.now().Add(expiresIn)
	q := url.Values{}
	q.Set("content_type", contentType)
	q.Set("expires", expiresAt.UTC().Format(time.RFC3339))
	return s.BaseURL + "/" + key + "?" + q.Encode(), expiresAt, nil
}

func (s *StubObjectStorage) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	return s.BaseURL + "/" + key, s.now().Add(expiresIn), nil
}

func (s *StubObjectStorage) ObjectExists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("storage key is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *StubObjectStorage) DeleteObject(_ context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}
