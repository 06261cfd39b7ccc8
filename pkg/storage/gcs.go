package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// ObjectStore is the storage surface the handlers depend on: writing audio
// objects and issuing time-limited read URLs for them.
type ObjectStore interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) error
	SignedURL(objectPath string, ttl time.Duration) (string, error)
}

// GCSStore implements ObjectStore on a single Google Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore initializes the GCS client from a service account key file
func NewGCSStore(ctx context.Context, bucket, credentialsPath string) (*GCSStore, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("GCS credentials path not provided")
	}

	// Check if the credentials file exists
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("GCS credentials file not found at %s", credentialsPath)
	}

	client, err := storage.NewClient(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS storage client: %w", err)
	}

	log.Println("GCS storage client initialized successfully!")
	return &GCSStore{client: client, bucket: bucket}, nil
}

// Upload writes an object to the bucket
func (s *GCSStore) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) error {
	obj := s.client.Bucket(s.bucket).Object(objectPath)
	writer := obj.NewWriter(ctx)
	writer.ContentType = contentType
	writer.CacheControl = "no-cache, no-store, must-revalidate"

	if _, err := io.Copy(writer, r); err != nil {
		return fmt.Errorf("failed to write object %s: %w", objectPath, err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer for %s: %w", objectPath, err)
	}
	return nil
}

// SignedURL issues a time-limited V4 signed GET URL for an object
func (s *GCSStore) SignedURL(objectPath string, ttl time.Duration) (string, error) {
	url, err := s.client.Bucket(s.bucket).SignedURL(objectPath, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for %s: %w", objectPath, err)
	}
	return url, nil
}

// Close releases the underlying client
func (s *GCSStore) Close() error {
	return s.client.Close()
}
