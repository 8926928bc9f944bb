// Package store implements the two external collaborators the job engine
// depends on: a blob store for PNG artifacts and a key/value store for
// progress/status fields. Both ship an in-memory implementation (used by
// default and in tests) and a networked implementation: an S3-compatible
// object store for blobs and Redis for progress fields.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// ErrNotFound is returned by BlobStore.Get when the key does not exist.
var ErrNotFound = errors.New("store: object not found")

// BlobStore persists render artifacts (final and intermediate PNGs, preview
// cache entries) under string keys.
type BlobStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
}

// MemBlobStore is an in-memory BlobStore, the default when no object-store
// endpoint is configured and the implementation used by tests.
type MemBlobStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemBlobStore returns an empty in-memory blob store.
func NewMemBlobStore() *MemBlobStore {
	return &MemBlobStore{objects: make(map[string][]byte)}
}

// Put stores body under key, overwriting any existing object.
func (m *MemBlobStore) Put(_ context.Context, key string, body []byte, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(body))
	copy(cp, body)
	m.objects[key] = cp
	return nil
}

// Get returns the bytes stored under key, or ErrNotFound.
func (m *MemBlobStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	body, ok := m.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(body))
	copy(cp, body)
	return cp, nil
}

// S3Config configures an S3-compatible (MinIO or AWS) blob store.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
}

// S3BlobStore is a BlobStore backed by an S3-compatible object store,
// addressed path-style so it also works against MinIO.
type S3BlobStore struct {
	client *s3.S3
	bucket string
}

// NewS3BlobStore builds an S3BlobStore from cfg.
func NewS3BlobStore(cfg S3Config) (*S3BlobStore, error) {
	awsCfg := aws.NewConfig().
		WithRegion(cfg.Region).
		WithCredentials(credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")).
		WithS3ForcePathStyle(true)
	if cfg.Endpoint != "" {
		awsCfg = awsCfg.WithEndpoint(cfg.Endpoint)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("store: create s3 session: %w", err)
	}
	return &S3BlobStore{client: s3.New(sess), bucket: cfg.Bucket}, nil
}

// Put uploads body under key with the given content type.
func (s *S3BlobStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("store: put %s: %w", key, err)
	}
	return nil
}

// Get downloads the object at key, returning ErrNotFound if absent.
func (s *S3BlobStore) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: get %s: %w", key, err)
	}
	defer out.Body.Close()
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	return buf.Bytes(), nil
}

func isNotFound(err error) bool {
	var awsErr awserr.Error
	if errors.As(err, &awsErr) {
		switch awsErr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}
