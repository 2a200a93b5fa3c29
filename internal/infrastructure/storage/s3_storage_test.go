package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves the path-style subset of the S3 REST API used by S3ObjectStorage
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[path] = body
		f.types[path] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		data, ok := f.objects[path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", f.types[path])
		_, _ = w.Write(data)
	case http.MethodDelete:
		delete(f.objects, path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3Storage(t *testing.T, fake *fakeS3, prefix string) *S3ObjectStorage {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := NewS3ObjectStorage(context.Background(), &config.StorageConfig{
		Enabled:         true,
		Bucket:          "attachments",
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		AccessKeyID:     "test-key",
		SecretAccessKey: "test-secret",
		UsePathStyle:    true,
		KeyPrefix:       prefix,
	})
	require.NoError(t, err)
	return s
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	ctx := context.Background()

	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(ctx, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(ctx, &config.StorageConfig{AccessKeyID: "k", SecretAccessKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("half configured credentials return error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(ctx, &config.StorageConfig{Bucket: "b", AccessKeyID: "k"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be set together")
	})

	t.Run("valid config creates storage", func(t *testing.T) {
		s, err := NewS3ObjectStorage(ctx, &config.StorageConfig{
			Bucket:          "test-bucket",
			AccessKeyID:     "k",
			SecretAccessKey: "s",
			Endpoint:        "localhost:9000",
			UsePathStyle:    true,
		})
		require.NoError(t, err)
		assert.Equal(t, "test-bucket", s.GetBucket())
	})
}

func TestS3ObjectStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	s := newTestS3Storage(t, fake, "erp/")

	require.NoError(t, s.Put(ctx, "customer/1/abc-license.pdf", []byte("%PDF-1.4"), "application/pdf"))

	fake.mu.Lock()
	stored, ok := fake.objects["attachments/erp/customer/1/abc-license.pdf"]
	contentType := fake.types["attachments/erp/customer/1/abc-license.pdf"]
	fake.mu.Unlock()
	require.True(t, ok, "object should be written under bucket and prefix")
	assert.Equal(t, []byte("%PDF-1.4"), stored)
	assert.Equal(t, "application/pdf", contentType)

	data, err := s.Get(ctx, "customer/1/abc-license.pdf")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)

	require.NoError(t, s.Delete(ctx, "customer/1/abc-license.pdf"))
	_, err = s.Get(ctx, "customer/1/abc-license.pdf")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestS3ObjectStorage_RequiresKey(t *testing.T) {
	s := newTestS3Storage(t, newFakeS3(), "")
	ctx := context.Background()

	assert.Error(t, s.Put(ctx, "", []byte("x"), "text/plain"))
	_, err := s.Get(ctx, "")
	assert.Error(t, err)
	assert.Error(t, s.Delete(ctx, ""))
}

func TestS3ObjectStorage_ObjectKey(t *testing.T) {
	s := &S3ObjectStorage{}
	assert.Equal(t, "a/b.pdf", s.objectKey("/a/b.pdf"))

	s.keyPrefix = "tenant"
	assert.Equal(t, "tenant/a/b.pdf", s.objectKey("a/b.pdf"))
}
