package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]*s3.PutObjectInput
	bodies  map[string][]byte
	buckets map[string]bool
}

func newFakeS3() *fakeS3 {
	return &fakeS3{
		objects: map[string]*s3.PutObjectInput{},
		bodies:  map[string][]byte{},
		buckets: map[string]bool{},
	}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	key := aws.ToString(in.Key)
	f.objects[key] = in
	f.bodies[key] = body
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Key)
	obj, ok := f.objects[key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader(f.bodies[key])),
		ContentType: obj.ContentType,
	}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.buckets[aws.ToString(in.Bucket)] {
		return nil, &types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) CreateBucket(_ context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buckets[aws.ToString(in.Bucket)] = true
	return &s3.CreateBucketOutput{}, nil
}

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(&config.StorageConfig{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("half a key pair returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(&config.StorageConfig{Bucket: "b", AccessKeyID: "key"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be set together")
	})

	t.Run("valid config creates storage", func(t *testing.T) {
		s, err := NewS3ObjectStorage(&config.StorageConfig{
			Bucket:          "test-bucket",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
			Endpoint:        "http://localhost:9000",
			UsePathStyle:    true,
		})
		require.NoError(t, err)
		assert.Equal(t, "test-bucket", s.Bucket())
	})

	t.Run("invalid endpoint returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(&config.StorageConfig{Bucket: "b", Endpoint: "::not a url"})
		require.Error(t, err)
	})
}

func TestS3ObjectStorage_RoundTrip(t *testing.T) {
	fake := newFakeS3()
	s, err := NewS3ObjectStorage(&config.StorageConfig{Bucket: "site", Prefix: "/public/"},
		WithClient(fake), WithLogger(zap.NewNop()))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.EnsureBucket(ctx))
	assert.True(t, fake.buckets["site"])

	require.NoError(t, s.Put(ctx, "sitemap.xml", "application/xml", []byte("<urlset/>")))
	assert.Contains(t, fake.objects, "public/sitemap.xml")
	assert.Equal(t, int64(9), aws.ToInt64(fake.objects["public/sitemap.xml"].ContentLength))

	body, contentType, err := s.Get(ctx, "sitemap.xml")
	require.NoError(t, err)
	assert.Equal(t, "<urlset/>", string(body))
	assert.Equal(t, "application/xml", contentType)

	exists, err := s.Exists(ctx, "sitemap.xml")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, s.Delete(ctx, "sitemap.xml"))
	exists, err = s.Exists(ctx, "sitemap.xml")
	require.NoError(t, err)
	assert.False(t, exists)

	_, _, err = s.Get(ctx, "sitemap.xml")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestS3ObjectStorage_EmptyKey(t *testing.T) {
	s, err := NewS3ObjectStorage(&config.StorageConfig{Bucket: "b"}, WithClient(newFakeS3()))
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, s.Put(ctx, "", "text/plain", nil), ErrEmptyKey)
	assert.ErrorIs(t, s.Delete(ctx, ""), ErrEmptyKey)
	_, err = s.Exists(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)
	_, _, err = s.Get(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore("")
	ctx := context.Background()

	body := []byte("User-agent: *")
	require.NoError(t, s.Put(ctx, "robots.txt", "text/plain", body))
	body[0] = 'X'

	got, contentType, err := s.Get(ctx, "robots.txt")
	require.NoError(t, err)
	assert.Equal(t, "User-agent: *", string(got))
	assert.Equal(t, "text/plain", contentType)

	require.NoError(t, s.Delete(ctx, "robots.txt"))
	_, _, err = s.Get(ctx, "robots.txt")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestNew(t *testing.T) {
	s, err := New(&config.StorageConfig{Type: "memory"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = New(&config.StorageConfig{Type: "gcs"}, zap.NewNop())
	assert.Error(t, err)
}

// Runs against a local MinIO when STORAGE_INTEGRATION=1
func TestIntegration_S3RoundTrip(t *testing.T) {
	if os.Getenv("STORAGE_INTEGRATION") != "1" {
		t.Skip("Skipping integration test. Set STORAGE_INTEGRATION=1 and run MinIO on localhost:9000 to enable.")
	}

	s, err := NewS3ObjectStorage(&config.StorageConfig{
		Bucket:          "storefront-integration",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		Endpoint:        "http://localhost:9000",
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, s.EnsureBucket(ctx))

	require.NoError(t, s.Put(ctx, "it/robots.txt", "text/plain", []byte("ok")))
	body, _, err := s.Get(ctx, "it/robots.txt")
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	require.NoError(t, s.Delete(ctx, "it/robots.txt"))
}
