package s3

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	internal_config "github.com/aljannat-dev/aljannat/shared/config"
	"github.com/aljannat-dev/aljannat/shared/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockObjectAPI struct {
	PutObjectFunc    func(ctx context.Context, params *s3.PutObjectInput) (*s3.PutObjectOutput, error)
	DeleteObjectFunc func(ctx context.Context, params *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error)
}

func (m *mockObjectAPI) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.PutObjectFunc != nil {
		return m.PutObjectFunc(ctx, params)
	}
	return &s3.PutObjectOutput{}, nil
}

func (m *mockObjectAPI) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if m.DeleteObjectFunc != nil {
		return m.DeleteObjectFunc(ctx, params)
	}
	return &s3.DeleteObjectOutput{}, nil
}

func TestPublicBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  internal_config.S3
		want string
	}{
		{name: "public url wins", cfg: internal_config.S3{Bucket: "b", PublicURL: "https://cdn.example.com/"}, want: "https://cdn.example.com"},
		{name: "path style endpoint", cfg: internal_config.S3{Bucket: "b", Endpoint: "http://minio:9000", UsePathStyle: true}, want: "http://minio:9000/b"},
		{name: "virtual host endpoint", cfg: internal_config.S3{Bucket: "b", Endpoint: "https://b.objects.example.com"}, want: "https://b.objects.example.com"},
		{name: "aws default", cfg: internal_config.S3{Bucket: "b", Region: "eu-west-1"}, want: "https://b.s3.eu-west-1.amazonaws.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicBaseURL(tt.cfg))
		})
	}
}

func TestUpload(t *testing.T) {
	var got *s3.PutObjectInput
	var body []byte
	mock := &mockObjectAPI{
		PutObjectFunc: func(ctx context.Context, params *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
			got = params
			body, _ = io.ReadAll(params.Body)
			return &s3.PutObjectOutput{}, nil
		},
	}
	storage := newWithClient(mock, internal_config.S3{Bucket: "media", PublicURL: "https://cdn.example.com"})

	obj, err := storage.Upload(context.Background(), domain.Object{Data: strings.NewReader("png-bytes"), Size: 9, ContentType: "image/png", Ext: ".PNG"})
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "media", aws.ToString(got.Bucket))
	assert.Equal(t, obj.Key, aws.ToString(got.Key))
	assert.Equal(t, "image/png", aws.ToString(got.ContentType))
	assert.Equal(t, int64(9), aws.ToInt64(got.ContentLength))
	assert.Equal(t, "png-bytes", string(body))
	assert.True(t, strings.HasPrefix(obj.Key, "media/"))
	assert.True(t, strings.HasSuffix(obj.Key, ".png"))
	assert.Equal(t, "https://cdn.example.com/"+obj.Key, obj.URL)

	t.Run("put failure", func(t *testing.T) {
		mock.PutObjectFunc = func(ctx context.Context, params *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
			return nil, errors.New("access denied")
		}
		_, err := storage.Upload(context.Background(), domain.Object{Data: strings.NewReader("x"), Ext: ".png"})
		assert.Error(t, err)
	})
}

func TestDestroy(t *testing.T) {
	var deletedKey string
	mock := &mockObjectAPI{
		DeleteObjectFunc: func(ctx context.Context, params *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
			deletedKey = aws.ToString(params.Key)
			return &s3.DeleteObjectOutput{}, nil
		},
	}
	storage := newWithClient(mock, internal_config.S3{Bucket: "media"})

	require.NoError(t, storage.Destroy(context.Background(), "media/2024/01/a.png"))
	assert.Equal(t, "media/2024/01/a.png", deletedKey)

	assert.Error(t, storage.Destroy(context.Background(), ""))

	mock.DeleteObjectFunc = func(ctx context.Context, params *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return nil, &types.NoSuchKey{}
	}
	assert.NoError(t, storage.Destroy(context.Background(), "gone.png"), "missing object is not an error")

	mock.DeleteObjectFunc = func(ctx context.Context, params *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return nil, errors.New("timeout")
	}
	assert.Error(t, storage.Destroy(context.Background(), "a.png"))
}

// TestAgainstFakeEndpoint drives the real SDK client against an httptest
// server standing in for MinIO.
func TestAgainstFakeEndpoint(t *testing.T) {
	var (
		mu       sync.Mutex
		requests []string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		mu.Lock()
		requests = append(requests, r.Method+" "+r.URL.Path)
		mu.Unlock()
		switch r.Method {
		case http.MethodPut:
			w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
			w.WriteHeader(http.StatusOK)
		case http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	defer server.Close()

	storage, err := New(context.Background(), internal_config.S3{
		Bucket:          "media",
		Region:          "us-east-1",
		Endpoint:        server.URL,
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		UsePathStyle:    true,
	})
	require.NoError(t, err)

	obj, err := storage.Upload(context.Background(), domain.Object{Data: strings.NewReader("gif89a"), Size: 6, ContentType: "image/gif", Ext: ".gif"})
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/media/"+obj.Key, obj.URL)

	require.NoError(t, storage.Destroy(context.Background(), obj.Key))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, requests, 2)
	assert.Equal(t, "PUT /media/"+obj.Key, requests[0])
	assert.Equal(t, "DELETE /media/"+obj.Key, requests[1])
}
