package file_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/securevault/pkg/file"
)

// MockS3Client is a mock implementation of the S3Client interface
type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *MockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func (m *MockS3Client) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadObjectOutput), args.Error(1)
}

func (m *MockS3Client) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params, optFns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func newMockedS3(t *testing.T, opts ...file.S3Option) (*file.S3Storage, *MockS3Client) {
	t.Helper()
	mockClient := new(MockS3Client)
	opts = append([]file.S3Option{file.WithS3Client(mockClient)}, opts...)
	storage, err := file.NewS3Storage(context.Background(), file.S3Config{
		Bucket: "test-bucket",
		Region: "us-east-1",
	}, opts...)
	require.NoError(t, err)
	return storage, mockClient
}

func TestNewS3Storage(t *testing.T) {
	t.Parallel()

	t.Run("with custom endpoint", func(t *testing.T) {
		t.Parallel()
		storage, err := file.NewS3Storage(context.Background(), file.S3Config{
			Bucket:         "test-bucket",
			Region:         "us-east-1",
			Endpoint:       "http://localhost:9000",
			ForcePathStyle: true,
		})
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000/test-bucket/a.svault", storage.URL("a.svault"))
	})

	t.Run("default base URL", func(t *testing.T) {
		t.Parallel()
		storage, _ := newMockedS3(t)
		assert.Equal(t, "https://test-bucket.s3.us-east-1.amazonaws.com/dir/a.svault", storage.URL("/dir/a.svault"))
	})

	t.Run("missing bucket", func(t *testing.T) {
		t.Parallel()
		storage, err := file.NewS3Storage(context.Background(), file.S3Config{Region: "us-east-1"})
		assert.ErrorIs(t, err, file.ErrInvalidConfig)
		assert.Nil(t, storage)
	})

	t.Run("missing region", func(t *testing.T) {
		t.Parallel()
		storage, err := file.NewS3Storage(context.Background(), file.S3Config{Bucket: "test-bucket"})
		assert.ErrorIs(t, err, file.ErrInvalidConfig)
		assert.Nil(t, storage)
	})
}

func TestS3Storage_Save(t *testing.T) {
	t.Parallel()

	t.Run("uploads blob with content type", func(t *testing.T) {
		t.Parallel()
		storage, mockClient := newMockedS3(t)
		data := []byte("SVLT-ciphertext")

		mockClient.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			body, _ := io.ReadAll(in.Body)
			return *in.Bucket == "test-bucket" &&
				*in.Key == "vault/report.pdf.svault" &&
				*in.ContentType == "application/vnd.securevault" &&
				*in.ContentLength == int64(len(data)) &&
				bytes.Equal(body, data)
		}), mock.Anything).Return(&s3.PutObjectOutput{}, nil)

		f, err := storage.Save(context.Background(), "/vault/report.pdf.svault", data, "application/vnd.securevault")
		require.NoError(t, err)
		assert.Equal(t, "report.pdf.svault", f.Filename)
		assert.Equal(t, ".svault", f.Extension)
		assert.Equal(t, "vault/report.pdf.svault", f.RelativePath)
		assert.Equal(t, int64(len(data)), f.Size)
		assert.Empty(t, f.AbsolutePath)
		mockClient.AssertExpectations(t)
	})

	t.Run("rejects traversal", func(t *testing.T) {
		t.Parallel()
		storage, mockClient := newMockedS3(t)

		_, err := storage.Save(context.Background(), "../escape", []byte("x"), "")
		assert.ErrorIs(t, err, file.ErrInvalidPath)
		mockClient.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("accepts dots inside a segment", func(t *testing.T) {
		t.Parallel()
		storage, mockClient := newMockedS3(t)
		mockClient.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			return *in.Key == "vault/flow/q1..q2.pdf.svault"
		}), mock.Anything).Return(&s3.PutObjectOutput{}, nil)

		f, err := storage.Save(context.Background(), "vault/flow/q1..q2.pdf.svault", []byte("x"), "")
		require.NoError(t, err)
		assert.Equal(t, "vault/flow/q1..q2.pdf.svault", f.RelativePath)
		mockClient.AssertExpectations(t)
	})

	t.Run("rejects dot segments", func(t *testing.T) {
		t.Parallel()
		storage, mockClient := newMockedS3(t)

		for _, key := range []string{"vault/../escape", "vault/./a", "vault//a", "vault/..", "dir/"} {
			_, err := storage.Save(context.Background(), key, []byte("x"), "")
			assert.ErrorIs(t, err, file.ErrInvalidPath, key)
		}
		mockClient.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("classifies access denied", func(t *testing.T) {
		t.Parallel()
		storage, mockClient := newMockedS3(t)
		mockClient.On("PutObject", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"})

		_, err := storage.Save(context.Background(), "a.svault", []byte("x"), "")
		assert.ErrorIs(t, err, file.ErrAccessDenied)
	})

	t.Run("classifies canceled context", func(t *testing.T) {
		t.Parallel()
		storage, mockClient := newMockedS3(t)
		mockClient.On("PutObject", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, context.Canceled)

		_, err := storage.Save(context.Background(), "a.svault", []byte("x"), "")
		assert.ErrorIs(t, err, file.ErrOperationCanceled)
	})
}

func TestS3Storage_Open(t *testing.T) {
	t.Parallel()

	t.Run("downloads blob", func(t *testing.T) {
		t.Parallel()
		storage, mockClient := newMockedS3(t)
		mockClient.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
			return *in.Key == "a.svault"
		}), mock.Anything).Return(&s3.GetObjectOutput{
			Body:          io.NopCloser(bytes.NewReader([]byte("payload"))),
			ContentLength: aws.Int64(7),
		}, nil)

		data, err := storage.Open(context.Background(), "a.svault")
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), data)
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		storage, mockClient := newMockedS3(t)
		mockClient.On("GetObject", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &types.NoSuchKey{})

		_, err := storage.Open(context.Background(), "missing.svault")
		assert.ErrorIs(t, err, file.ErrFileNotFound)
	})

	t.Run("enforces max size", func(t *testing.T) {
		t.Parallel()
		storage, mockClient := newMockedS3(t, file.WithS3MaxSize(4))
		mockClient.On("GetObject", mock.Anything, mock.Anything, mock.Anything).Return(&s3.GetObjectOutput{
			Body: io.NopCloser(bytes.NewReader([]byte("too large"))),
		}, nil)

		_, err := storage.Open(context.Background(), "big.svault")
		assert.ErrorIs(t, err, file.ErrFileTooLarge)
	})
}

func TestS3Storage_DeleteAndExists(t *testing.T) {
	t.Parallel()

	storage, mockClient := newMockedS3(t)
	mockClient.On("HeadObject", mock.Anything, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
		return *in.Key == "present.svault"
	}), mock.Anything).Return(&s3.HeadObjectOutput{}, nil)
	mockClient.On("HeadObject", mock.Anything, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
		return *in.Key == "absent.svault"
	}), mock.Anything).Return(nil, &types.NotFound{})
	mockClient.On("DeleteObject", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("boom")).Once()

	assert.True(t, storage.Exists(context.Background(), "present.svault"))
	assert.False(t, storage.Exists(context.Background(), "absent.svault"))
	assert.False(t, storage.Exists(context.Background(), "../etc/passwd"))

	err := storage.Delete(context.Background(), "present.svault")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete operation failed")
	mockClient.AssertExpectations(t)
}
