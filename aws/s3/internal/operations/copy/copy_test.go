package copy

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awstypes "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	s3errors "github.com/saleem-mirza/aws-demos/aws/s3/errors"
	"github.com/saleem-mirza/aws-demos/aws/s3/internal/testutil"
	"github.com/saleem-mirza/aws-demos/aws/s3/s3types"
)

func TestCopySource(t *testing.T) {
	tests := []struct {
		name   string
		bucket string
		key    string
		want   string
	}{
		{"plain", "uploads", "a/b/c.txt", "uploads/a/b/c.txt"},
		{"spaces", "uploads", "my photos/beach day.png", "uploads/my%20photos/beach%20day.png"},
		{"plus and hash", "uploads", "a+b#1.txt", "uploads/a%2Bb%231.txt"},
		{"plus and space", "b", "c++ x", "b/c%2B%2B%20x"},
		{"sub-delims", "b", "in/a&b=c;d@e$f,g.txt", "b/in/a%26b%3Dc%3Bd%40e%24f%2Cg.txt"},
		{"tilde kept", "b", "~home/x~1.txt", "b/~home/x~1.txt"},
		{"control character", "b", "in/a\tb.txt", "b/in/a%09b.txt"},
		{"question mark", "uploads", "what?.txt", "uploads/what%3F.txt"},
		{"unicode", "uploads", "файл.txt", "uploads/%D1%84%D0%B0%D0%B9%D0%BB.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CopySource(tt.bucket, tt.key))
		})
	}
}

func TestPartSize(t *testing.T) {
	const gib = int64(1024 * 1024 * 1024)

	assert.Equal(t, int64(DefaultPartSize), PartSize(6*gib, nil))
	assert.Equal(t, int64(64*1024*1024), PartSize(6*gib, &s3types.CopyOptionConfig{PartSize: 64 * 1024 * 1024}))
	assert.Equal(t, int64(minPartSize), PartSize(6*gib, &s3types.CopyOptionConfig{PartSize: 1024}))

	// 5TiB with 128MiB parts would need more than 10000 parts.
	size := 5 * 1024 * gib
	partSize := PartSize(size, nil)
	assert.LessOrEqual(t, calculateParts(size, partSize), maxParts)
}

func TestCopier_SimpleCopy(t *testing.T) {
	var copyCalls int32
	mock := &testutil.MockS3Client{
		HeadObjectFunc: func(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
			assert.Equal(t, "uploads", aws.ToString(params.Bucket))
			assert.Equal(t, "a/b/c.txt", aws.ToString(params.Key))
			return &s3.HeadObjectOutput{ContentLength: aws.Int64(42)}, nil
		},
		CopyObjectFunc: func(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
			atomic.AddInt32(&copyCalls, 1)
			assert.Equal(t, "uploads", aws.ToString(params.Bucket))
			assert.Equal(t, "processed/1.0_c.txt", aws.ToString(params.Key))
			assert.Equal(t, "uploads/a/b/c.txt", aws.ToString(params.CopySource))
			assert.Empty(t, params.MetadataDirective)
			return &s3.CopyObjectOutput{}, nil
		},
		CreateMultipartUploadFunc: func(ctx context.Context, params *s3.CreateMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
			t.Fatal("multipart upload must not be used for small objects")
			return nil, nil
		},
	}

	err := NewCopier(mock).Copy(context.Background(), "uploads", "a/b/c.txt", "uploads", "processed/1.0_c.txt", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(1), copyCalls)
}

func TestCopier_CopyOptions(t *testing.T) {
	mock := &testutil.MockS3Client{
		CopyObjectFunc: func(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
			assert.Equal(t, awstypes.MetadataDirectiveReplace, params.MetadataDirective)
			assert.Equal(t, "pipeline", params.Metadata["source"])
			assert.Equal(t, awstypes.StorageClassStandardIa, params.StorageClass)
			assert.Equal(t, awstypes.ServerSideEncryptionAwsKms, params.ServerSideEncryption)
			assert.Equal(t, "key-id", aws.ToString(params.SSEKMSKeyId))
			return &s3.CopyObjectOutput{}, nil
		},
	}

	cfg := &s3types.CopyOptionConfig{
		Metadata:        map[string]string{"source": "pipeline"},
		ReplaceMetadata: true,
		StorageClass:    s3types.StorageClassStandardIA,
		SSE:             &s3types.SSEConfig{Type: s3types.SSEKMS, KMSKeyID: "key-id"},
	}

	err := NewCopier(mock).Copy(context.Background(), "uploads", "a.txt", "uploads", "processed/a.txt", cfg)
	require.NoError(t, err)
}

func TestCopier_SourceMissing(t *testing.T) {
	mock := &testutil.MockS3Client{
		HeadObjectFunc: func(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "NotFound", Message: "Not Found"}
		},
		CopyObjectFunc: func(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
			t.Fatal("copy must not be attempted when the source is missing")
			return nil, nil
		},
	}

	err := NewCopier(mock).Copy(context.Background(), "uploads", "gone.txt", "uploads", "processed/gone.txt", nil)
	require.Error(t, err)
	assert.True(t, s3errors.IsObjectNotFound(err))
	assert.Contains(t, err.Error(), "uploads/gone.txt")
}

func TestCopier_CopyFailure(t *testing.T) {
	mock := &testutil.MockS3Client{
		CopyObjectFunc: func(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"}
		},
	}

	err := NewCopier(mock).Copy(context.Background(), "uploads", "a.txt", "uploads", "processed/a.txt", nil)
	require.Error(t, err)
	assert.True(t, s3errors.IsAccessDenied(err))
	assert.Contains(t, err.Error(), "failed to copy from uploads/a.txt")
}

func TestCopier_MultipartCopy(t *testing.T) {
	const objectSize = int64(MaxSingleCopySize) + 10
	partSize := PartSize(objectSize, nil)
	wantParts := calculateParts(objectSize, partSize)

	var (
		mu     sync.Mutex
		ranges = map[int32]string{}
	)

	mock := &testutil.MockS3Client{
		HeadObjectFunc: func(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
			return &s3.HeadObjectOutput{ContentLength: aws.Int64(objectSize)}, nil
		},
		CopyObjectFunc: func(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
			t.Fatal("single copy must not be used above the size limit")
			return nil, nil
		},
		UploadPartCopyFunc: func(ctx context.Context, params *s3.UploadPartCopyInput, optFns ...func(*s3.Options)) (*s3.UploadPartCopyOutput, error) {
			assert.Equal(t, "mock-upload-id", aws.ToString(params.UploadId))
			assert.Equal(t, "uploads/big.bin", aws.ToString(params.CopySource))
			mu.Lock()
			ranges[aws.ToInt32(params.PartNumber)] = aws.ToString(params.CopySourceRange)
			mu.Unlock()
			return &s3.UploadPartCopyOutput{
				CopyPartResult: &awstypes.CopyPartResult{ETag: aws.String("etag")},
			}, nil
		},
		CompleteMultipartUploadFunc: func(ctx context.Context, params *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
			parts := params.MultipartUpload.Parts
			require.Len(t, parts, wantParts)
			for i, part := range parts {
				assert.Equal(t, int32(i+1), aws.ToInt32(part.PartNumber))
			}
			return &s3.CompleteMultipartUploadOutput{}, nil
		},
	}

	err := NewCopier(mock).Copy(context.Background(), "uploads", "big.bin", "uploads", "processed/big.bin", nil)
	require.NoError(t, err)

	assert.Len(t, ranges, wantParts)
	assert.Equal(t, "bytes=0-134217727", ranges[1])
	lastStart := int64(wantParts-1) * partSize
	assert.Equal(t, "bytes="+itoa(lastStart)+"-"+itoa(objectSize-1), ranges[int32(wantParts)])
}

func TestCopier_MultipartCopyAbortsOnFailure(t *testing.T) {
	var aborted int32

	mock := &testutil.MockS3Client{
		HeadObjectFunc: func(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
			return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(MaxSingleCopySize) + 1)}, nil
		},
		UploadPartCopyFunc: func(ctx context.Context, params *s3.UploadPartCopyInput, optFns ...func(*s3.Options)) (*s3.UploadPartCopyOutput, error) {
			return nil, errors.New("part failed")
		},
		CompleteMultipartUploadFunc: func(ctx context.Context, params *s3.CompleteMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
			t.Fatal("upload must not complete after a failed part")
			return nil, nil
		},
		AbortMultipartUploadFunc: func(ctx context.Context, params *s3.AbortMultipartUploadInput, optFns ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
			atomic.AddInt32(&aborted, 1)
			assert.Equal(t, "mock-upload-id", aws.ToString(params.UploadId))
			return &s3.AbortMultipartUploadOutput{}, nil
		},
	}

	err := NewCopier(mock).Copy(context.Background(), "uploads", "big.bin", "uploads", "processed/big.bin", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "part failed")
	assert.Equal(t, int32(1), aborted)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
