package uploads

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRandomStorageKey(t *testing.T) {
	key := GetRandomStorageKey("photo.JPG")
	assert.True(t, strings.HasPrefix(key, "uploads/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	other := GetRandomStorageKey("photo.JPG")
	assert.NotEqual(t, key, other, "keys must be unique per upload")
}

func TestSave_Success(t *testing.T) {
	origPut := putObject
	t.Cleanup(func() { putObject = origPut })

	var gotBucket, gotKey, gotContentType, gotBody string
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		gotBucket = aws.ToString(in.Bucket)
		gotKey = aws.ToString(in.Key)
		gotContentType = aws.ToString(in.ContentType)
		b, _ := io.ReadAll(in.Body)
		gotBody = string(b)
		return &s3.PutObjectOutput{}, nil
	}

	store := NewS3Store("thrifted", "us-east-1", "http://localhost:9000", "http://localhost:9000/thrifted/", "ak", "sk")
	url, err := store.Save(context.Background(), "photo.png", "image/png", strings.NewReader("img-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "thrifted", gotBucket)
	assert.Equal(t, "image/png", gotContentType)
	assert.Equal(t, "img-bytes", gotBody)
	assert.Equal(t, "http://localhost:9000/thrifted/"+gotKey, url)
	assert.True(t, strings.HasSuffix(gotKey, ".png"))
}

func TestSave_PutError(t *testing.T) {
	origPut := putObject
	t.Cleanup(func() { putObject = origPut })

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return nil, errors.New("bucket unavailable")
	}

	store := NewS3Store("thrifted", "us-east-1", "", "http://cdn.example.com", "ak", "sk")
	_, err := store.Save(context.Background(), "photo.png", "image/png", strings.NewReader("x"))
	require.Error(t, err)
}

func TestSave_ConfigError(t *testing.T) {
	origLoad := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = origLoad })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("bad credentials")
	}

	store := NewS3Store("thrifted", "us-east-1", "", "http://cdn.example.com", "ak", "sk")
	_, err := store.Save(context.Background(), "photo.png", "image/png", strings.NewReader("x"))
	require.Error(t, err)
}
