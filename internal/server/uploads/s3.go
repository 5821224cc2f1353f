package uploads

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
)

// S3Store uploads files to an S3-compatible bucket (MinIO in development).
type S3Store struct {
	bucket        string
	region        string
	baseEndpoint  string
	publicBaseURL string
	accessKey     string
	secretKey     string
}

func NewS3Store(bucket, region, baseEndpoint, publicBaseURL, accessKey, secretKey string) *S3Store {
	return &S3Store{
		bucket:        bucket,
		region:        region,
		baseEndpoint:  baseEndpoint,
		publicBaseURL: publicBaseURL,
		accessKey:     accessKey,
		secretKey:     secretKey,
	}
}

// GetRandomStorageKey keeps the original extension so browsers infer the
// content type from the URL, and shards keys by upload date.
func GetRandomStorageKey(filename string) string {
	d := time.Now()
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("uploads/%d/%02d/%02d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

func (s *S3Store) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.accessKey,
			s.secretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.baseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.baseEndpoint)
			o.UsePathStyle = true
		}
	})

	return client, nil
}

func (s *S3Store) Save(ctx context.Context, filename string, contentType string, body io.Reader) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	key := GetRandomStorageKey(filename)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        body,
		ContentType: &contentType,
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s", strings.TrimRight(s.publicBaseURL, "/"), key), nil
}
