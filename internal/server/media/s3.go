package media

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}

	now = time.Now
)

// S3Config addresses the bucket. AccessKey/SecretKey are static
// credentials (MINIO_ROOT_USER / MINIO_ROOT_PASSWORD for MinIO).
type S3Config struct {
	Region        string
	AccessKey     string
	SecretKey     string
	BaseEndpoint  string
	Bucket        string
	PublicBaseURL string
}

type S3Uploader struct {
	cfg    S3Config
	client *s3.Client
}

func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}

	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("s3: load config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Uploader{cfg: cfg, client: client}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, f *File) (string, error) {
	if f == nil || f.Body == nil {
		return "", nil
	}

	key := StorageKey(f.Name)
	in := &s3.PutObjectInput{
		Bucket: aws.String(u.cfg.Bucket),
		Key:    aws.String(key),
		Body:   f.Body,
	}
	if f.ContentType != "" {
		in.ContentType = aws.String(f.ContentType)
	}
	if f.Size > 0 {
		in.ContentLength = aws.Int64(f.Size)
	}

	if _, err := putObject(u.client, ctx, in); err != nil {
		return "", fmt.Errorf("s3: put %s: %w", key, err)
	}

	return u.PublicURL(key), nil
}

// PublicURL is where key can be fetched: <PublicBaseURL>/<bucket>/<key>.
func (u *S3Uploader) PublicURL(key string) string {
	return strings.TrimRight(u.cfg.PublicBaseURL, "/") + "/" + u.cfg.Bucket + "/" + key
}

// StorageKey returns a fresh object key avatars/yyyy/mm/dd/<uuid><ext>,
// keeping the lower-cased extension of name.
func StorageKey(name string) string {
	d := now()
	return fmt.Sprintf("avatars/%04d/%02d/%02d/%s%s",
		d.Year(), d.Month(), d.Day(), uuid.New(), strings.ToLower(path.Ext(name)))
}
