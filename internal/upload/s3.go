package upload

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/go-faster/errors"
)

// S3Config holds the settings for the S3-backed uploader.
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// KeyPrefix namespaces uploaded objects, e.g. "payment-proofs".
	KeyPrefix string
	// BaseURL overrides the public URL prefix (CDN in front of the bucket).
	// When empty, the standard virtual-hosted bucket URL is used.
	BaseURL string
}

var _ Uploader = (*S3Uploader)(nil)

// S3Uploader implements Uploader backed by an S3 bucket.
type S3Uploader struct {
	client  *s3.Client
	bucket  string
	prefix  string
	baseURL string
	now     func() time.Time
}

// NewS3Uploader creates an S3Uploader with static credentials.
func NewS3Uploader(ctx context.Context, cfg S3Config) (*S3Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}

	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}

	return &S3Uploader{
		client:  s3.NewFromConfig(awsCfg),
		bucket:  cfg.Bucket,
		prefix:  strings.Trim(cfg.KeyPrefix, "/"),
		baseURL: baseURL,
		now:     time.Now,
	}, nil
}

// Upload puts the object under "<prefix>/<unix-ms>_<hint>" and returns its
// public URL. The content type is sniffed from the payload.
func (u *S3Uploader) Upload(ctx context.Context, data []byte, hint string) (string, error) {
	key := fmt.Sprintf("%d_%s", u.now().UnixMilli(), sanitizeHint(hint))
	if u.prefix != "" {
		key = u.prefix + "/" + key
	}

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(http.DetectContentType(data)),
	})
	if err != nil {
		return "", errors.Wrapf(err, "put object %s", key)
	}

	return u.baseURL + "/" + key, nil
}

// sanitizeHint keeps object keys to a safe character set.
func sanitizeHint(hint string) string {
	if hint == "" {
		return "upload"
	}
	var b strings.Builder
	b.Grow(len(hint))
	for _, r := range hint {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
