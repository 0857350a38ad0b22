package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/vango-dev/notes/pkg/telemetry"
)

// S3API is the subset of *s3.Client used by S3Sink.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// Presigner issues time-limited GET URLs. *s3.PresignClient implements it.
type Presigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Options configures an S3 client for NewS3Client.
type S3Options struct {
	Region   string
	Endpoint string // S3-compatible endpoint; enables path-style addressing
}

// NewS3Client builds an S3 client whose credentials come from the standard
// AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY and AWS_SESSION_TOKEN variables.
func NewS3Client(opts S3Options) *s3.Client {
	creds := aws.NewCredentialsCache(aws.CredentialsProviderFunc(
		func(context.Context) (aws.Credentials, error) {
			id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
			if id == "" || secret == "" {
				return aws.Credentials{}, fmt.Errorf("export: AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY must be set")
			}
			return aws.Credentials{
				AccessKeyID:     id,
				SecretAccessKey: secret,
				SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
				Source:          "environment",
			}, nil
		}))

	return s3.New(s3.Options{
		Region:      opts.Region,
		Credentials: creds,
	}, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
}

// S3Sink uploads snapshots to a bucket.
type S3Sink struct {
	client    S3API
	presigner Presigner
	bucket    string
	prefix    string
	urlExpiry time.Duration
	logger    *slog.Logger
}

// NewS3Sink stores snapshots in bucket under prefix.
func NewS3Sink(client S3API, bucket, prefix string, logger *slog.Logger) *S3Sink {
	if logger == nil {
		logger = slog.Default()
	}
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Sink{
		client:    client,
		bucket:    bucket,
		prefix:    prefix,
		urlExpiry: 24 * time.Hour,
		logger:    logger,
	}
}

// WithPresigner makes Put return presigned URLs valid for expiry.
func (s *S3Sink) WithPresigner(p Presigner, expiry time.Duration) *S3Sink {
	s.presigner = p
	if expiry > 0 {
		s.urlExpiry = expiry
	}
	return s
}

// Put uploads snap. The location is a presigned URL when a presigner is
// set, otherwise an s3:// URI.
func (s *S3Sink) Put(ctx context.Context, snap Snapshot) (loc string, err error) {
	name, err := cleanName(snap.Name)
	if err != nil {
		return "", err
	}
	key := s.prefix + name

	ctx, span := telemetry.StartSpan(ctx, "export.s3.put")
	defer func() { telemetry.EndSpan(span, err) }()

	created := snap.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(snap.Body),
		ContentType:  aws.String(snap.ContentType),
		CacheControl: aws.String("no-cache"),
		Metadata: map[string]string{
			"generated-at": created.Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("export: s3 upload %s: %w", key, err)
	}
	s.logger.Info("snapshot uploaded", "bucket", s.bucket, "key", key, "bytes", len(snap.Body))

	if s.presigner == nil {
		return "s3://" + s.bucket + "/" + key, nil
	}
	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.urlExpiry))
	if err != nil {
		return "", fmt.Errorf("export: presign %s: %w", key, err)
	}
	return req.URL, nil
}

// Prune deletes objects under the prefix last modified before maxAge ago.
func (s *S3Sink) Prune(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)

	var stale []string
	pages := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix),
	})
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("export: list %s/%s: %w", s.bucket, s.prefix, err)
		}
		for _, obj := range page.Contents {
			if obj.Key != nil && obj.LastModified != nil && obj.LastModified.Before(cutoff) {
				stale = append(stale, *obj.Key)
			}
		}
	}

	removed := 0
	for _, key := range stale {
		if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		}); err != nil {
			return removed, fmt.Errorf("export: delete %s: %w", key, err)
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info("snapshots pruned", "bucket", s.bucket, "prefix", s.prefix, "removed", removed)
	}
	return removed, nil
}
