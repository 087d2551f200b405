package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/iudanet/nvdmirror/internal/models"
)

//go:generate moq -out s3api_mock.go . S3API

// maxDeleteBatch is the DeleteObjects limit per request
const maxDeleteBatch = 1000

// S3API is the subset of the S3 client used by the archiver
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// S3Options configures the S3 archiver
type S3Options struct {
	Bucket          string
	Prefix          string
	Region          string
	Endpoint        string // Endpoint для MinIO / LocalStack
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// S3 archives into a bucket using the same layout as FS under Prefix
type S3 struct {
	client S3API
	logger *slog.Logger
	now    func() time.Time
	bucket string
	prefix string
}

// NewS3 builds an S3 client from the default credential chain, overridden by
// static credentials and a custom endpoint when they are set
func NewS3(ctx context.Context, opts S3Options, logger *slog.Logger) (*S3, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("s3 archive: bucket is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	return NewS3WithClient(client, opts.Bucket, opts.Prefix, logger), nil
}

// NewS3WithClient wraps an existing client
func NewS3WithClient(client S3API, bucket, prefix string, logger *slog.Logger) *S3 {
	return &S3{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
		now:    time.Now,
	}
}

func (a *S3) key(parts ...string) string {
	if a.prefix != "" {
		parts = append([]string{a.prefix}, parts...)
	}
	return path.Join(parts...)
}

func (a *S3) put(ctx context.Context, key string, body io.Reader) error {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String("application/json"),
	})
	return err
}

// SavePage uploads the indented page
func (a *S3) SavePage(ctx context.Context, prefix string, offset int, raw []byte) error {
	key := a.key(PagesDir, pageName(prefix, offset, a.now()))
	if err := a.put(ctx, key, bytes.NewReader(indentPage(raw))); err != nil {
		return fmt.Errorf("failed to archive page %d to s3://%s/%s: %w", offset, a.bucket, key, err)
	}
	a.logger.Debug("Archived raw response", "prefix", prefix, "offset", offset, "key", key)
	return nil
}

// BeginSnapshot stages the snapshot in a local temp file; Commit uploads it
func (a *S3) BeginSnapshot(ctx context.Context, prefix string) (SnapshotWriter, error) {
	f, err := os.CreateTemp("", prefix+"_FULL_*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot staging file: %w", err)
	}
	return &s3Snapshot{
		file:   f,
		out:    newArrayWriter(f),
		prefix: prefix,
		s3:     a,
	}, nil
}

// Cleanup deletes page objects whose LastModified is older than retention
func (a *S3) Cleanup(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := a.now().Add(-retention)
	listPrefix := a.key(PagesDir) + "/"
	a.logger.Info("Starting archive cleanup", "bucket", a.bucket, "prefix", listPrefix, "cutoff", cutoff)

	var stale []types.ObjectIdentifier
	paginator := s3.NewListObjectsV2Paginator(a.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(a.bucket),
		Prefix: aws.String(listPrefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to list archive objects: %w", err)
		}
		for _, obj := range page.Contents {
			if obj.LastModified != nil && obj.LastModified.Before(cutoff) {
				stale = append(stale, types.ObjectIdentifier{Key: obj.Key})
			}
		}
	}

	deleted := 0
	for start := 0; start < len(stale); start += maxDeleteBatch {
		end := min(start+maxDeleteBatch, len(stale))
		batch := stale[start:end]

		out, err := a.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(a.bucket),
			Delete: &types.Delete{
				Objects: batch,
				Quiet:   aws.Bool(true),
			},
		})
		if err != nil {
			return deleted, fmt.Errorf("failed to delete archive objects: %w", err)
		}

		for _, e := range out.Errors {
			a.logger.Error("Failed to delete archive object",
				"key", aws.ToString(e.Key),
				"error", aws.ToString(e.Message))
		}
		deleted += len(batch) - len(out.Errors)
	}

	a.logger.Info("Finished archive cleanup", "deleted", deleted)
	return deleted, nil
}

type s3Snapshot struct {
	file   *os.File
	out    *arrayWriter
	s3     *S3
	prefix string
	closed bool
}

func (s *s3Snapshot) Append(items []models.Document) error {
	if s.closed {
		return os.ErrClosed
	}
	return s.out.append(items)
}

func (s *s3Snapshot) Commit(ctx context.Context) (string, error) {
	if s.closed {
		return "", os.ErrClosed
	}
	s.closed = true
	defer func() {
		_ = s.file.Close()
		_ = os.Remove(s.file.Name())
	}()

	if err := s.out.close(); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind snapshot: %w", err)
	}

	key := s.s3.key(snapshotName(s.prefix, s.s3.now()))
	if err := s.s3.put(ctx, key, s.file); err != nil {
		return "", fmt.Errorf("failed to upload snapshot: %w", err)
	}

	location := fmt.Sprintf("s3://%s/%s", s.s3.bucket, key)
	s.s3.logger.Info("Saved snapshot", "location", location, "items", s.out.count)
	return location, nil
}

func (s *s3Snapshot) Abort() error {
	if s.closed {
		return nil
	}
	s.closed = true
	_ = s.file.Close()
	return os.Remove(s.file.Name())
}
