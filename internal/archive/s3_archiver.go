package archive

import (
	"bytes"
	"context"
	"fmt"

	"order-etl/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// putObjectAPI is the subset of the S3 client used by the archiver.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Archiver implements Archiver on AWS S3.
type s3Archiver struct {
	client putObjectAPI
	bucket string
	prefix string
	logger zerolog.Logger
}

// NewS3Archiver creates an S3-backed archiver using the default AWS credential chain.
func NewS3Archiver(ctx context.Context, bucket, region, prefix string, logger zerolog.Logger) (Archiver, error) {
	logger = logger.With().Str("component", "s3-archiver").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 archiver initialised")

	return newS3Archiver(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

func newS3Archiver(client putObjectAPI, bucket, prefix string, logger zerolog.Logger) *s3Archiver {
	return &s3Archiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger,
	}
}

// Archive uploads the archive to bucket/prefix+name.
func (a *s3Archiver) Archive(ctx context.Context, name string, docs []model.OrderDocument) error {
	data, err := encode(docs)
	if err != nil {
		return err
	}

	key := a.prefix + name
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(a.bucket),
		Key:             aws.String(key),
		Body:            bytes.NewReader(data),
		ContentLength:   aws.Int64(int64(len(data))),
		ContentType:     aws.String("application/x-ndjson"),
		ContentEncoding: aws.String("gzip"),
	})
	if err != nil {
		a.logger.Error().
			Err(err).
			Str("bucket", a.bucket).
			Str("key", key).
			Msg("failed to put archive object")
		return fmt.Errorf("failed to put archive object (bucket=%s, key=%s): %w", a.bucket, key, err)
	}

	a.logger.Info().
		Str("bucket", a.bucket).
		Str("key", key).
		Int("documents", len(docs)).
		Msg("archive uploaded to S3")

	return nil
}

// fallbackArchiver tries S3 first, then the local file system.
type fallbackArchiver struct {
	s3Archiver   Archiver
	fileArchiver Archiver
	logger       zerolog.Logger
}

// NewFallbackArchiver creates an archiver that falls back to fileArchiver when
// s3Archiver is nil or fails.
func NewFallbackArchiver(s3Archiver, fileArchiver Archiver, logger zerolog.Logger) Archiver {
	return &fallbackArchiver{
		s3Archiver:   s3Archiver,
		fileArchiver: fileArchiver,
		logger:       logger.With().Str("component", "fallback-archiver").Logger(),
	}
}

// Archive writes to S3 when configured, otherwise or on failure to the local file system.
func (a *fallbackArchiver) Archive(ctx context.Context, name string, docs []model.OrderDocument) error {
	if a.s3Archiver != nil {
		err := a.s3Archiver.Archive(ctx, name, docs)
		if err == nil {
			return nil
		}

		a.logger.Warn().
			Err(err).
			Str("name", name).
			Msg("failed to archive to S3, falling back to local file system")
	} else {
		a.logger.Debug().Msg("S3 archive not configured, using local file system")
	}

	return a.fileArchiver.Archive(ctx, name, docs)
}
