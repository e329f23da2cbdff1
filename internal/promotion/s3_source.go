package promotion

import (
	"context"
	"fmt"
	"io"
	"strings"

	"dinekart/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
)

// ObjectGetter is the subset of the S3 client the source needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Source implements Source for a YAML catalog stored in AWS S3.
type s3Source struct {
	client ObjectGetter
	bucket string
	key    string
	logger zerolog.Logger
}

// NewS3Source creates an S3-backed promotion source using the default AWS credential chain.
func NewS3Source(ctx context.Context, bucket, region, key string, logger zerolog.Logger) (Source, error) {
	logger = logger.With().Str("component", "promotion-s3-source").Logger()

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Str("key", key).
		Msg("S3 promotion source initialised")

	return NewS3SourceWithClient(s3.NewFromConfig(cfg), bucket, key, logger), nil
}

// NewS3SourceWithClient creates an S3 source over an existing client.
func NewS3SourceWithClient(client ObjectGetter, bucket, key string, logger zerolog.Logger) Source {
	return &s3Source{
		client: client,
		bucket: bucket,
		key:    key,
		logger: logger,
	}
}

// Load fetches and decodes the catalog object.
func (s *s3Source) Load(ctx context.Context) ([]model.Promotion, error) {
	s.logger.Info().
		Str("bucket", s.bucket).
		Str("key", s.key).
		Msg("loading promotion catalog from S3")

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", s.key).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", s.bucket, s.key, err)
	}
	defer result.Body.Close()

	promotions, err := decodeCatalog(result.Body, strings.HasSuffix(s.key, ".gz"))
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object %s: %w", s.key, err)
	}

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, result.Body)

	s.logger.Info().
		Str("key", s.key).
		Int("promotions_loaded", len(promotions)).
		Msg("promotion catalog loaded successfully from S3")

	return promotions, nil
}

// fallbackSource tries the primary source first, then the fallback.
type fallbackSource struct {
	primary  Source
	fallback Source
	logger   zerolog.Logger
}

// NewFallbackSource creates a source that tries primary first, then fallback.
// A nil primary uses only the fallback.
func NewFallbackSource(primary, fallback Source, logger zerolog.Logger) Source {
	return &fallbackSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger.With().Str("component", "promotion-fallback-source").Logger(),
	}
}

func (s *fallbackSource) Load(ctx context.Context) ([]model.Promotion, error) {
	if s.primary != nil {
		promotions, err := s.primary.Load(ctx)
		if err == nil {
			return promotions, nil
		}

		s.logger.Warn().
			Err(err).
			Msg("failed to load promotions from primary source, falling back")
	}

	return s.fallback.Load(ctx)
}
