package promotion

import (
	"context"
	"fmt"
	"os"
	"strings"

	"dinekart/internal/model"

	"github.com/rs/zerolog"
)

// fileSource implements Source for a YAML catalog on the local file system.
type fileSource struct {
	path   string
	logger zerolog.Logger
}

// NewFileSource creates a file-based promotion source. Paths ending in .gz are gunzipped.
func NewFileSource(path string, logger zerolog.Logger) Source {
	return &fileSource{
		path:   path,
		logger: logger.With().Str("component", "promotion-file-source").Logger(),
	}
}

// Load reads the catalog file.
func (s *fileSource) Load(ctx context.Context) ([]model.Promotion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.logger.Info().Str("file", s.path).Msg("loading promotion catalog")

	file, err := os.Open(s.path)
	if err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("failed to open promotion catalog")
		return nil, fmt.Errorf("failed to open promotion catalog %s: %w", s.path, err)
	}
	defer file.Close()

	promotions, err := decodeCatalog(file, strings.HasSuffix(s.path, ".gz"))
	if err != nil {
		s.logger.Error().Err(err).Str("file", s.path).Msg("failed to read promotion catalog")
		return nil, fmt.Errorf("failed to read promotion catalog %s: %w", s.path, err)
	}

	s.logger.Info().
		Str("file", s.path).
		Int("promotions_loaded", len(promotions)).
		Msg("promotion catalog loaded successfully")

	return promotions, nil
}

// Lister is the read side of the promotion repository.
type Lister interface {
	List(ctx context.Context) ([]model.Promotion, error)
}

// repositorySource implements Source over the promotions table.
type repositorySource struct {
	repo Lister
}

// NewRepositorySource reads the catalog from the database.
func NewRepositorySource(repo Lister) Source {
	return &repositorySource{repo: repo}
}

func (s *repositorySource) Load(ctx context.Context) ([]model.Promotion, error) {
	return s.repo.List(ctx)
}
