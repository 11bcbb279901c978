package plotjob

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"fuzzplot/internal/discover"
	"fuzzplot/internal/logparse"
	"fuzzplot/internal/types"
	"fuzzplot/pkg/database"
)

// Extractor runs a parser over every source, going through the series cache
// when one is configured
type Extractor struct {
	cache  *database.SeriesCache
	logger *zap.Logger
}

func NewExtractor(cache *database.SeriesCache, logger *zap.Logger) *Extractor {
	return &Extractor{cache, logger.Named("extractor")}
}

// Extract returns the series of all sources in source order. Single-series
// parsers get the source label as series name.
func (e *Extractor) Extract(ctx context.Context, parser logparse.Parser, sources []discover.Source) ([]types.Series, error) {
	var out []types.Series
	for _, src := range sources {
		extracted, err := e.extractOne(ctx, parser, src)
		if err != nil {
			return nil, err
		}
		for _, s := range extracted {
			if s.Name == "" {
				s.Name = src.Label
			}
			s.Source = src.Path
			out = append(out, s)
		}
	}
	return out, nil
}

func (e *Extractor) extractOne(ctx context.Context, parser logparse.Parser, src discover.Source) ([]types.Series, error) {
	content, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src.Path, err)
	}

	key := database.SeriesKey(content, parser.Name())
	cached, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Warn("series cache read failed", zap.String("file", src.Path), zap.Error(err))
	}
	if ok {
		e.logger.Debug("series cache hit", zap.String("file", src.Path))
		return cached, nil
	}

	extracted, err := parser.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", src.Path, err)
	}
	e.logger.Debug("parsed log",
		zap.String("file", src.Path),
		zap.String("parser", parser.Name()),
		zap.Int("series", len(extracted)))

	if err := e.cache.Set(ctx, key, extracted); err != nil {
		e.logger.Warn("series cache write failed", zap.String("file", src.Path), zap.Error(err))
	}
	return extracted, nil
}
