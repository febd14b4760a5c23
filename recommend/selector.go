package recommend

import (
	"context"

	"github.com/programme-lv/cfcoach/cfdomain"
	"github.com/programme-lv/cfcoach/logger"
	"github.com/programme-lv/cfcoach/stats"
)

// CatalogSource provides the full problem catalog, usually from a cache.
type CatalogSource interface {
	Problems(ctx context.Context) ([]cfdomain.Problem, error)
}

// Selector runs Recommend against a catalog source. Recommendations are
// best effort: when the catalog is unavailable the result is empty and the
// failure is only logged.
type Selector struct {
	catalog  CatalogSource
	linkBase string
}

func NewSelector(catalog CatalogSource, linkBase string) *Selector {
	if linkBase == "" {
		linkBase = DefaultProblemURL
	}
	return &Selector{catalog: catalog, linkBase: linkBase}
}

func (s *Selector) Recommend(ctx context.Context, st *stats.UserStats) []RecommendedProblem {
	problems, err := s.catalog.Problems(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn("problem catalog unavailable, skipping recommendations", "error", err)
		return []RecommendedProblem{}
	}
	return recommend(st, problems, s.linkBase)
}
