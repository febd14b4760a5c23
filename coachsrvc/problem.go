package coachsrvc

import (
	"context"
	"strings"

	"github.com/programme-lv/cfcoach/cfdomain"
	"github.com/programme-lv/cfcoach/logger"
	"github.com/programme-lv/cfcoach/recommend"
)

type ProblemLookup interface {
	Lookup(ctx context.Context, id cfdomain.ProblemID) (cfdomain.Problem, bool, error)
}

type ProblemDetails struct {
	cfdomain.Problem
	Link string
}

// GetProblem finds one problem in the catalog by its contest id and index.
// The index is matched case-insensitively, Codeforces indices are upper case.
func (s *CoachSrvc) GetProblem(ctx context.Context, contestID string, index string) (*ProblemDetails, error) {
	id, err := s.parseProblemID(strings.TrimSpace(contestID), strings.ToUpper(strings.TrimSpace(index)))
	if err != nil {
		return nil, err
	}
	if s.problems == nil {
		return nil, ErrCatalogUnavailable()
	}

	p, found, err := s.problems.Lookup(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Warn("problem lookup failed", "problem", id.String(), "error", err)
		return nil, ErrCatalogUnavailable().SetDebug(err)
	}
	if !found {
		return nil, ErrProblemNotFound()
	}

	return &ProblemDetails{
		Problem: p,
		Link:    recommend.ProblemLink(s.linkBase, p.ID()),
	}, nil
}
