package coachsrvc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/programme-lv/cfcoach/cfapi"
	"github.com/programme-lv/cfcoach/cfdomain"
	"github.com/programme-lv/cfcoach/logger"
	"github.com/programme-lv/cfcoach/recommend"
	"github.com/programme-lv/cfcoach/stats"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type SubmissionFetcher interface {
	FetchSubmissions(ctx context.Context, handle string) ([]cfdomain.Submission, error)
}

type Recommender interface {
	Recommend(ctx context.Context, st *stats.UserStats) []recommend.RecommendedProblem
}

// CoachSrvc builds a user report: fetch submissions, aggregate them, lay
// out the activity calendar and pick recommendations. It keeps no state
// between calls.
type CoachSrvc struct {
	subms    SubmissionFetcher
	recs     Recommender
	problems ProblemLookup
	linkBase string
	validate *validator.Validate
	tracer   trace.Tracer
}

type Option func(*CoachSrvc)

// WithProblemLookup enables GetProblem. Links are built against linkBase.
func WithProblemLookup(problems ProblemLookup, linkBase string) Option {
	return func(s *CoachSrvc) {
		s.problems = problems
		if linkBase != "" {
			s.linkBase = linkBase
		}
	}
}

func NewCoachSrvc(subms SubmissionFetcher, recs Recommender, opts ...Option) *CoachSrvc {
	s := &CoachSrvc{
		subms:    subms,
		recs:     recs,
		linkBase: recommend.DefaultProblemURL,
		validate: newValidator(),
		tracer:   otel.Tracer("github.com/programme-lv/cfcoach/coachsrvc"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type UserReport struct {
	Handle          string
	Stats           *stats.UserStats
	Calendar        []stats.CalendarEntry
	Recommendations []recommend.RecommendedProblem
}

func (s *CoachSrvc) GetUserReport(ctx context.Context, handle string) (*UserReport, error) {
	handle = strings.TrimSpace(handle)
	if err := s.validateHandle(handle); err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "coachsrvc.GetUserReport",
		trace.WithAttributes(attribute.String("cf.handle", handle)))
	defer span.End()

	log := logger.FromContext(ctx)

	subs, err := s.subms.FetchSubmissions(ctx, handle)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch submissions")
		return nil, ErrCouldNotProcessUser(fetchErrStatus(err)).
			SetDebug(fmt.Errorf("failed to fetch submissions: %w", err))
	}
	span.SetAttributes(attribute.Int("cf.submissions", len(subs)))

	st, err := stats.Aggregate(subs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "aggregate")
		return nil, ErrCouldNotProcessUser(http.StatusBadGateway).SetDebug(err)
	}

	recs := s.recs.Recommend(ctx, st)
	span.SetAttributes(attribute.Int("cf.recommendations", len(recs)))

	log.Info("user report built",
		"submissions", len(subs),
		"solved", st.SolvedCount,
		"recommendations", len(recs))

	return &UserReport{
		Handle:          handle,
		Stats:           st,
		Calendar:        stats.BuildCalendar(st.DailyActivity),
		Recommendations: recs,
	}, nil
}

func fetchErrStatus(err error) int {
	if errors.Is(err, cfapi.ErrHandleNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadGateway
}
