package cfapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/programme-lv/cfcoach/cfdomain"
	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerClient wraps Client with a circuit breaker. Unknown handles and
// malformed records do not count as failures.
type BreakerClient struct {
	client *Client
	cb     *gobreaker.CircuitBreaker[any]
}

func NewBreakerClient(client *Client) *BreakerClient {
	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        "codeforces-api",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			if err == nil || errors.Is(err, ErrHandleNotFound) {
				return true
			}
			var fe *cfdomain.FormatError
			return errors.As(err, &fe)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return &BreakerClient{client: client, cb: cb}
}

func (bc *BreakerClient) FetchSubmissions(ctx context.Context, handle string) ([]cfdomain.Submission, error) {
	return castResult[[]cfdomain.Submission](bc.cb.Execute(func() (any, error) {
		return bc.client.FetchSubmissions(ctx, handle)
	}))
}

func (bc *BreakerClient) FetchCatalog(ctx context.Context) ([]cfdomain.Problem, error) {
	return castResult[[]cfdomain.Problem](bc.cb.Execute(func() (any, error) {
		return bc.client.FetchCatalog(ctx)
	}))
}

// State reports "closed", "half-open" or "open".
func (bc *BreakerClient) State() string {
	return bc.cb.State().String()
}

func castResult[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}
