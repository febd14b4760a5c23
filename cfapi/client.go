package cfapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/programme-lv/cfcoach/cfdomain"
	"golang.org/x/time/rate"
)

const DefaultBaseURL = "https://codeforces.com/api/"

// Client talks to the public Codeforces API. It is safe for concurrent use;
// calls are spaced by the limiter to respect the API call rate limit.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMinInterval sets the minimum spacing between two upstream calls.
// Zero disables limiting.
func WithMinInterval(d time.Duration) Option {
	return func(c *Client) {
		if d <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchSubmissions returns every submission of handle ordered by ascending
// creation time. The API itself lists newest first.
func (c *Client) FetchSubmissions(ctx context.Context, handle string) ([]cfdomain.Submission, error) {
	params := url.Values{}
	params.Set("handle", handle)

	result, err := c.call(ctx, "user.status", params)
	if err != nil {
		return nil, fmt.Errorf("user.status %s: %w", handle, err)
	}

	var records []json.RawMessage
	if err := json.Unmarshal(result, &records); err != nil {
		return nil, fmt.Errorf("user.status %s: failed to decode result: %w", handle, err)
	}

	subs := make([]cfdomain.Submission, 0, len(records))
	for i, rec := range records {
		s, err := parseSubmission(i, rec)
		if err != nil {
			return nil, fmt.Errorf("user.status %s: %w", handle, err)
		}
		subs = append(subs, s)
	}

	sort.SliceStable(subs, func(i, j int) bool {
		if subs[i].CreationTimeSeconds != subs[j].CreationTimeSeconds {
			return subs[i].CreationTimeSeconds < subs[j].CreationTimeSeconds
		}
		return subs[i].ID < subs[j].ID
	})
	return subs, nil
}

// FetchCatalog returns all problems of the public problemset.
func (c *Client) FetchCatalog(ctx context.Context) ([]cfdomain.Problem, error) {
	result, err := c.call(ctx, "problemset.problems", nil)
	if err != nil {
		return nil, fmt.Errorf("problemset.problems: %w", err)
	}

	var set struct {
		Problems []json.RawMessage `json:"problems"`
	}
	if err := json.Unmarshal(result, &set); err != nil {
		return nil, fmt.Errorf("problemset.problems: failed to decode result: %w", err)
	}

	problems := make([]cfdomain.Problem, 0, len(set.Problems))
	for i, rec := range set.Problems {
		p, err := parseProblem(i, rec)
		if err != nil {
			return nil, fmt.Errorf("problemset.problems: %w", err)
		}
		problems = append(problems, p)
	}
	return problems, nil
}

type envelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

func (c *Client) call(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := c.baseURL + method
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{StatusCode: resp.StatusCode, Comment: truncate(string(body), 200)}
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if env.Status != "OK" {
		return nil, newAPIError(resp.StatusCode, env.Comment)
	}
	return env.Result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
