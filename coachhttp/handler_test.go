package coachhttp_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/programme-lv/cfcoach/cfapi"
	"github.com/programme-lv/cfcoach/cfdomain"
	"github.com/programme-lv/cfcoach/coachhttp"
	"github.com/programme-lv/cfcoach/coachsrvc"
	"github.com/programme-lv/cfcoach/recommend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubms struct {
	subs []cfdomain.Submission
	err  error
}

func (f *fakeSubms) FetchSubmissions(ctx context.Context, handle string) ([]cfdomain.Submission, error) {
	return f.subs, f.err
}

type fakeCatalog struct {
	problems []cfdomain.Problem
	err      error
}

func (f *fakeCatalog) Problems(ctx context.Context) ([]cfdomain.Problem, error) {
	return f.problems, f.err
}

// 2024-01-01 10:00:00 UTC
const day1 int64 = 1704103200

func setupHandler(t *testing.T, subms *fakeSubms, cat *fakeCatalog) http.Handler {
	t.Helper()
	srvc := coachsrvc.NewCoachSrvc(subms, recommend.NewSelector(cat, ""))
	h := coachhttp.NewCoachHttpHandler(srvc, map[string]coachhttp.HealthProbe{
		"catalog": func() any { return map[string]bool{"cached": true} },
	})
	r := chi.NewRouter()
	r.Use(coachhttp.RequestLogger(slog.Default()))
	h.RegisterRoutes(r)
	return r
}

func get(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func assertErrorInHttpResponse(t *testing.T, w *httptest.ResponseRecorder, expectedCode string) {
	t.Helper()

	assert.NotEqual(t, http.StatusOK, w.Code, "Expected error status code")

	var errorResponse struct {
		Status  string `json:"status"`
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &errorResponse)
	require.NoError(t, err, "Failed to unmarshal error response body")

	assert.Equal(t, "error", errorResponse.Status)
	assert.Equal(t, expectedCode, errorResponse.Code)
	assert.NotEmpty(t, errorResponse.Message)
}

func TestGetUserStatsHttp(t *testing.T) {
	dp := cfdomain.Problem{ContestID: 1, Index: "A", Name: "Dp One", Tags: []string{"dp"}, Rating: 1000}
	graphs := cfdomain.Problem{ContestID: 2, Index: "C", Name: "Graphs One", Tags: []string{"graphs", "dp"}, Rating: 1200}
	subms := &fakeSubms{subs: []cfdomain.Submission{
		{ID: 1, CreationTimeSeconds: day1, Verdict: cfdomain.VerdictOK, Problem: dp},
		{ID: 2, CreationTimeSeconds: day1 + 86400, Verdict: cfdomain.VerdictOK, Problem: graphs},
	}}
	cat := &fakeCatalog{problems: []cfdomain.Problem{
		{ContestID: 3, Index: "B", Name: "Next", Tags: []string{"graphs"}, Rating: 1300},
	}}

	w := get(t, setupHandler(t, subms, cat), "/users/tourist/stats")

	require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var resp struct {
		Status string              `json:"status"`
		Data   coachhttp.UserStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "success", resp.Status)
	data := resp.Data
	assert.Equal(t, "tourist", data.Handle)
	assert.Equal(t, 2, data.Solved)
	assert.Equal(t, 0, data.Unsolved)
	assert.Equal(t, 2, data.MaxStreak)
	assert.Equal(t, []coachhttp.TagCount{{Tag: "dp", Count: 2}, {Tag: "graphs", Count: 1}}, data.ByTag)
	assert.Equal(t, []coachhttp.RatingCount{{Rating: 1000, Count: 1}, {Rating: 1200, Count: 1}}, data.ByRating)
	assert.Equal(t, []coachhttp.HeatmapDay{
		{Date: "2024-01-01", Solved: 1, Attempts: 1, DayOfWeek: 1, WeekOfYear: 1},
		{Date: "2024-01-02", Solved: 1, Attempts: 1, DayOfWeek: 2, WeekOfYear: 1},
	}, data.Heatmap)
	require.Len(t, data.Recommendations, 1)
	assert.Equal(t, "https://codeforces.com/problemset/problem/3/B", data.Recommendations[0].Link)

	assert.NotContains(t, w.Body.String(), "solved_problem")
	assert.NotContains(t, w.Body.String(), "weak_tags")
}

func TestGetUserStatsHttpEmptyListsAreArrays(t *testing.T) {
	w := get(t, setupHandler(t, &fakeSubms{}, &fakeCatalog{err: errors.New("down")}), "/users/newbie/stats")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"by_tag":[]`)
	assert.Contains(t, body, `"heatmap":[]`)
	assert.Contains(t, body, `"recommendations":[]`)
}

func TestGetUserStatsHttpErrors(t *testing.T) {
	handler := setupHandler(t, &fakeSubms{err: cfapi.ErrHandleNotFound}, &fakeCatalog{})
	w := get(t, handler, "/users/ghost_user/stats")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assertErrorInHttpResponse(t, w, coachsrvc.ErrCodeUserProcessingFailed)

	w = get(t, handler, "/users/no/stats")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorInHttpResponse(t, w, coachsrvc.ErrCodeInvalidHandle)
}

type fakeLookup struct {
	problems []cfdomain.Problem
}

func (f *fakeLookup) Lookup(ctx context.Context, id cfdomain.ProblemID) (cfdomain.Problem, bool, error) {
	for _, p := range f.problems {
		if p.ID() == id {
			return p, true, nil
		}
	}
	return cfdomain.Problem{}, false, nil
}

func TestGetProblemHttp(t *testing.T) {
	lookup := &fakeLookup{problems: []cfdomain.Problem{
		{ContestID: 1850, Index: "B1", Name: "Ten Words of Wisdom", Tags: []string{"implementation"}, Rating: 800},
		{ContestID: 2000, Index: "Z", Name: "Unrated"},
	}}
	srvc := coachsrvc.NewCoachSrvc(&fakeSubms{},
		recommend.NewSelector(&fakeCatalog{}, ""),
		coachsrvc.WithProblemLookup(lookup, ""),
	)
	r := chi.NewRouter()
	r.Use(coachhttp.RequestLogger(slog.Default()))
	coachhttp.NewCoachHttpHandler(srvc, nil).RegisterRoutes(r)

	w := get(t, r, "/problems/1850/B1")
	require.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())
	assert.JSONEq(t, `{"status":"success","data":{
		"contest_id":1850,"index":"B1","name":"Ten Words of Wisdom","rating":800,
		"tags":["implementation"],"link":"https://codeforces.com/problemset/problem/1850/B1"}}`,
		w.Body.String())

	w = get(t, r, "/problems/2000/Z")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tags":[]`)
	assert.NotContains(t, w.Body.String(), `"rating"`)

	w = get(t, r, "/problems/1850/C")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assertErrorInHttpResponse(t, w, coachsrvc.ErrCodeProblemNotFound)

	w = get(t, r, "/problems/abc/A")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assertErrorInHttpResponse(t, w, coachsrvc.ErrCodeInvalidProblemID)
}

func TestHealthHttp(t *testing.T) {
	w := get(t, setupHandler(t, &fakeSubms{}, &fakeCatalog{}), "/healthz")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","data":{"catalog":{"cached":true}}}`, w.Body.String())
}

func TestStatsLoggerGroupsByRoute(t *testing.T) {
	var buf bytes.Buffer
	sl := coachhttp.NewStatsLogger(slog.New(slog.NewTextHandler(&buf, nil)), time.Hour)

	r := chi.NewRouter()
	r.Use(sl.Middleware)
	coachhttp.NewCoachHttpHandler(
		coachsrvc.NewCoachSrvc(&fakeSubms{}, recommend.NewSelector(&fakeCatalog{}, "")), nil,
	).RegisterRoutes(r)

	get(t, r, "/users/alice/stats")
	get(t, r, "/users/bobby/stats")
	sl.Flush()

	out := buf.String()
	assert.Contains(t, out, `endpoint="GET /users/{handle}/stats"`)
	assert.Contains(t, out, "count=2")
}
