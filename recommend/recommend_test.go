package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/programme-lv/cfcoach/cfdomain"
	"github.com/programme-lv/cfcoach/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStats(tags []stats.Entry[string], ratings []stats.Entry[int], solved ...cfdomain.ProblemID) *stats.UserStats {
	st := &stats.UserStats{
		ByTag:            stats.NewCounter[string](),
		ByRating:         stats.NewCounter[int](),
		DailyActivity:    map[string]stats.DayActivity{},
		SolvedProblemIDs: map[cfdomain.ProblemID]struct{}{},
		WeakTags:         map[string]struct{}{},
	}
	for _, e := range tags {
		for i := 0; i < e.Count; i++ {
			st.ByTag.Inc(e.Key)
		}
	}
	for _, e := range ratings {
		for i := 0; i < e.Count; i++ {
			st.ByRating.Inc(e.Key)
		}
	}
	for _, id := range solved {
		st.SolvedProblemIDs[id] = struct{}{}
	}
	st.SolvedCount = len(solved)
	return st
}

func problem(contest int, index string, rating int, tags ...string) cfdomain.Problem {
	return cfdomain.Problem{ContestID: contest, Index: index, Name: "P" + index, Rating: rating, Tags: tags}
}

func TestRecommendTargetsWeakTags(t *testing.T) {
	z := problem(300, "Z", 1000, "dp")
	st := newStats(
		[]stats.Entry[string]{{Key: "dp", Count: 5}, {Key: "graphs", Count: 1}, {Key: "strings", Count: 2}, {Key: "math", Count: 3}},
		[]stats.Entry[int]{{Key: 1000, Count: 3}, {Key: 1100, Count: 2}},
		z.ID(),
	)
	catalog := []cfdomain.Problem{
		problem(100, "X", 1250, "graphs"),
		problem(200, "Y", 1900, "graphs"),
		z,
		problem(400, "W", 1200, "dp"),
	}

	got := Recommend(st, catalog)

	require.Len(t, got, 1)
	assert.Equal(t, RecommendedProblem{
		ContestID: 100,
		Index:     "X",
		Name:      "PX",
		Rating:    1250,
		Tags:      []string{"graphs"},
		Link:      "https://codeforces.com/problemset/problem/100/X",
	}, got[0])
}

func TestRecommendEmptyStatsGivesNothing(t *testing.T) {
	st := newStats(nil, nil)
	catalog := []cfdomain.Problem{
		problem(1, "A", 800, "implementation"),
		problem(1, "B", 900, "math"),
	}

	assert.Equal(t, 800, TargetRating(st.ByRating))
	assert.Empty(t, WeakTags(st.ByTag))

	got := Recommend(st, catalog)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestWeakTagsStableOnTies(t *testing.T) {
	st := newStats([]stats.Entry[string]{
		{Key: "greedy", Count: 4},
		{Key: "math", Count: 2},
		{Key: "dp", Count: 2},
		{Key: "graphs", Count: 1},
		{Key: "strings", Count: 2},
	}, nil)

	assert.Equal(t, []string{"graphs", "math", "dp"}, WeakTags(st.ByTag))
}

func TestWeakTagsFewerThanThree(t *testing.T) {
	st := newStats([]stats.Entry[string]{{Key: "dp", Count: 3}, {Key: "math", Count: 1}}, nil)
	assert.Equal(t, []string{"math", "dp"}, WeakTags(st.ByTag))
}

func TestTargetRating(t *testing.T) {
	st := newStats(nil, []stats.Entry[int]{{Key: 1500, Count: 1}, {Key: 2100, Count: 1}, {Key: 800, Count: 4}})
	assert.Equal(t, 2200, TargetRating(st.ByRating))
}

func TestRecommendRanksByDistanceThenCatalogOrder(t *testing.T) {
	st := newStats(
		[]stats.Entry[string]{{Key: "dp", Count: 1}},
		[]stats.Entry[int]{{Key: 1400, Count: 1}},
	)
	// target 1500
	catalog := []cfdomain.Problem{
		problem(1, "A", 1700, "dp"),
		problem(2, "A", 1400, "dp"),
		problem(3, "A", 1600, "dp"),
		problem(4, "A", 1500, "dp"),
		problem(5, "A", 1300, "dp"),
		problem(6, "A", 1500, "dp", "math"),
		problem(7, "A", 1750, "dp"),
		problem(8, "A", 0, "dp"),
		problem(9, "A", 1500, "math"),
	}

	got := Recommend(st, catalog)

	ids := make([]int, 0, len(got))
	for _, p := range got {
		ids = append(ids, p.ContestID)
	}
	assert.Equal(t, []int{4, 6, 2, 3, 1}, ids)
}

func TestRecommendLimitsToFive(t *testing.T) {
	st := newStats([]stats.Entry[string]{{Key: "dp", Count: 1}}, nil)
	catalog := make([]cfdomain.Problem, 0)
	for i := 1; i <= 20; i++ {
		catalog = append(catalog, problem(i, "A", 800, "dp"))
	}

	got := Recommend(st, catalog)
	require.Len(t, got, 5)
	assert.Equal(t, 1, got[0].ContestID)
	assert.Equal(t, 5, got[4].ContestID)
}

func TestRecommendDoesNotShareTagSlices(t *testing.T) {
	st := newStats([]stats.Entry[string]{{Key: "dp", Count: 1}}, nil)
	catalog := []cfdomain.Problem{problem(1, "A", 800, "dp")}

	got := Recommend(st, catalog)
	require.Len(t, got, 1)
	got[0].Tags[0] = "changed"
	assert.Equal(t, "dp", catalog[0].Tags[0])
}

func TestProblemLink(t *testing.T) {
	id := cfdomain.ProblemID{ContestID: 1850, Index: "B1"}
	assert.Equal(t, "https://example.org/p/1850/B1", ProblemLink("https://example.org/p", id))
	assert.Equal(t, "https://example.org/p/1850/B1", ProblemLink("https://example.org/p/", id))
}

type fakeCatalog struct {
	problems []cfdomain.Problem
	err      error
}

func (f *fakeCatalog) Problems(ctx context.Context) ([]cfdomain.Problem, error) {
	return f.problems, f.err
}

func TestSelectorDegradesToEmptyOnCatalogFailure(t *testing.T) {
	st := newStats([]stats.Entry[string]{{Key: "dp", Count: 1}}, nil)
	sel := NewSelector(&fakeCatalog{err: errors.New("codeforces is down")}, "")

	got := sel.Recommend(context.Background(), st)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSelectorUsesLinkBase(t *testing.T) {
	st := newStats([]stats.Entry[string]{{Key: "dp", Count: 1}}, nil)
	sel := NewSelector(&fakeCatalog{problems: []cfdomain.Problem{problem(7, "C", 900, "dp")}}, "https://mirror.example/problem/")

	got := sel.Recommend(context.Background(), st)
	require.Len(t, got, 1)
	assert.Equal(t, "https://mirror.example/problem/7/C", got[0].Link)
}
