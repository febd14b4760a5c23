package stats_test

import (
	"errors"
	"testing"

	"github.com/programme-lv/cfcoach/cfdomain"
	"github.com/programme-lv/cfcoach/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-01 10:00:00 UTC, a Monday
const day1 int64 = 1704103200
const day int64 = 24 * 60 * 60

func prob(contest int, index string, rating int, tags ...string) cfdomain.Problem {
	return cfdomain.Problem{
		ContestID: contest,
		Index:     index,
		Name:      "Problem " + index,
		Tags:      tags,
		Rating:    rating,
	}
}

func subm(at int64, verdict cfdomain.Verdict, p cfdomain.Problem) cfdomain.Submission {
	return cfdomain.Submission{CreationTimeSeconds: at, Verdict: verdict, Problem: p}
}

const ok = cfdomain.VerdictOK
const wa = cfdomain.VerdictWrongAnswer

func TestAggregateMixedVerdicts(t *testing.T) {
	subs := []cfdomain.Submission{
		subm(day1, ok, prob(1, "A", 1000, "dp")),
		subm(day1+60, wa, prob(1, "B", 0, "dp")),
		subm(day1+day, ok, prob(2, "C", 1200, "graphs")),
	}

	st, err := stats.Aggregate(subs)
	require.NoError(t, err)

	assert.Equal(t, 2, st.SolvedCount)
	assert.Equal(t, 1, st.UnsolvedCount)
	assert.Equal(t, map[string]int{"dp": 1, "graphs": 1}, st.ByTag.Map())
	assert.Equal(t, []string{"dp", "graphs"}, st.ByTag.Keys())
	assert.Equal(t, map[int]int{1000: 1, 1200: 1}, st.ByRating.Map())
	assert.Equal(t, map[string]struct{}{"dp": {}}, st.WeakTags)
	assert.Equal(t, 1, st.MaxStreak)
	assert.True(t, st.HasSolved(cfdomain.ProblemID{ContestID: 1, Index: "A"}))
	assert.True(t, st.HasSolved(cfdomain.ProblemID{ContestID: 2, Index: "C"}))
	assert.False(t, st.HasSolved(cfdomain.ProblemID{ContestID: 1, Index: "B"}))

	assert.Equal(t, stats.DayActivity{
		Date: "2024-01-01", Solved: 1, Attempts: 2, DayOfWeek: 1, WeekOfYear: 1,
	}, st.DailyActivity["2024-01-01"])
	assert.Equal(t, stats.DayActivity{
		Date: "2024-01-02", Solved: 1, Attempts: 1, DayOfWeek: 2, WeekOfYear: 1,
	}, st.DailyActivity["2024-01-02"])
}

func TestAggregateResubmissionOnlyCountsAttempt(t *testing.T) {
	a := prob(1, "A", 1000, "dp", "greedy")
	subs := []cfdomain.Submission{
		subm(day1, ok, a),
		subm(day1+day, ok, a),
		subm(day1+day+5, wa, a),
	}

	st, err := stats.Aggregate(subs)
	require.NoError(t, err)

	assert.Equal(t, 1, st.SolvedCount)
	assert.Equal(t, map[string]int{"dp": 1, "greedy": 1}, st.ByTag.Map())
	assert.Equal(t, map[int]int{1000: 1}, st.ByRating.Map())

	second := st.DailyActivity["2024-01-02"]
	assert.Equal(t, 0, second.Solved)
	assert.Equal(t, 2, second.Attempts)
}

func TestAggregateUnratedExcludedFromByRating(t *testing.T) {
	subs := []cfdomain.Submission{
		subm(day1, ok, prob(1, "A", 0, "math")),
		subm(day1+1, ok, prob(1, "B", 1400, "math")),
	}

	st, err := stats.Aggregate(subs)
	require.NoError(t, err)

	assert.Equal(t, 2, st.SolvedCount)
	assert.Equal(t, 2, st.ByTag.Get("math"))
	assert.Equal(t, map[int]int{1400: 1}, st.ByRating.Map())
	assert.LessOrEqual(t, sumCounts(st.ByRating.Map()), st.SolvedCount)
}

func TestAggregateEmpty(t *testing.T) {
	st, err := stats.Aggregate(nil)
	require.NoError(t, err)

	assert.Equal(t, 0, st.SolvedCount)
	assert.Equal(t, 0, st.UnsolvedCount)
	assert.Equal(t, 0, st.MaxStreak)
	assert.Empty(t, st.DailyActivity)
	assert.Equal(t, 0, st.ByTag.Len())
	assert.Equal(t, 0, st.ByRating.Len())
	assert.Empty(t, stats.BuildCalendar(st.DailyActivity))
}

func TestAggregateMalformedFailsWholeCall(t *testing.T) {
	subs := []cfdomain.Submission{
		subm(day1, ok, prob(1, "A", 1000, "dp")),
		subm(day1+1, ok, cfdomain.Problem{Name: "no identity"}),
	}

	st, err := stats.Aggregate(subs)
	require.Error(t, err)
	assert.Nil(t, st)

	var fe *cfdomain.FormatError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, 1, fe.Index)
}

func TestAggregateIsIdempotent(t *testing.T) {
	subs := []cfdomain.Submission{
		subm(day1, wa, prob(1, "A", 1000, "dp")),
		subm(day1+10, ok, prob(1, "A", 1000, "dp")),
		subm(day1+day, ok, prob(3, "D", 1600, "graphs", "dfs and similar")),
		subm(day1+3*day, ok, prob(4, "E", 0, "strings")),
	}
	snapshot := make([]cfdomain.Submission, len(subs))
	copy(snapshot, subs)

	first, err := stats.Aggregate(subs)
	require.NoError(t, err)
	second, err := stats.Aggregate(subs)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, snapshot, subs)
}

func TestAggregateSolvedCountMonotonic(t *testing.T) {
	subs := []cfdomain.Submission{
		subm(day1, wa, prob(1, "A", 1000, "dp")),
		subm(day1+1, ok, prob(1, "A", 1000, "dp")),
		subm(day1+2, ok, prob(1, "A", 1000, "dp")),
		subm(day1+day, wa, prob(2, "B", 1100, "math")),
		subm(day1+day+1, ok, prob(2, "C", 1100, "math")),
		subm(day1+2*day, ok, prob(2, "B", 1100, "math")),
	}

	prev := 0
	for i := 1; i <= len(subs); i++ {
		st, err := stats.Aggregate(subs[:i])
		require.NoError(t, err)
		assert.Equal(t, len(st.SolvedProblemIDs), st.SolvedCount)
		assert.GreaterOrEqual(t, st.SolvedCount, prev)
		prev = st.SolvedCount

		for date, d := range st.DailyActivity {
			assert.GreaterOrEqual(t, d.Attempts, d.Solved, date)
		}
	}
	assert.Equal(t, 3, prev)
}

func TestAggregateStreak(t *testing.T) {
	a := prob(1, "A", 1000, "dp")
	b := prob(1, "B", 1100, "dp")
	c := prob(1, "C", 1200, "dp")

	tests := []struct {
		name string
		subs []cfdomain.Submission
		want int
	}{
		{
			name: "three consecutive days",
			subs: []cfdomain.Submission{
				subm(day1, ok, a), subm(day1+day, ok, b), subm(day1+2*day, ok, c),
			},
			want: 3,
		},
		{
			name: "gap days still extend the run",
			subs: []cfdomain.Submission{
				subm(day1, ok, a), subm(day1+5*day, ok, b),
			},
			want: 2,
		},
		{
			name: "same day accepts count once",
			subs: []cfdomain.Submission{
				subm(day1, ok, a), subm(day1+1, ok, b), subm(day1+2, ok, c),
			},
			want: 1,
		},
		{
			name: "rejection resets even when the day continues",
			subs: []cfdomain.Submission{
				subm(day1, ok, a), subm(day1+1, wa, b), subm(day1+2, ok, b),
				subm(day1+day, ok, c),
			},
			want: 1,
		},
		{
			name: "resubmission of solved problem extends the run",
			subs: []cfdomain.Submission{
				subm(day1, ok, a), subm(day1+day, ok, a), subm(day1+2*day, ok, a),
			},
			want: 3,
		},
		{
			name: "only rejections",
			subs: []cfdomain.Submission{
				subm(day1, wa, a), subm(day1+day, wa, b),
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := stats.Aggregate(tt.subs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, st.MaxStreak)
		})
	}
}

func TestAggregateTagOrderIsFirstSolveOrder(t *testing.T) {
	subs := []cfdomain.Submission{
		subm(day1, wa, prob(9, "A", 800, "brute force")),
		subm(day1+1, ok, prob(1, "A", 800, "math", "greedy")),
		subm(day1+2, ok, prob(2, "A", 900, "implementation", "math")),
		subm(day1+3, ok, prob(9, "A", 800, "brute force")),
	}

	st, err := stats.Aggregate(subs)
	require.NoError(t, err)

	assert.Equal(t, []string{"math", "greedy", "implementation", "brute force"}, st.ByTag.Keys())
	assert.Equal(t, []int{800, 900}, st.ByRating.Keys())
	assert.Equal(t, []stats.Entry[string]{
		{Key: "math", Count: 2},
		{Key: "greedy", Count: 1},
		{Key: "implementation", Count: 1},
		{Key: "brute force", Count: 1},
	}, st.ByTag.Entries())
}

func sumCounts[K comparable](m map[K]int) int {
	total := 0
	for _, v := range m {
		total += v
	}
	return total
}
