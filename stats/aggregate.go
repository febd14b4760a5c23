package stats

import (
	"fmt"
	"time"

	"github.com/programme-lv/cfcoach/cfdomain"
)

// UserStats is the result of folding a submission log. It must be treated
// as read-only once Aggregate returns it.
type UserStats struct {
	SolvedCount int
	// UnsolvedCount is the total number of submissions minus the number of
	// distinct solved problems. The two terms count different things; the
	// figure is kept as-is for compatibility with existing consumers.
	UnsolvedCount int

	ByTag    *Counter[string]
	ByRating *Counter[int]

	MaxStreak int

	// DailyActivity is keyed by UTC date, "2006-01-02".
	DailyActivity map[string]DayActivity

	// SolvedProblemIDs and WeakTags are internal to recommendation and are
	// not part of the public report.
	SolvedProblemIDs map[cfdomain.ProblemID]struct{}
	WeakTags         map[string]struct{}
}

type DayActivity struct {
	Date       string
	Solved     int
	Attempts   int
	DayOfWeek  int
	WeekOfYear int
}

func newUserStats() *UserStats {
	return &UserStats{
		ByTag:            NewCounter[string](),
		ByRating:         NewCounter[int](),
		DailyActivity:    make(map[string]DayActivity),
		SolvedProblemIDs: make(map[cfdomain.ProblemID]struct{}),
		WeakTags:         make(map[string]struct{}),
	}
}

func (s *UserStats) HasSolved(id cfdomain.ProblemID) bool {
	_, ok := s.SolvedProblemIDs[id]
	return ok
}

// Aggregate folds submissions, which must be in ascending creation time, into
// UserStats. Every record is validated before anything is counted; a single
// malformed record fails the whole call with a *cfdomain.FormatError.
//
// Only the first accepted submission of a problem counts towards the tag and
// rating histograms. Every submission counts as an attempt on its day.
//
// The streak is the longest run of distinct days with an accepted submission
// and no rejected submission in between. A rejected submission resets the run
// regardless of its date, so it does not measure calendar-consecutive days.
func Aggregate(subs []cfdomain.Submission) (*UserStats, error) {
	if err := cfdomain.ValidateSubmissions(subs); err != nil {
		return nil, fmt.Errorf("aggregate submissions: %w", err)
	}

	st := newUserStats()

	var lastDate string
	currStreak := 0

	for _, subm := range subs {
		id := subm.Problem.ID()
		date := subm.Date()

		day, ok := st.DailyActivity[date]
		if !ok {
			day = newDayActivity(subm)
		}
		day.Attempts++

		if subm.Verdict.Accepted() {
			if !st.HasSolved(id) {
				st.SolvedProblemIDs[id] = struct{}{}
				st.SolvedCount++
				for _, tag := range subm.Problem.Tags {
					st.ByTag.Inc(tag)
				}
				if subm.Problem.Rated() {
					st.ByRating.Inc(subm.Problem.Rating)
				}
				day.Solved++
			}

			if date != lastDate {
				currStreak++
				st.MaxStreak = max(st.MaxStreak, currStreak)
				lastDate = date
			}
		} else {
			currStreak = 0
			for _, tag := range subm.Problem.Tags {
				st.WeakTags[tag] = struct{}{}
			}
		}

		st.DailyActivity[date] = day
	}

	st.UnsolvedCount = len(subs) - st.SolvedCount

	return st, nil
}

func newDayActivity(subm cfdomain.Submission) DayActivity {
	y, m, d := subm.CreatedAt().Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return DayActivity{
		Date:       subm.Date(),
		DayOfWeek:  int(midnight.Weekday()),
		WeekOfYear: weekOfYear(midnight),
	}
}
