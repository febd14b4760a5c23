package coachhttp

import (
	"sort"

	"github.com/programme-lv/cfcoach/coachsrvc"
	"github.com/programme-lv/cfcoach/recommend"
	"github.com/programme-lv/cfcoach/stats"
)

type UserStats struct {
	Handle          string        `json:"handle"`
	Solved          int           `json:"solved"`
	Unsolved        int           `json:"unsolved"`
	MaxStreak       int           `json:"max_streak"`
	ByTag           []TagCount    `json:"by_tag"`
	ByRating        []RatingCount `json:"by_rating"`
	Heatmap         []HeatmapDay  `json:"heatmap"`
	Recommendations []Recommended `json:"recommendations"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type RatingCount struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

type HeatmapDay struct {
	Date       string `json:"date"`
	Solved     int    `json:"solved"`
	Attempts   int    `json:"attempts"`
	DayOfWeek  int    `json:"day_of_week"`
	WeekOfYear int    `json:"week_of_year"`
}

type Recommended struct {
	ContestID int      `json:"contest_id"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Rating    int      `json:"rating"`
	Tags      []string `json:"tags"`
	Link      string   `json:"link"`
}

type ProblemInfo struct {
	ContestID int      `json:"contest_id"`
	Index     string   `json:"index"`
	Name      string   `json:"name"`
	Rating    int      `json:"rating,omitempty"`
	Tags      []string `json:"tags"`
	Link      string   `json:"link"`
}

func mapProblemDetails(p *coachsrvc.ProblemDetails) *ProblemInfo {
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}
	return &ProblemInfo{
		ContestID: p.ContestID,
		Index:     p.Index,
		Name:      p.Name,
		Rating:    p.Rating,
		Tags:      tags,
		Link:      p.Link,
	}
}

// mapUserReport drops the solved-problem set and the weak-tag set, which are
// only used internally for recommendations.
func mapUserReport(report *coachsrvc.UserReport) *UserStats {
	st := report.Stats
	return &UserStats{
		Handle:          report.Handle,
		Solved:          st.SolvedCount,
		Unsolved:        st.UnsolvedCount,
		MaxStreak:       st.MaxStreak,
		ByTag:           mapByTag(st.ByTag),
		ByRating:        mapByRating(st.ByRating),
		Heatmap:         mapCalendar(report.Calendar),
		Recommendations: mapRecommendations(report.Recommendations),
	}
}

// mapByTag lists tags by descending count, ties in first-solve order.
func mapByTag(byTag *stats.Counter[string]) []TagCount {
	res := make([]TagCount, 0, byTag.Len())
	for _, e := range byTag.Entries() {
		res = append(res, TagCount{Tag: e.Key, Count: e.Count})
	}
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Count > res[j].Count
	})
	return res
}

// mapByRating lists ratings in ascending order, ready for a bar chart.
func mapByRating(byRating *stats.Counter[int]) []RatingCount {
	res := make([]RatingCount, 0, byRating.Len())
	for _, e := range byRating.Entries() {
		res = append(res, RatingCount{Rating: e.Key, Count: e.Count})
	}
	sort.Slice(res, func(i, j int) bool {
		return res[i].Rating < res[j].Rating
	})
	return res
}

func mapCalendar(entries []stats.CalendarEntry) []HeatmapDay {
	res := make([]HeatmapDay, 0, len(entries))
	for _, e := range entries {
		res = append(res, HeatmapDay{
			Date:       e.Date,
			Solved:     e.Solved,
			Attempts:   e.Attempts,
			DayOfWeek:  e.DayOfWeek,
			WeekOfYear: e.WeekOfYear,
		})
	}
	return res
}

func mapRecommendations(recs []recommend.RecommendedProblem) []Recommended {
	res := make([]Recommended, 0, len(recs))
	for _, r := range recs {
		tags := r.Tags
		if tags == nil {
			tags = []string{}
		}
		res = append(res, Recommended{
			ContestID: r.ContestID,
			Index:     r.Index,
			Name:      r.Name,
			Rating:    r.Rating,
			Tags:      tags,
			Link:      r.Link,
		})
	}
	return res
}
