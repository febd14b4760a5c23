package recommend

import (
	"fmt"
	"sort"
	"strings"

	"github.com/programme-lv/cfcoach/cfdomain"
	"github.com/programme-lv/cfcoach/stats"
	"github.com/thoas/go-funk"
)

const (
	weakTagCount  = 3
	ratingFloor   = 800
	ratingStep    = 100
	maxRatingDiff = 200
	maxResults    = 5
)

const DefaultProblemURL = "https://codeforces.com/problemset/problem/"

type RecommendedProblem struct {
	ContestID int
	Index     string
	Name      string
	Rating    int
	Tags      []string
	Link      string
}

// Recommend picks at most five unsolved catalog problems that carry one of
// the user's three least solved tags and are rated within 200 of the target
// rating. Closer ratings rank first; equal distances keep catalog order.
// With no solved tags there are no weak tags and therefore no results.
func Recommend(st *stats.UserStats, catalog []cfdomain.Problem) []RecommendedProblem {
	return recommend(st, catalog, DefaultProblemURL)
}

func recommend(st *stats.UserStats, catalog []cfdomain.Problem, linkBase string) []RecommendedProblem {
	weak := WeakTags(st.ByTag)
	if len(weak) == 0 {
		return []RecommendedProblem{}
	}
	target := TargetRating(st.ByRating)

	type candidate struct {
		problem cfdomain.Problem
		diff    int
	}
	candidates := make([]candidate, 0)
	for _, p := range catalog {
		if !p.Rated() || st.HasSolved(p.ID()) {
			continue
		}
		if !hasAnyTag(p, weak) {
			continue
		}
		diff := abs(p.Rating - target)
		if diff > maxRatingDiff {
			continue
		}
		candidates = append(candidates, candidate{problem: p, diff: diff})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].diff < candidates[j].diff
	})

	n := min(len(candidates), maxResults)
	res := make([]RecommendedProblem, 0, n)
	for _, c := range candidates[:n] {
		res = append(res, RecommendedProblem{
			ContestID: c.problem.ContestID,
			Index:     c.problem.Index,
			Name:      c.problem.Name,
			Rating:    c.problem.Rating,
			Tags:      append([]string(nil), c.problem.Tags...),
			Link:      ProblemLink(linkBase, c.problem.ID()),
		})
	}
	return res
}

// WeakTags returns up to three tags with the lowest solve counts. Ties keep
// the order in which the tags were first solved.
func WeakTags(byTag *stats.Counter[string]) []string {
	entries := byTag.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count < entries[j].Count
	})

	n := min(len(entries), weakTagCount)
	tags := make([]string, 0, n)
	for _, e := range entries[:n] {
		tags = append(tags, e.Key)
	}
	return tags
}

// TargetRating is one step above the hardest rated solve, or the lowest
// rating tier when nothing rated has been solved.
func TargetRating(byRating *stats.Counter[int]) int {
	if byRating.Len() == 0 {
		return ratingFloor
	}
	highest := 0
	for _, r := range byRating.Keys() {
		highest = max(highest, r)
	}
	return highest + ratingStep
}

// ProblemLink builds the problem page URL, e.g. ".../problem/1850/B1".
func ProblemLink(base string, id cfdomain.ProblemID) string {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return fmt.Sprintf("%s%d/%s", base, id.ContestID, id.Index)
}

func hasAnyTag(p cfdomain.Problem, tags []string) bool {
	for _, t := range p.Tags {
		if funk.ContainsString(tags, t) {
			return true
		}
	}
	return false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
