package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/programme-lv/cfcoach/coachsrvc"
	"github.com/programme-lv/cfcoach/stats"
)

const (
	topTagCount    = 8
	recentDayCount = 14
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3498db"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f8c8d"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#2ecc71"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#e74c3c"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func renderReport(r *coachsrvc.UserReport) string {
	st := r.Stats

	summary := fmt.Sprintf("%s\n%s %d   %s %d   %s %d",
		titleStyle.Render(r.Handle),
		labelStyle.Render("solved"), st.SolvedCount,
		labelStyle.Render("unsolved"), st.UnsolvedCount,
		labelStyle.Render("best streak"), st.MaxStreak,
	)

	sections := []string{
		boxStyle.Render(summary),
		lipgloss.JoinHorizontal(lipgloss.Top,
			boxStyle.Render(renderTopTags(st.ByTag)),
			boxStyle.Render(renderRecentDays(r.Calendar)),
		),
		boxStyle.Render(renderRecommendations(r)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func renderTopTags(byTag *stats.Counter[string]) string {
	entries := byTag.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if len(entries) > topTagCount {
		entries = entries[:topTagCount]
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("tag", "solved")
	for _, e := range entries {
		t.Row(e.Key, fmt.Sprint(e.Count))
	}
	return titleStyle.Render("Top tags") + "\n" + t.String()
}

func renderRecentDays(calendar []stats.CalendarEntry) string {
	days := calendar
	if len(days) > recentDayCount {
		days = days[len(days)-recentDayCount:]
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Recent activity"))
	if len(days) == 0 {
		sb.WriteString("\n" + labelStyle.Render("no submissions yet"))
	}
	for _, d := range days {
		fmt.Fprintf(&sb, "\n%s %s%s %d/%d",
			labelStyle.Render(d.Date),
			barStyle.Render(strings.Repeat("■", d.Solved)),
			strings.Repeat("□", d.Attempts-d.Solved),
			d.Solved, d.Attempts,
		)
	}
	return sb.String()
}

func renderRecommendations(r *coachsrvc.UserReport) string {
	title := titleStyle.Render("Practice next")
	if len(r.Recommendations) == 0 {
		return title + "\n" + labelStyle.Render("nothing to recommend right now")
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("problem", "rating", "tags", "link")
	for _, p := range r.Recommendations {
		t.Row(
			fmt.Sprintf("%d%s %s", p.ContestID, p.Index, p.Name),
			fmt.Sprint(p.Rating),
			strings.Join(p.Tags, ", "),
			p.Link,
		)
	}
	return title + "\n" + t.String()
}
