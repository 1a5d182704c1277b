// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/wordcram/internal/model"
)

const sparkChars = " .:-=+*#%@"

// Bucket counts stored words whose proficiency falls in [Min, Max].
type Bucket struct {
	Label string
	Min   int
	Max   int
	Count int
}

var bucketBounds = []Bucket{
	{Label: "below 0", Min: math.MinInt, Max: -1},
	{Label: "0-24", Min: 0, Max: 24},
	{Label: "25-49", Min: 25, Max: 49},
	{Label: "50-99", Min: 50, Max: model.FinishedProficiency - 1},
	{Label: "finished", Min: model.FinishedProficiency, Max: math.MaxInt},
}

// ProficiencyBuckets groups words into fixed proficiency ranges.
func ProficiencyBuckets(entries map[string]model.Word) []Bucket {
	buckets := make([]Bucket, len(bucketBounds))
	copy(buckets, bucketBounds)
	for _, word := range entries {
		for i := range buckets {
			if word.Proficiency >= buckets[i].Min && word.Proficiency <= buckets[i].Max {
				buckets[i].Count++
				break
			}
		}
	}
	return buckets
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := bounds(values)
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[clamp(idx, 0, len(sparkChars)-1)])
	}
	return b.String()
}

// SessionSeries returns per-session review counts and rounds.
func SessionSeries(sessions []model.SessionAggregate) (reviews, rounds []float64) {
	reviews = make([]float64, len(sessions))
	rounds = make([]float64, len(sessions))
	for i, s := range sessions {
		reviews[i] = float64(s.Reviews)
		rounds[i] = float64(s.Rounds)
	}
	return reviews, rounds
}

// RenderSummary prints progress counters, proficiency buckets and, when
// history is available, session totals.
func RenderSummary(w io.Writer, r Report) error {
	lines := []string{
		"Summary",
		fmt.Sprintf("Words: %d", r.WordsCount),
		fmt.Sprintf("Finished: %d (%s)", r.FinishedCount, percent(r.FinishedCount, r.WordsCount)),
		fmt.Sprintf("Weak: %d", r.WeakCount),
	}
	for _, b := range r.Buckets {
		lines = append(lines, fmt.Sprintf("  %-9s %d", b.Label, b.Count))
	}
	if r.History {
		reviews, _ := SessionSeries(r.Sessions)
		lines = append(lines,
			fmt.Sprintf("Sessions: %d", len(r.Sessions)),
			fmt.Sprintf("Reviews: %d", r.TotalReviews()),
		)
		if len(reviews) > 1 {
			lines = append(lines, "Trend: "+Sparkline(reviews))
		}
	}
	lines = append(lines, "")
	return writeLines(w, lines)
}

// RenderCurves plots review counts and rounds per session.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window, totalWidth, height int, useColor bool) error {
	if len(sessions) == 0 {
		return nil
	}
	reviews, rounds := SessionSeries(sessions)
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeries(w, "Sessions", []Series{
		{Name: "Reviews", Values: MovingAverage(reviews, window)},
		{Name: "Rounds", Values: MovingAverage(rounds, window)},
	}, width, height, useColor)
}

// RenderWordTable prints stored words with their proficiency.
func RenderWordTable(w io.Writer, title string, rows []WordRow) error {
	if len(rows) == 0 {
		return writeLines(w, []string{"No words found.", ""})
	}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, []string{
			r.Term,
			r.Translation,
			fmt.Sprintf("%d", r.Proficiency),
			r.LastLevel.Label(),
		})
	}
	lines := formatTable([]string{"Term", "Translation", "Proficiency", "Last Level"}, tableRows, map[int]bool{2: true})
	return writeLines(w, append(append([]string{title}, lines...), ""))
}

// RenderLevelTable prints how often each rating was chosen.
func RenderLevelTable(w io.Writer, counts []model.LevelCount) error {
	total := 0
	for _, c := range counts {
		total += c.Count
	}
	if total == 0 {
		return writeLines(w, []string{"No reviews recorded.", ""})
	}
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Level.String(), fmt.Sprintf("%d", c.Count), percent(c.Count, total)})
	}
	lines := formatTable([]string{"Rating", "Count", "Share"}, rows, map[int]bool{1: true, 2: true})
	return writeLines(w, append(append([]string{"Ratings"}, lines...), ""))
}

// RenderHardestTable prints the terms most often rated Repeat.
func RenderHardestTable(w io.Writer, terms []model.TermAggregate) error {
	if len(terms) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(terms))
	for _, t := range terms {
		rows = append(rows, []string{t.Term, fmt.Sprintf("%d", t.Repeats), fmt.Sprintf("%d", t.Reviews)})
	}
	lines := formatTable([]string{"Term", "Repeats", "Reviews"}, rows, map[int]bool{1: true, 2: true})
	return writeLines(w, append(append([]string{"Hardest Words"}, lines...), ""))
}

// RenderSessionTable prints one line per recorded session.
func RenderSessionTable(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		return writeLines(w, []string{"No sessions found.", ""})
	}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, SessionRow(s))
	}
	lines := formatTable(SessionHeaders, rows, map[int]bool{2: true, 3: true, 4: true})
	return writeLines(w, append(append([]string{"Sessions"}, lines...), ""))
}

// SessionHeaders are the column titles matching SessionRow.
var SessionHeaders = []string{"Started", "Source", "Duration", "Rounds", "Reviews"}

// SessionRow formats a session for tables.
func SessionRow(s model.SessionAggregate) []string {
	duration := "-"
	if !s.EndedAt.IsZero() {
		duration = s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
	}
	return []string{
		s.StartedAt.Local().Format("2006-01-02 15:04"),
		s.Source,
		duration,
		fmt.Sprintf("%d", s.Rounds),
		fmt.Sprintf("%d", s.Reviews),
	}
}

// RenderReport prints the whole report as plain text.
func RenderReport(w io.Writer, r Report, window, width int) error {
	if err := RenderSummary(w, r); err != nil {
		return err
	}
	if err := RenderWordTable(w, "Weakest Words", r.Lowest); err != nil {
		return err
	}
	if !r.History {
		return nil
	}
	if err := RenderLevelTable(w, r.Levels); err != nil {
		return err
	}
	if err := RenderHardestTable(w, r.Hardest); err != nil {
		return err
	}
	if err := RenderSessionTable(w, r.Sessions); err != nil {
		return err
	}
	return RenderCurves(w, r.Sessions, window, width, 0, false)
}

func percent(part, total int) string {
	if total <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(total)*100)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
