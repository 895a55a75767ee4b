// Package stats builds detailed collection reports from card rows.
package stats

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pbun206/repeater/fsrs"
	"github.com/pbun206/repeater/models"
)

// Lifecycle classifies a card by how established its memory is.
type Lifecycle int

const (
	LifecycleNew Lifecycle = iota
	LifecycleYoung
	LifecycleMature
)

// matureIntervalDays is the conventional threshold above which a card
// counts as mature.
const matureIntervalDays = 21.0

func (l Lifecycle) String() string {
	switch l {
	case LifecycleNew:
		return "new"
	case LifecycleYoung:
		return "young"
	case LifecycleMature:
		return "mature"
	default:
		return "unknown"
	}
}

// Histogram counts values in [0, 1] across a fixed number of equal bins.
type Histogram struct {
	Bins  [5]int
	count int
	sum   float64
}

// Update records a value, clamping it into [0, 1].
func (h *Histogram) Update(value float64) {
	v := value
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	idx := int(v * float64(len(h.Bins)))
	if idx >= len(h.Bins) {
		idx = len(h.Bins) - 1
	}
	h.Bins[idx]++
	h.count++
	h.sum += value
}

// Mean returns the average of recorded values, or 0 when empty.
func (h *Histogram) Mean() float64 {
	if h.count == 0 {
		return 0
	}
	return h.sum / float64(h.count)
}

// Count returns how many values were recorded.
func (h *Histogram) Count() int {
	return h.count
}

// Report aggregates per-card scheduling state for a loaded collection.
type Report struct {
	TotalCardsInDB int
	CollectionSize int
	Lifecycles     map[Lifecycle]int
	DueCards       int
	UpcomingWeek   map[string]int
	UpcomingMonth  int
	FileCounts     map[string]int

	// Difficulty is normalized to [0, 1] by dividing by 10.
	Difficulty     Histogram
	Retrievability Histogram
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{
		Lifecycles:   make(map[Lifecycle]int),
		UpcomingWeek: make(map[string]int),
		FileCounts:   make(map[string]int),
	}
}

// Update folds one card's database row into the report.
func (r *Report) Update(card models.Card, row models.CardStatsRow, now time.Time) {
	r.CollectionSize++
	r.FileCounts[card.FilePath]++

	interval := 0.0
	if row.IntervalRaw != nil {
		interval = *row.IntervalRaw
	}
	difficulty := 0.0
	if row.Difficulty != nil {
		difficulty = *row.Difficulty
	}
	stability := 0.0
	if row.Stability != nil {
		stability = *row.Stability
	}

	lifecycle := LifecycleYoung
	switch {
	case row.ReviewCount == 0:
		lifecycle = LifecycleNew
	case interval > matureIntervalDays:
		lifecycle = LifecycleMature
	}
	r.Lifecycles[lifecycle]++

	weekHorizon := now.AddDate(0, 0, 7)
	monthHorizon := now.AddDate(0, 0, 30)

	switch {
	case row.DueDate == nil, !row.DueDate.After(now):
		r.DueCards++
	default:
		if !row.DueDate.After(weekHorizon) {
			r.UpcomingWeek[row.DueDate.Format("2006-01-02")]++
		}
		if !row.DueDate.After(monthHorizon) {
			r.UpcomingMonth++
		}
	}

	r.Difficulty.Update(difficulty / 10.0)

	if row.LastReviewedAt == nil {
		return
	}
	elapsedDays := now.Sub(*row.LastReviewedAt).Seconds() / 86400.0
	if elapsedDays < 0 {
		elapsedDays = 0
	}
	r.Retrievability.Update(fsrs.Retrievability(elapsedDays, stability))
}

// Build assembles a report for the cards of a loaded collection, matching
// rows against the collection by hash. Database rows for cards no longer in
// the collection only contribute to TotalCardsInDB.
func Build(collection map[string]models.Card, rows []models.CardStatsRow, now time.Time) *Report {
	report := NewReport()
	report.TotalCardsInDB = len(rows)

	for _, row := range rows {
		c, ok := collection[row.Hash]
		if !ok {
			continue
		}
		report.Update(c, row, now)
	}

	return report
}

// Render writes a human-readable report.
func (r *Report) Render(w io.Writer) {
	fmt.Fprintf(w, "Collection: %d cards (%d in database)\n", r.CollectionSize, r.TotalCardsInDB)
	fmt.Fprintf(w, "Lifecycle: new %d / young %d / mature %d\n",
		r.Lifecycles[LifecycleNew], r.Lifecycles[LifecycleYoung], r.Lifecycles[LifecycleMature])
	fmt.Fprintf(w, "Due now: %d\n", r.DueCards)

	if len(r.UpcomingWeek) > 0 {
		days := make([]string, 0, len(r.UpcomingWeek))
		total := 0
		for day, count := range r.UpcomingWeek {
			days = append(days, day)
			total += count
		}
		sort.Strings(days)
		fmt.Fprintf(w, "Due in next 7 days: %d\n", total)
		for _, day := range days {
			fmt.Fprintf(w, "  %s: %d\n", day, r.UpcomingWeek[day])
		}
	}
	fmt.Fprintf(w, "Due in next 30 days: %d\n", r.UpcomingMonth)

	if len(r.FileCounts) > 0 {
		files := make([]string, 0, len(r.FileCounts))
		for path := range r.FileCounts {
			files = append(files, path)
		}
		sort.Strings(files)
		fmt.Fprintln(w, "Files:")
		for _, path := range files {
			fmt.Fprintf(w, "  %s: %d\n", path, r.FileCounts[path])
		}
	}

	if r.Difficulty.Count() > 0 {
		fmt.Fprintf(w, "Difficulty (mean %.2f): %s\n", r.Difficulty.Mean()*10, renderBins(r.Difficulty.Bins))
	}
	if r.Retrievability.Count() > 0 {
		fmt.Fprintf(w, "Retrievability (mean %.0f%%): %s\n", r.Retrievability.Mean()*100, renderBins(r.Retrievability.Bins))
	}
}

func renderBins(bins [5]int) string {
	parts := make([]string, len(bins))
	for i, count := range bins {
		parts[i] = fmt.Sprintf("%d", count)
	}
	return "[" + strings.Join(parts, " | ") + "]"
}
