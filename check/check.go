// Package check registers every card in a collection and reports
// collection-level scheduling statistics.
package check

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/pbun206/repeater/db"
	"github.com/pbun206/repeater/drill"
	"github.com/pbun206/repeater/models"
)

// Run scans the given paths, registers every unique card and prints the
// collection statistics to out. Returns the number of unique cards found.
func Run(dbConn *sql.DB, paths []string, out io.Writer) (int, error) {
	collection, err := drill.RegisterAllCards(dbConn, paths)
	if err != nil {
		return 0, fmt.Errorf("error registering cards: %w", err)
	}

	log.Printf("Found %d unique cards and registered them to the DB", len(collection))

	stats, err := db.CollectionStats(dbConn, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("error computing collection stats: %w", err)
	}

	PrintStats(out, stats)
	return len(collection), nil
}

// PrintStats writes the aggregate counts in the compact one-screen format.
func PrintStats(w io.Writer, stats models.CollectionStats) {
	fmt.Fprintf(w, "Cards: total %d * new %d * reviewed %d\n",
		stats.TotalCards, stats.NewCards, stats.ReviewedCards)
	fmt.Fprintf(w, "Due now: %d (%d overdue)\n", stats.DueCards, stats.OverdueCards)

	if len(stats.UpcomingWeek) > 0 {
		var weekTotal int64
		for _, bucket := range stats.UpcomingWeek {
			weekTotal += bucket.Count
		}
		fmt.Fprintf(w, "Due in next 7 days: %d\n", weekTotal)
		for _, bucket := range stats.UpcomingWeek {
			fmt.Fprintf(w, "  %s: %d\n", bucket.Day, bucket.Count)
		}
	}
	fmt.Fprintf(w, "Due in next 30 days: %d\n", stats.UpcomingMonth)
}
