package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/pbun206/repeater/models"
)

// CollectionStats computes aggregate scheduling counts in SQL. Cards with a
// NULL due date count as due (they have never been reviewed).
func CollectionStats(db *sql.DB, now time.Time) (models.CollectionStats, error) {
	var stats models.CollectionStats

	nowStr := now.UTC().Format(timeFormat)
	weekHorizon := now.UTC().AddDate(0, 0, 7).Format(timeFormat)
	monthHorizon := now.UTC().AddDate(0, 0, 30).Format(timeFormat)

	err := db.QueryRow(`
		SELECT
			COUNT(*) AS total_cards,
			COALESCE(SUM(CASE WHEN review_count = 0 THEN 1 ELSE 0 END), 0) AS new_cards,
			COALESCE(SUM(CASE WHEN review_count > 0 THEN 1 ELSE 0 END), 0) AS reviewed_cards,
			COALESCE(SUM(CASE WHEN due_date IS NULL OR due_date <= ? THEN 1 ELSE 0 END), 0) AS due_cards,
			COALESCE(SUM(CASE WHEN due_date IS NOT NULL AND due_date < ? THEN 1 ELSE 0 END), 0) AS overdue_cards
		FROM cards
	`, nowStr, nowStr).Scan(
		&stats.TotalCards, &stats.NewCards, &stats.ReviewedCards, &stats.DueCards, &stats.OverdueCards,
	)
	if err != nil {
		return stats, fmt.Errorf("failed to query collection counts: %w", err)
	}

	err = db.QueryRow(`
		SELECT COALESCE(COUNT(1), 0)
		FROM cards
		WHERE due_date IS NOT NULL
		  AND due_date > ?
		  AND due_date <= ?
	`, nowStr, monthHorizon).Scan(&stats.UpcomingMonth)
	if err != nil {
		return stats, fmt.Errorf("failed to query upcoming month count: %w", err)
	}

	rows, err := db.Query(`
		SELECT
			strftime('%Y-%m-%d', due_date) AS due_day,
			COUNT(1) AS count
		FROM cards
		WHERE due_date IS NOT NULL
		  AND due_date > ?
		  AND due_date <= ?
		GROUP BY due_day
		ORDER BY due_day
	`, nowStr, weekHorizon)
	if err != nil {
		return stats, fmt.Errorf("failed to query upcoming week buckets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			day   sql.NullString
			count int64
		)
		if err := rows.Scan(&day, &count); err != nil {
			return stats, fmt.Errorf("failed to scan upcoming week row: %w", err)
		}
		if day.Valid {
			stats.UpcomingWeek = append(stats.UpcomingWeek, models.UpcomingCount{Day: day.String, Count: count})
		}
	}

	if err := rows.Err(); err != nil {
		return stats, fmt.Errorf("error during upcoming week iteration: %w", err)
	}

	return stats, nil
}
