package models

import "time"

// Card is a single flashcard parsed from a markdown collection file.
// The hash is the card's identity: editing the text produces a new card.
type Card struct {
	Hash     string
	FilePath string
	Front    string
	Back     string
}

// CollectionStats holds aggregate scheduling counts for the whole database.
type CollectionStats struct {
	TotalCards    int64
	NewCards      int64
	ReviewedCards int64
	DueCards      int64
	OverdueCards  int64
	UpcomingWeek  []UpcomingCount
	UpcomingMonth int64
}

// UpcomingCount is the number of cards becoming due on a given day.
type UpcomingCount struct {
	Day   string
	Count int64
}

// CardStatsRow mirrors one row of the cards table. Nullable scheduling
// columns are nil until the card has been reviewed at least once.
type CardStatsRow struct {
	Hash           string
	AddedAt        time.Time
	LastReviewedAt *time.Time
	Stability      *float64
	Difficulty     *float64
	IntervalRaw    *float64
	IntervalDays   int
	DueDate        *time.Time
	ReviewCount    int
}
