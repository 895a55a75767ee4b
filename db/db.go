package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pbun206/repeater/fsrs"
	"github.com/pbun206/repeater/models"
)

// Timestamps are stored as RFC 3339 UTC strings so that lexical order
// matches temporal order in SQL comparisons.
const timeFormat = time.RFC3339

// DefaultPath returns the database location under the user config
// directory, creating the parent directory when missing.
func DefaultPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine user config directory: %w", err)
	}

	dataDir := filepath.Join(configDir, "repeater")
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}

	return filepath.Join(dataDir, "cards.db"), nil
}

// InitDB opens the card database, creating the schema when missing.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS cards (
			card_hash TEXT PRIMARY KEY NOT NULL,
			added_at TEXT NOT NULL,
			last_reviewed_at TEXT,
			stability REAL,
			difficulty REAL,
			interval_raw REAL,
			interval_days INTEGER NOT NULL DEFAULT 0,
			due_date TEXT,
			review_count INTEGER NOT NULL DEFAULT 0
		);
	`)
	if err != nil {
		return nil, fmt.Errorf("error creating cards table: %w", err)
	}

	return db, nil
}

// AddCard registers a card hash. Already-known cards are left untouched.
func AddCard(db *sql.DB, hash string) error {
	now := time.Now().UTC().Format(timeFormat)

	_, err := db.Exec(
		"INSERT OR IGNORE INTO cards (card_hash, added_at) VALUES (?, ?)",
		hash, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert card: %w", err)
	}

	return nil
}

// AddCardsBatch registers many card hashes inside one transaction.
func AddCardsBatch(db *sql.DB, hashes []string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC().Format(timeFormat)

	stmt, err := tx.Prepare("INSERT OR IGNORE INTO cards (card_hash, added_at) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, hash := range hashes {
		if _, err = stmt.Exec(hash, now); err != nil {
			return fmt.Errorf("failed to insert card %s: %w", hash, err)
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// CardExists reports whether a card hash is registered.
func CardExists(db *sql.DB, hash string) (bool, error) {
	var count int64
	err := db.QueryRow("SELECT COUNT(1) FROM cards WHERE card_hash = ?", hash).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to count card: %w", err)
	}

	return count > 0, nil
}

// GetCardPerformance loads a card's scheduling state. A nil state with no
// error means the card has never been reviewed. sql.ErrNoRows propagates
// for unregistered cards.
func GetCardPerformance(db *sql.DB, hash string) (*fsrs.ReviewState, error) {
	query := `
		SELECT last_reviewed_at, stability, difficulty, interval_raw, interval_days, due_date, review_count
		FROM cards
		WHERE card_hash = ?
	`

	var (
		lastReviewedAt sql.NullString
		stability      sql.NullFloat64
		difficulty     sql.NullFloat64
		intervalRaw    sql.NullFloat64
		intervalDays   int
		dueDate        sql.NullString
		reviewCount    int
	)
	err := db.QueryRow(query, hash).Scan(
		&lastReviewedAt, &stability, &difficulty, &intervalRaw, &intervalDays, &dueDate, &reviewCount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get performance for card %s: %w", hash, err)
	}

	if reviewCount == 0 {
		return nil, nil
	}

	lastReviewed, err := parseTime(lastReviewedAt.String)
	if err != nil {
		return nil, fmt.Errorf("invalid last_reviewed_at for card %s: %w", hash, err)
	}
	due, err := parseTime(dueDate.String)
	if err != nil {
		return nil, fmt.Errorf("invalid due_date for card %s: %w", hash, err)
	}

	return &fsrs.ReviewState{
		LastReviewedAt: lastReviewed,
		Stability:      stability.Float64,
		Difficulty:     difficulty.Float64,
		IntervalRaw:    intervalRaw.Float64,
		IntervalDays:   intervalDays,
		DueDate:        due,
		ReviewCount:    reviewCount,
	}, nil
}

// UpdateCardPerformance persists a card's scheduling state after a review.
// Returns false when the card hash is not registered.
func UpdateCardPerformance(db *sql.DB, hash string, state fsrs.ReviewState) (bool, error) {
	query := `
		UPDATE cards
		SET
			last_reviewed_at = ?,
			stability = ?,
			difficulty = ?,
			interval_raw = ?,
			interval_days = ?,
			due_date = ?,
			review_count = ?
		WHERE card_hash = ?
	`

	result, err := db.Exec(query,
		state.LastReviewedAt.UTC().Format(timeFormat),
		state.Stability,
		state.Difficulty,
		state.IntervalRaw,
		state.IntervalDays,
		state.DueDate.UTC().Format(timeFormat),
		state.ReviewCount,
		hash,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update performance for card %s: %w", hash, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected > 0, nil
}

// DueCard is a registered card that is due for review.
type DueCard struct {
	Hash        string
	ReviewCount int
}

// DueCards lists cards with no due date or a due date at or before now,
// oldest registration first.
func DueCards(db *sql.DB, now time.Time) ([]DueCard, error) {
	query := `
		SELECT card_hash, review_count
		FROM cards
		WHERE due_date IS NULL OR due_date <= ?
		ORDER BY added_at ASC, card_hash ASC
	`

	rows, err := db.Query(query, now.UTC().Format(timeFormat))
	if err != nil {
		return nil, fmt.Errorf("failed to query due cards: %w", err)
	}
	defer rows.Close()

	var due []DueCard
	for rows.Next() {
		var d DueCard
		if err := rows.Scan(&d.Hash, &d.ReviewCount); err != nil {
			return nil, fmt.Errorf("failed to scan due card row: %w", err)
		}
		due = append(due, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during due card iteration: %w", err)
	}

	return due, nil
}

// CardStatsRows loads every card row for detailed statistics.
func CardStatsRows(db *sql.DB) ([]models.CardStatsRow, error) {
	query := `
		SELECT card_hash, added_at, last_reviewed_at, stability, difficulty, interval_raw, interval_days, due_date, review_count
		FROM cards
	`

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query card rows: %w", err)
	}
	defer rows.Close()

	var result []models.CardStatsRow
	for rows.Next() {
		var (
			row            models.CardStatsRow
			addedAt        string
			lastReviewedAt sql.NullString
			stability      sql.NullFloat64
			difficulty     sql.NullFloat64
			intervalRaw    sql.NullFloat64
			dueDate        sql.NullString
		)
		err := rows.Scan(
			&row.Hash, &addedAt, &lastReviewedAt, &stability, &difficulty,
			&intervalRaw, &row.IntervalDays, &dueDate, &row.ReviewCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}

		row.AddedAt, err = parseTime(addedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid added_at for card %s: %w", row.Hash, err)
		}
		row.LastReviewedAt, err = parseNullTime(lastReviewedAt)
		if err != nil {
			return nil, fmt.Errorf("invalid last_reviewed_at for card %s: %w", row.Hash, err)
		}
		row.DueDate, err = parseNullTime(dueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid due_date for card %s: %w", row.Hash, err)
		}
		row.Stability = nullFloat(stability)
		row.Difficulty = nullFloat(difficulty)
		row.IntervalRaw = nullFloat(intervalRaw)

		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during card row iteration: %w", err)
	}

	return result, nil
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(timeFormat, value)
}

func parseNullTime(value sql.NullString) (*time.Time, error) {
	if !value.Valid {
		return nil, nil
	}
	parsed, err := parseTime(value.String)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func nullFloat(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	v := value.Float64
	return &v
}
