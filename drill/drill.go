// Package drill runs interactive review sessions over the cards due today.
package drill

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/pbun206/repeater/card"
	"github.com/pbun206/repeater/db"
	"github.com/pbun206/repeater/fsrs"
	"github.com/pbun206/repeater/models"
)

// RegisterAllCards loads the markdown collection under paths and registers
// every unique card, returning the collection keyed by hash.
func RegisterAllCards(dbConn *sql.DB, paths []string) (map[string]models.Card, error) {
	collection, err := card.LoadCollection(paths)
	if err != nil {
		return nil, fmt.Errorf("error loading collection: %w", err)
	}

	hashes := make([]string, 0, len(collection))
	for hash := range collection {
		hashes = append(hashes, hash)
	}

	if err := db.AddCardsBatch(dbConn, hashes); err != nil {
		return nil, fmt.Errorf("error registering cards: %w", err)
	}

	return collection, nil
}

// SelectDue picks the session cards from the due rows in database order.
// Due rows whose card is no longer present in the collection are skipped.
// A positive newCardLimit bounds unseen cards; a positive cardLimit bounds
// the whole session.
func SelectDue(due []db.DueCard, collection map[string]models.Card, cardLimit, newCardLimit int) []models.Card {
	var selected []models.Card
	newCount := 0

	for _, d := range due {
		c, ok := collection[d.Hash]
		if !ok {
			continue
		}

		if d.ReviewCount == 0 {
			if newCardLimit > 0 && newCount >= newCardLimit {
				continue
			}
			newCount++
		}

		selected = append(selected, c)
		if cardLimit > 0 && len(selected) >= cardLimit {
			break
		}
	}

	return selected
}

// Review grades a single card: it loads the stored scheduling state,
// advances it with the scheduler and persists the result.
func Review(dbConn *sql.DB, params fsrs.Params, c models.Card, grade fsrs.Grade, now time.Time) (fsrs.ReviewState, error) {
	prev, err := db.GetCardPerformance(dbConn, c.Hash)
	if err != nil {
		return fsrs.ReviewState{}, fmt.Errorf("error loading performance for card %s: %w", c.Hash, err)
	}

	state := params.Update(prev, grade, now)

	updated, err := db.UpdateCardPerformance(dbConn, c.Hash, state)
	if err != nil {
		return fsrs.ReviewState{}, fmt.Errorf("error saving performance for card %s: %w", c.Hash, err)
	}
	if !updated {
		return fsrs.ReviewState{}, fmt.Errorf("card %s is not registered", c.Hash)
	}

	return state, nil
}

// Run registers the collection, selects the cards due today and drives the
// interactive review session.
func Run(dbConn *sql.DB, paths []string, params fsrs.Params, cardLimit, newCardLimit int) error {
	collection, err := RegisterAllCards(dbConn, paths)
	if err != nil {
		return err
	}

	due, err := db.DueCards(dbConn, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("error querying due cards: %w", err)
	}

	session := SelectDue(due, collection, cardLimit, newCardLimit)
	if len(session) == 0 {
		fmt.Println("No cards due today.")
		return nil
	}

	log.Printf("Drilling %d of %d due cards", len(session), len(due))

	reviewed, err := RunSession(session, func(c models.Card, grade fsrs.Grade) (fsrs.ReviewState, error) {
		return Review(dbConn, params, c, grade, time.Now().UTC())
	})
	if err != nil {
		return fmt.Errorf("error running drill session: %w", err)
	}

	fmt.Printf("Session done: reviewed %d of %d cards\n", reviewed, len(session))
	return nil
}
