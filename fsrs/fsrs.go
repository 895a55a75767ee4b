// Package fsrs implements the FSRS-4.5 spaced repetition scheduler.
package fsrs

import (
	"math"
	"time"
)

// Grade is the recall rating given to a card during review.
type Grade int

const (
	GradeAgain Grade = iota + 1
	GradeHard
	GradeGood
	GradeEasy
)

const (
	decay  = -0.5
	factor = 19.0 / 81.0

	minDifficulty = 1.0
	maxDifficulty = 10.0
)

// defaultWeights are the published FSRS-4.5 default parameters.
var defaultWeights = [17]float64{
	0.4872, 1.4003, 3.7145, 13.8206,
	5.1618, 1.2298, 0.8975, 0.031,
	1.6474, 0.1367, 1.0461, 2.1072,
	0.0793, 0.3246, 1.587, 0.2272, 2.8755,
}

// Params configures the scheduler.
type Params struct {
	Weights             [17]float64
	DesiredRetention    float64
	MaximumIntervalDays int
}

// DefaultParams returns the stock FSRS-4.5 parameter set with a desired
// retention of 90% and a 100 year interval ceiling.
func DefaultParams() Params {
	return Params{
		Weights:             defaultWeights,
		DesiredRetention:    0.9,
		MaximumIntervalDays: 36500,
	}
}

// ReviewState is the persisted scheduling state of a card that has been
// reviewed at least once.
type ReviewState struct {
	LastReviewedAt time.Time
	Stability      float64
	Difficulty     float64
	IntervalRaw    float64
	IntervalDays   int
	DueDate        time.Time
	ReviewCount    int
}

// Retrievability is the predicted probability of recalling a card
// elapsedDays after its last review, given its stability.
func Retrievability(elapsedDays, stability float64) float64 {
	if stability <= 0 {
		return 0
	}
	return math.Pow(1.0+factor*elapsedDays/stability, decay)
}

// Update advances a card's scheduling state after a review. A nil prev
// marks the card's first review.
func (p Params) Update(prev *ReviewState, grade Grade, now time.Time) ReviewState {
	var stability, difficulty float64
	reviewCount := 1

	if prev == nil {
		stability = p.initialStability(grade)
		difficulty = p.initialDifficulty(grade)
	} else {
		elapsed := now.Sub(prev.LastReviewedAt).Seconds() / 86400.0
		if elapsed < 0 {
			elapsed = 0
		}
		recall := Retrievability(elapsed, prev.Stability)
		difficulty = p.nextDifficulty(prev.Difficulty, grade)
		if grade == GradeAgain {
			stability = p.stabilityAfterLapse(prev.Difficulty, prev.Stability, recall)
		} else {
			stability = p.stabilityAfterRecall(prev.Difficulty, prev.Stability, recall, grade)
		}
		reviewCount = prev.ReviewCount + 1
	}

	raw, days := p.nextInterval(stability)
	return ReviewState{
		LastReviewedAt: now,
		Stability:      stability,
		Difficulty:     difficulty,
		IntervalRaw:    raw,
		IntervalDays:   days,
		DueDate:        now.AddDate(0, 0, days),
		ReviewCount:    reviewCount,
	}
}

func (p Params) initialStability(grade Grade) float64 {
	s := p.Weights[int(grade)-1]
	return math.Max(s, 0.1)
}

func (p Params) initialDifficulty(grade Grade) float64 {
	d := p.Weights[4] - float64(int(grade)-3)*p.Weights[5]
	return clampDifficulty(d)
}

// nextDifficulty applies the grade delta followed by mean reversion
// towards the initial Good difficulty.
func (p Params) nextDifficulty(difficulty float64, grade Grade) float64 {
	next := difficulty - p.Weights[6]*float64(int(grade)-3)
	reverted := p.Weights[7]*p.initialDifficulty(GradeGood) + (1-p.Weights[7])*next
	return clampDifficulty(reverted)
}

func (p Params) stabilityAfterRecall(difficulty, stability, recall float64, grade Grade) float64 {
	hardPenalty := 1.0
	if grade == GradeHard {
		hardPenalty = p.Weights[15]
	}
	easyBonus := 1.0
	if grade == GradeEasy {
		easyBonus = p.Weights[16]
	}
	growth := math.Exp(p.Weights[8]) *
		(11.0 - difficulty) *
		math.Pow(stability, -p.Weights[9]) *
		(math.Exp(p.Weights[10]*(1.0-recall)) - 1.0) *
		hardPenalty * easyBonus
	return stability * (growth + 1.0)
}

func (p Params) stabilityAfterLapse(difficulty, stability, recall float64) float64 {
	next := p.Weights[11] *
		math.Pow(difficulty, -p.Weights[12]) *
		(math.Pow(stability+1.0, p.Weights[13]) - 1.0) *
		math.Exp(p.Weights[14]*(1.0-recall))
	// A lapse never increases stability.
	return math.Min(next, stability)
}

func (p Params) nextInterval(stability float64) (float64, int) {
	raw := stability / factor * (math.Pow(p.DesiredRetention, 1.0/decay) - 1.0)
	days := int(math.Round(raw))
	if days < 1 {
		days = 1
	}
	if days > p.MaximumIntervalDays {
		days = p.MaximumIntervalDays
	}
	return raw, days
}

func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, minDifficulty), maxDifficulty)
}
