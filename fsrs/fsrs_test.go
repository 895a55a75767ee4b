package fsrs

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetrievability(t *testing.T) {
	testCases := []struct {
		name        string
		elapsedDays float64
		stability   float64
		expected    float64
		delta       float64
	}{
		{name: "fresh review is certain", elapsedDays: 0, stability: 10, expected: 1.0, delta: 0.0001},
		{name: "at stability recall is 90%", elapsedDays: 10, stability: 10, expected: 0.9, delta: 0.0001},
		{name: "zero stability", elapsedDays: 1, stability: 0, expected: 0, delta: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Retrievability(tc.elapsedDays, tc.stability)
			assert.InDelta(t, tc.expected, got, tc.delta)
		})
	}
}

func TestRetrievabilityDecreasesOverTime(t *testing.T) {
	prev := 1.0
	for _, days := range []float64{1, 5, 20, 100} {
		r := Retrievability(days, 10)
		assert.Less(t, r, prev, "retrievability must decay, elapsed=%f", days)
		prev = r
	}
}

func TestFirstReview(t *testing.T) {
	params := DefaultParams()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name  string
		grade Grade
	}{
		{name: "again", grade: GradeAgain},
		{name: "hard", grade: GradeHard},
		{name: "good", grade: GradeGood},
		{name: "easy", grade: GradeEasy},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			state := params.Update(nil, tc.grade, now)

			assert.Equal(t, 1, state.ReviewCount)
			assert.Equal(t, now, state.LastReviewedAt)
			assert.Equal(t, params.Weights[int(tc.grade)-1], state.Stability)
			assert.GreaterOrEqual(t, state.Difficulty, 1.0)
			assert.LessOrEqual(t, state.Difficulty, 10.0)
			assert.GreaterOrEqual(t, state.IntervalDays, 1)
			assert.Equal(t, now.AddDate(0, 0, state.IntervalDays), state.DueDate)
		})
	}
}

func TestFirstIntervalGrowsWithGrade(t *testing.T) {
	params := DefaultParams()
	now := time.Now().UTC()

	again := params.Update(nil, GradeAgain, now)
	hard := params.Update(nil, GradeHard, now)
	good := params.Update(nil, GradeGood, now)
	easy := params.Update(nil, GradeEasy, now)

	assert.LessOrEqual(t, again.IntervalDays, hard.IntervalDays)
	assert.LessOrEqual(t, hard.IntervalDays, good.IntervalDays)
	assert.Less(t, good.IntervalDays, easy.IntervalDays)
}

func TestSuccessfulReviewIncreasesStability(t *testing.T) {
	params := DefaultParams()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := params.Update(nil, GradeGood, now)
	later := now.AddDate(0, 0, first.IntervalDays)
	second := params.Update(&first, GradeGood, later)

	assert.Greater(t, second.Stability, first.Stability)
	assert.Equal(t, 2, second.ReviewCount)
	assert.True(t, second.DueDate.After(later))
}

func TestLapseDoesNotIncreaseStability(t *testing.T) {
	params := DefaultParams()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	state := params.Update(nil, GradeEasy, now)
	for i := 0; i < 3; i++ {
		next := params.Update(&state, GradeGood, state.DueDate)
		state = next
	}

	lapsed := params.Update(&state, GradeAgain, state.DueDate)
	assert.LessOrEqual(t, lapsed.Stability, state.Stability)
	assert.Greater(t, lapsed.Difficulty, state.Difficulty)
}

func TestReviewBeforeLastReviewClampsElapsed(t *testing.T) {
	params := DefaultParams()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := params.Update(nil, GradeGood, now)
	// Clock skew: second review timestamped before the first.
	second := params.Update(&first, GradeGood, now.Add(-time.Hour))

	assert.False(t, math.IsNaN(second.Stability), "stability must not be NaN")
	assert.Greater(t, second.Stability, 0.0)
}

func TestMaximumIntervalClamp(t *testing.T) {
	params := DefaultParams()
	params.MaximumIntervalDays = 30

	state := params.Update(nil, GradeEasy, time.Now().UTC())
	for i := 0; i < 10; i++ {
		next := params.Update(&state, GradeEasy, state.DueDate)
		state = next
	}

	assert.LessOrEqual(t, state.IntervalDays, 30)
}

func TestHigherRetentionMeansShorterIntervals(t *testing.T) {
	strict := DefaultParams()
	strict.DesiredRetention = 0.95
	lax := DefaultParams()
	lax.DesiredRetention = 0.8
	now := time.Now().UTC()

	strictState := strict.Update(nil, GradeGood, now)
	laxState := lax.Update(nil, GradeGood, now)

	assert.Less(t, strictState.IntervalRaw, laxState.IntervalRaw)
}
