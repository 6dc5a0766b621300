// Package session owns the review cursor: a two-dimensional position over
// the (insight x judge-category) grid, plus the dataset identity it was
// opened against. The presentation layer only reads this state; every
// mutation goes through the transition methods here.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/metajudge/internal/core/review"
)

// ErrOutOfRange is returned by jump transitions for positions outside the
// grid. The cursor is never mutated on failure.
var ErrOutOfRange = errors.New("position out of range")

// State is the authoritative session cursor and identity.
//
// Insight and Judge are zero-based indexes bounded by TotalInsights and
// TotalJudges. External numbering (jump inputs, exports) is one-based.
type State struct {
	InsightsFile string
	WorkoutFile  string

	TotalInsights int
	TotalJudges   int

	Insight int
	Judge   int

	LastSaved time.Time
}

// New creates a fresh session state positioned at (0, 0).
func New(insightsFile, workoutFile string, totalInsights, totalJudges int) *State {
	return &State{
		InsightsFile:  insightsFile,
		WorkoutFile:   workoutFile,
		TotalInsights: totalInsights,
		TotalJudges:   totalJudges,
	}
}

// Unit returns the review-unit key for the current position.
func (s *State) Unit() review.UnitKey {
	return review.UnitKey{Insight: s.Insight, Judge: s.Judge}
}

// NextUnit advances to the next unit in row-major order (all judges of an
// insight, then the next insight), wrapping to (0, 0) after the last unit.
func (s *State) NextUnit() {
	if s.Judge < s.TotalJudges-1 {
		s.Judge++
		return
	}
	s.Judge = 0
	if s.Insight < s.TotalInsights-1 {
		s.Insight++
	} else {
		s.Insight = 0
	}
}

// PrevUnit steps back one unit, wrapping from (0, 0) to the last unit of
// the last insight.
func (s *State) PrevUnit() {
	if s.Judge > 0 {
		s.Judge--
		return
	}
	s.Judge = s.TotalJudges - 1
	if s.Insight > 0 {
		s.Insight--
	} else {
		s.Insight = s.TotalInsights - 1
	}
}

// NextInsight moves to the next insight's first judge, wrapping at the end.
func (s *State) NextInsight() {
	if s.Insight < s.TotalInsights-1 {
		s.Insight++
	} else {
		s.Insight = 0
	}
	s.Judge = 0
}

// PrevInsight moves to the previous insight's first judge, wrapping at the
// start.
func (s *State) PrevInsight() {
	if s.Insight > 0 {
		s.Insight--
	} else {
		s.Insight = s.TotalInsights - 1
	}
	s.Judge = 0
}

// NextJudge advances the judge cursor only, wrapping at the end.
func (s *State) NextJudge() {
	if s.Judge < s.TotalJudges-1 {
		s.Judge++
	} else {
		s.Judge = 0
	}
}

// PrevJudge steps the judge cursor back, wrapping at the start.
func (s *State) PrevJudge() {
	if s.Judge > 0 {
		s.Judge--
	} else {
		s.Judge = s.TotalJudges - 1
	}
}

// JumpToInsight moves to the one-based insight number n and resets the
// judge cursor. Out-of-range n fails without mutating the cursor.
func (s *State) JumpToInsight(n int) error {
	if n < 1 || n > s.TotalInsights {
		return fmt.Errorf("%w: insight %d not in 1..%d", ErrOutOfRange, n, s.TotalInsights)
	}
	s.Insight = n - 1
	s.Judge = 0
	return nil
}

// JumpToJudge moves to the one-based judge number n, keeping the insight
// cursor. Out-of-range n fails without mutating the cursor.
func (s *State) JumpToJudge(n int) error {
	if n < 1 || n > s.TotalJudges {
		return fmt.Errorf("%w: judge %d not in 1..%d", ErrOutOfRange, n, s.TotalJudges)
	}
	s.Judge = n - 1
	return nil
}
