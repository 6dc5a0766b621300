// Package review defines the review-unit domain types and the in-memory
// store that holds a session's meta-assessments.
package review

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for review operations.
var (
	// ErrExplanationRequired is returned when a Minor/Major assessment is
	// submitted without an explanation.
	ErrExplanationRequired = errors.New("explanation required for minor/major issues")

	// ErrBadKey is returned when a composite key string from a save file
	// does not match the exact form produced by UnitKey.String.
	ErrBadKey = errors.New("malformed review key")
)

// IssueLevel is the reviewer's verdict for one review unit.
type IssueLevel string

// Assessment levels. LevelNone means no verdict has been chosen yet.
const (
	LevelNone  IssueLevel = ""
	LevelNo    IssueLevel = "No Issues"
	LevelMinor IssueLevel = "Minor Issues"
	LevelMajor IssueLevel = "Major Issues"
)

// Valid reports whether l is one of the known levels.
func (l IssueLevel) Valid() bool {
	switch l {
	case LevelNone, LevelNo, LevelMinor, LevelMajor:
		return true
	}
	return false
}

// RequiresExplanation reports whether an assessment at this level must
// carry a non-empty explanation.
func (l IssueLevel) RequiresExplanation() bool {
	return l == LevelMinor || l == LevelMajor
}

// UnitKey identifies one (insight, judge-category) review unit by its pair
// of zero-based dataset indexes.
type UnitKey struct {
	Insight int
	Judge   int
}

// String renders the composite key form used in save files: "(i, j)".
func (k UnitKey) String() string {
	return fmt.Sprintf("(%d, %d)", k.Insight, k.Judge)
}

// ParseUnitKey parses exactly the textual form produced by UnitKey.String.
// Keys read from save files are untrusted input; anything other than
// "(i, j)" with plain non-negative decimal integers fails with ErrBadKey.
func ParseUnitKey(s string) (UnitKey, error) {
	inner, ok := strings.CutPrefix(s, "(")
	if ok {
		inner, ok = strings.CutSuffix(inner, ")")
	}
	if !ok {
		return UnitKey{}, fmt.Errorf("%w: %q", ErrBadKey, s)
	}

	first, second, ok := strings.Cut(inner, ", ")
	if !ok {
		return UnitKey{}, fmt.Errorf("%w: %q", ErrBadKey, s)
	}

	insight, err := parseIndex(first)
	if err != nil {
		return UnitKey{}, fmt.Errorf("%w: %q", ErrBadKey, s)
	}
	judge, err := parseIndex(second)
	if err != nil {
		return UnitKey{}, fmt.Errorf("%w: %q", ErrBadKey, s)
	}

	return UnitKey{Insight: insight, Judge: judge}, nil
}

// parseIndex converts a plain decimal digit run to an int. Unlike
// strconv.Atoi it rejects signs and surrounding whitespace outright.
func parseIndex(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty index")
	}
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit character %q", r)
		}
		n = n*10 + int(r-'0')
	}
	return n, nil
}

// Record is one stored meta-assessment.
type Record struct {
	IssueLevel  IssueLevel `json:"issue_level"`
	Explanation string     `json:"explanation"`
}

// Empty reports whether the record carries no assessment at all. Empty
// records are a deliberate no-op for the store, not a validation failure.
func (r Record) Empty() bool {
	return r.IssueLevel == LevelNone && strings.TrimSpace(r.Explanation) == ""
}

// Validate checks the explanation invariant: Minor/Major verdicts must
// explain themselves. Enforced before acceptance into the store.
func (r Record) Validate() error {
	if r.IssueLevel.RequiresExplanation() && strings.TrimSpace(r.Explanation) == "" {
		return ErrExplanationRequired
	}
	return nil
}
