package review

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitKey_String(t *testing.T) {
	assert.Equal(t, "(0, 0)", UnitKey{}.String())
	assert.Equal(t, "(3, 12)", UnitKey{Insight: 3, Judge: 12}.String())
}

func TestParseUnitKey_RoundTrip(t *testing.T) {
	keys := []UnitKey{
		{0, 0},
		{1, 6},
		{42, 3},
		{100, 0},
	}

	for _, key := range keys {
		t.Run(key.String(), func(t *testing.T) {
			got, err := ParseUnitKey(key.String())
			require.NoError(t, err)
			assert.Equal(t, key, got)
		})
	}
}

func TestParseUnitKey_RejectsAnythingElse(t *testing.T) {
	bad := []string{
		"",
		"(0,0)",       // missing space after comma
		"( 0, 0)",     // padded
		"(0, 0",       // unterminated
		"0, 0",        // no parens
		"(-1, 0)",     // negative
		"(+1, 0)",     // signed
		"(0, 0, 0)",   // triple
		"(a, b)",      // non-numeric
		"(0x1, 2)",    // hex
		"__import__",  // nothing resembling code is ever evaluated
		"(1, 2)extra", // trailing junk
	}

	for _, input := range bad {
		t.Run(input, func(t *testing.T) {
			_, err := ParseUnitKey(input)
			assert.ErrorIs(t, err, ErrBadKey)
		})
	}
}

func TestRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		record  Record
		wantErr error
	}{
		{"no issues without explanation", Record{IssueLevel: LevelNo}, nil},
		{"minor with explanation", Record{IssueLevel: LevelMinor, Explanation: "wrong units"}, nil},
		{"minor without explanation", Record{IssueLevel: LevelMinor}, ErrExplanationRequired},
		{"major without explanation", Record{IssueLevel: LevelMajor}, ErrExplanationRequired},
		{"major with whitespace explanation", Record{IssueLevel: LevelMajor, Explanation: "  \n"}, ErrExplanationRequired},
		{"explanation only", Record{Explanation: "note to self"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRecord_Empty(t *testing.T) {
	assert.True(t, Record{}.Empty())
	assert.True(t, Record{Explanation: "   "}.Empty())
	assert.False(t, Record{IssueLevel: LevelNo}.Empty())
	assert.False(t, Record{Explanation: "draft thought"}.Empty())
}
