// Package savefile persists review progress as JSON save files, one per
// dataset pairing, named deterministically so a session can always find
// its own prior progress.
package savefile

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/colonyops/metajudge/internal/core/review"
	"github.com/colonyops/metajudge/internal/core/session"
)

// Sentinel errors for save file operations.
var (
	// ErrInvalidSave is returned when a file is not a well-formed save:
	// malformed JSON, missing required keys, or malformed composite keys.
	ErrInvalidSave = errors.New("invalid save file")

	// ErrNotFound is returned when no save file exists at the requested
	// location, or the save directory holds no saves at all.
	ErrNotFound = errors.New("save file not found")
)

// requiredKeys must be present for a file to count as a save file at all.
var requiredKeys = []string{"insights_file", "reviews", "total_insights", "total_judges"}

// SaveData is the on-disk wire format. Review keys are the composite
// "(i, j)" strings produced by review.UnitKey.String.
type SaveData struct {
	InsightsFile        string                   `json:"insights_file"`
	WorkoutFile         string                   `json:"workout_file"`
	Reviews             map[string]review.Record `json:"reviews"`
	CurrentInsightIndex int                      `json:"current_insight_index"`
	CurrentJudgeIndex   int                      `json:"current_judge_index"`
	LastSaved           string                   `json:"last_saved"`
	TotalInsights       int                      `json:"total_insights"`
	TotalJudges         int                      `json:"total_judges"`
}

// Store manages save files within a single per-user directory. The
// directory is created on first write.
type Store struct {
	dir string
}

// NewStore creates a save store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the save directory.
func (s *Store) Dir() string { return s.dir }

// stem returns the path's base name without its extension, or "unknown"
// for an empty path, keeping names stable for sessions with no workout
// dataset.
func stem(path string) string {
	if path == "" {
		return "unknown"
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Name returns the deterministic save filename for a dataset pairing:
// review_{insights_stem}_{workout_stem}_{hash8}.json, where hash8 is the
// first 8 hex characters of the MD5 of the joined stems.
func (s *Store) Name(insightsPath, workoutPath string) string {
	insights := stem(insightsPath)
	workout := stem(workoutPath)

	sum := md5.Sum([]byte(insights + "_" + workout))
	hash8 := hex.EncodeToString(sum[:])[:8]

	return fmt.Sprintf("review_%s_%s_%s.json", insights, workout, hash8)
}

// Path returns the full deterministic save path for a dataset pairing.
func (s *Store) Path(insightsPath, workoutPath string) string {
	return filepath.Join(s.dir, s.Name(insightsPath, workoutPath))
}

// Save serializes the session state and review store to path. The write
// is temp-then-rename so a crash mid-write never corrupts a prior save.
// Errors are always returned; autosave callers decide whether to swallow.
func (s *Store) Save(path string, store *review.Store, state *session.State) error {
	data := SaveData{
		InsightsFile:        state.InsightsFile,
		WorkoutFile:         state.WorkoutFile,
		Reviews:             make(map[string]review.Record, store.Count()),
		CurrentInsightIndex: state.Insight,
		CurrentJudgeIndex:   state.Judge,
		LastSaved:           state.LastSaved.Format(time.RFC3339),
		TotalInsights:       state.TotalInsights,
		TotalJudges:         state.TotalJudges,
	}

	for _, entry := range store.All() {
		data.Reviews[entry.Key.String()] = entry.Record
	}

	return s.write(path, data)
}

// write marshals and atomically replaces the file at path.
func (s *Store) write(path string, data SaveData) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create save directory: %w", err)
	}

	bits, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal save data: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, bits, 0o644); err != nil {
		return fmt.Errorf("write save file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace save file: %w", err)
	}

	return nil
}

// Snapshot is a fully parsed save file: the raw session-state fields plus
// a review store reconstructed from the composite keys.
type Snapshot struct {
	Path    string
	Data    SaveData
	Reviews *review.Store
}

// Load parses the save file at path. Malformed JSON, missing required
// keys, or keys that do not match the exact "(i, j)" form fail with an
// ErrInvalidSave-wrapped error; the keys are parsed structurally, never
// evaluated.
func (s *Store) Load(path string) (*Snapshot, error) {
	bits, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read save file: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(bits, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}
	for _, key := range requiredKeys {
		if _, ok := raw[key]; !ok {
			return nil, fmt.Errorf("%w: missing required key %q", ErrInvalidSave, key)
		}
	}

	var data SaveData
	if err := json.Unmarshal(bits, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSave, err)
	}

	store, err := rebuildStore(data.Reviews)
	if err != nil {
		return nil, err
	}

	return &Snapshot{Path: path, Data: data, Reviews: store}, nil
}

// rebuildStore reconstructs a review store from composite-keyed records,
// in deterministic grid order.
func rebuildStore(records map[string]review.Record) (*review.Store, error) {
	type pair struct {
		key review.UnitKey
		rec review.Record
	}

	pairs := make([]pair, 0, len(records))
	for raw, rec := range records {
		key, err := review.ParseUnitKey(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSave, err)
		}
		pairs = append(pairs, pair{key: key, rec: rec})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].key.Insight != pairs[j].key.Insight {
			return pairs[i].key.Insight < pairs[j].key.Insight
		}
		return pairs[i].key.Judge < pairs[j].key.Judge
	})

	store := review.NewStore()
	for _, p := range pairs {
		if _, err := store.Upsert(p.key, p.rec); err != nil {
			return nil, fmt.Errorf("%w: record %s: %v", ErrInvalidSave, p.key, err)
		}
	}
	return store, nil
}

// LastSavedTime parses the snapshot's last_saved field, returning the
// zero time when absent or unparseable.
func (snap *Snapshot) LastSavedTime() time.Time {
	ts, err := time.Parse(time.RFC3339, snap.Data.LastSaved)
	if err != nil {
		return time.Time{}
	}
	return ts
}

// MissingPaths flags dataset paths recorded in a save that no longer
// exist on disk. Surfaced as a condition rather than a load failure so
// the caller can prompt for replacements.
type MissingPaths struct {
	Insights bool
	Workout  bool
}

// Any reports whether any recorded path is missing.
func (m MissingPaths) Any() bool { return m.Insights || m.Workout }

// MissingPaths checks the snapshot's dataset paths against the
// filesystem. A workout path is only checked when one was recorded.
func (snap *Snapshot) MissingPaths() MissingPaths {
	var m MissingPaths
	if _, err := os.Stat(snap.Data.InsightsFile); err != nil {
		m.Insights = true
	}
	if snap.Data.WorkoutFile != "" {
		if _, err := os.Stat(snap.Data.WorkoutFile); err != nil {
			m.Workout = true
		}
	}
	return m
}

// Relink replaces the snapshot's dataset paths and persists the corrected
// save file. Empty arguments leave the corresponding path untouched.
func (s *Store) Relink(snap *Snapshot, insightsPath, workoutPath string) error {
	if insightsPath != "" {
		snap.Data.InsightsFile = insightsPath
	}
	if workoutPath != "" {
		snap.Data.WorkoutFile = workoutPath
	}
	return s.write(snap.Path, snap.Data)
}

// Delete removes a save file, the explicit "start fresh" discard. A save
// that is already gone is not an error.
func (s *Store) Delete(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete save file: %w", err)
	}
	return nil
}
