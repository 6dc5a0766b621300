// Package metajudge owns the review state machine. A Session ties the
// review store, the navigation cursor, the loaded datasets, the autosave
// debouncer, and the save file together behind one mutex.
package metajudge

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/metajudge/internal/core/autosave"
	"github.com/colonyops/metajudge/internal/core/export"
	"github.com/colonyops/metajudge/internal/core/review"
	"github.com/colonyops/metajudge/internal/core/session"
	"github.com/colonyops/metajudge/internal/core/stats"
	"github.com/colonyops/metajudge/internal/data/dataset"
	"github.com/colonyops/metajudge/internal/store/savefile"
)

// ErrNoInsights is returned when the insights dataset has no data rows.
var ErrNoInsights = errors.New("insights dataset has no rows")

// Options configures a new Session.
type Options struct {
	Categories    []string
	Saves         *savefile.Store
	AutosaveDelay time.Duration
	Logger        zerolog.Logger
}

// Draft is the in-progress assessment for the current unit, mirrored
// from the UI input fields. It is not recorded until committed.
type Draft struct {
	Level       review.IssueLevel
	Explanation string
}

// LoadReport summarizes how a session came up, for the status line.
type LoadReport struct {
	Resumed     bool
	SavePath    string
	CursorReset bool

	MissingInsightColumns []string
	MissingWorkoutColumns []string

	MatchedEmails int
	TotalEmails   int
}

// Session is the single authoritative holder of review state. The mutex
// guards against the autosave timer firing off the UI goroutine; there is
// at most one pending autosave and no concurrent sessions per save file.
type Session struct {
	mu  sync.Mutex
	log zerolog.Logger

	categories []string
	insights   *dataset.Insights
	workouts   *dataset.Workouts

	reviews *review.Store
	state   *session.State

	saves    *savefile.Store
	savePath string

	debouncer *autosave.Debouncer
	draft     *Draft
}

// Start opens a fresh session against the given datasets, ignoring any
// existing save file for the pairing.
func Start(opts Options, insightsPath, workoutPath string) (*Session, *LoadReport, error) {
	s, report, err := build(opts, insightsPath, workoutPath)
	if err != nil {
		return nil, nil, err
	}

	s.state = session.New(insightsPath, workoutPath, s.insights.Len(), len(s.categories))
	s.reviews = review.NewStore()
	s.savePath = opts.Saves.Path(insightsPath, workoutPath)
	report.SavePath = s.savePath

	s.log.Info().
		Str("save", s.savePath).
		Int("insights", s.insights.Len()).
		Int("judges", len(s.categories)).
		Msg("started fresh review session")

	return s, report, nil
}

// Resume reopens a session from a loaded save file. A saved cursor
// beyond the dataset bounds resets to the first unit and is reported.
func Resume(opts Options, snap *savefile.Snapshot) (*Session, *LoadReport, error) {
	s, report, err := build(opts, snap.Data.InsightsFile, snap.Data.WorkoutFile)
	if err != nil {
		return nil, nil, err
	}

	state := session.New(snap.Data.InsightsFile, snap.Data.WorkoutFile, s.insights.Len(), len(s.categories))
	state.Insight = snap.Data.CurrentInsightIndex
	state.Judge = snap.Data.CurrentJudgeIndex
	state.LastSaved = snap.LastSavedTime()

	if state.Insight < 0 || state.Insight >= state.TotalInsights ||
		state.Judge < 0 || state.Judge >= state.TotalJudges {
		state.Insight, state.Judge = 0, 0
		report.CursorReset = true
	}

	s.state = state
	s.reviews = snap.Reviews
	s.savePath = snap.Path
	report.Resumed = true
	report.SavePath = snap.Path

	s.log.Info().
		Str("save", snap.Path).
		Int("reviews", s.reviews.Count()).
		Bool("cursor_reset", report.CursorReset).
		Msg("resumed review session")

	return s, report, nil
}

// build loads the datasets and assembles the parts shared by Start and
// Resume.
func build(opts Options, insightsPath, workoutPath string) (*Session, *LoadReport, error) {
	insights, missingIns, err := dataset.LoadInsights(insightsPath, opts.Categories)
	if err != nil {
		return nil, nil, fmt.Errorf("load insights: %w", err)
	}
	if insights.Len() == 0 {
		return nil, nil, ErrNoInsights
	}

	var (
		workouts   *dataset.Workouts
		missingWrk []string
	)
	if workoutPath != "" {
		workouts, missingWrk, err = dataset.LoadWorkouts(workoutPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load workouts: %w", err)
		}
	}

	matched, total := dataset.MatchedEmails(insights, workouts)

	s := &Session{
		log:        opts.Logger,
		categories: opts.Categories,
		insights:   insights,
		workouts:   workouts,
		saves:      opts.Saves,
		debouncer:  autosave.New(opts.AutosaveDelay),
	}

	report := &LoadReport{
		MissingInsightColumns: missingIns,
		MissingWorkoutColumns: missingWrk,
		MatchedEmails:         matched,
		TotalEmails:           total,
	}

	return s, report, nil
}

// Categories returns the judge categories in judge-index order.
func (s *Session) Categories() []string { return s.categories }

// Insights returns the loaded insights dataset.
func (s *Session) Insights() *dataset.Insights { return s.insights }

// Workouts returns the loaded workout dataset, nil when none was given.
func (s *Session) Workouts() *dataset.Workouts { return s.workouts }

// SavePath returns the session's save file path.
func (s *Session) SavePath() string { return s.savePath }

// State returns a copy of the current session state.
func (s *Session) State() session.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.state
}

// Unit returns the current review unit key.
func (s *Session) Unit() review.UnitKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Unit()
}

// Category returns the judge category name at the current cursor.
func (s *Session) Category() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categories[s.state.Judge]
}

// Record returns the stored review for a unit, if any.
func (s *Session) Record(key review.UnitKey) (review.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reviews.Get(key)
}

// CurrentRecord returns the stored review for the current unit, if any.
func (s *Session) CurrentRecord() (review.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reviews.Get(s.state.Unit())
}

// Progress reports completed reviews against the full grid.
func (s *Session) Progress() (completed, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reviews.Count(), s.state.TotalInsights * s.state.TotalJudges
}

// LastSaved returns when the session last reached disk, zero if never.
func (s *Session) LastSaved() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.LastSaved
}

// SetDraft updates the in-progress assessment for the current unit and
// arms the autosave timer. Rapid edits coalesce into one save.
func (s *Session) SetDraft(level review.IssueLevel, explanation string) {
	s.mu.Lock()
	s.draft = &Draft{Level: level, Explanation: explanation}
	s.mu.Unlock()

	s.debouncer.Trigger(s.autosaveFlush)
}

// ClearDraft drops the in-progress assessment without recording it.
func (s *Session) ClearDraft() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = nil
}

// Commit validates and records the current draft, then persists. An
// empty draft is a no-op. A draft needing an explanation fails without
// recording anything.
func (s *Session) Commit() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.commitLocked(); err != nil {
		return err
	}
	return s.persistLocked()
}

// commitLocked moves the draft into the store. Empty drafts clear
// without recording.
func (s *Session) commitLocked() (bool, error) {
	if s.draft == nil {
		return false, nil
	}

	rec := review.Record{
		IssueLevel:  s.draft.Level,
		Explanation: s.draft.Explanation,
	}

	wrote, err := s.reviews.Upsert(s.state.Unit(), rec)
	if err != nil {
		return false, err
	}

	s.draft = nil
	return wrote, nil
}

// persistLocked writes the session to its save file and stamps
// LastSaved.
func (s *Session) persistLocked() error {
	s.state.LastSaved = time.Now()
	if err := s.saves.Save(s.savePath, s.reviews, s.state); err != nil {
		return err
	}

	s.log.Debug().Str("save", s.savePath).Int("reviews", s.reviews.Count()).Msg("session saved")
	return nil
}

// autosaveFlush runs when the debounce timer fires. Persistence errors
// are logged, never surfaced; review flow must not stall on disk.
func (s *Session) autosaveFlush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.commitLocked(); err != nil {
		s.log.Warn().Err(err).Msg("autosave skipped draft")
	}
	if err := s.persistLocked(); err != nil {
		s.log.Warn().Err(err).Msg("autosave failed")
	}
}

// ManualSave commits and persists synchronously, surfacing any error.
func (s *Session) ManualSave() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.commitLocked(); err != nil {
		return err
	}
	return s.persistLocked()
}

// navigate commits the draft, then moves the cursor. A draft that fails
// validation blocks the move so no unit is left half recorded.
func (s *Session) navigate(move func(*session.State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.commitLocked(); err != nil {
		return err
	}
	if err := move(s.state); err != nil {
		return err
	}
	return s.persistLocked()
}

// NextUnit advances one cell in row-major order, wrapping at the end.
func (s *Session) NextUnit() error {
	return s.navigate(func(st *session.State) error { st.NextUnit(); return nil })
}

// PrevUnit steps back one cell in row-major order, wrapping at the start.
func (s *Session) PrevUnit() error {
	return s.navigate(func(st *session.State) error { st.PrevUnit(); return nil })
}

// NextInsight advances to the next insight's first judge.
func (s *Session) NextInsight() error {
	return s.navigate(func(st *session.State) error { st.NextInsight(); return nil })
}

// PrevInsight steps back to the previous insight's first judge.
func (s *Session) PrevInsight() error {
	return s.navigate(func(st *session.State) error { st.PrevInsight(); return nil })
}

// NextJudge advances to the next judge for the same insight.
func (s *Session) NextJudge() error {
	return s.navigate(func(st *session.State) error { st.NextJudge(); return nil })
}

// PrevJudge steps back to the previous judge for the same insight.
func (s *Session) PrevJudge() error {
	return s.navigate(func(st *session.State) error { st.PrevJudge(); return nil })
}

// JumpToInsight commits, then jumps to the 1-based insight n.
func (s *Session) JumpToInsight(n int) error {
	return s.navigate(func(st *session.State) error { return st.JumpToInsight(n) })
}

// JumpToJudge commits, then jumps to the 1-based judge n.
func (s *Session) JumpToJudge(n int) error {
	return s.navigate(func(st *session.State) error { return st.JumpToJudge(n) })
}

// Stats aggregates the current review store.
func (s *Session) Stats() stats.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return stats.Compute(s.reviews, s.state.TotalInsights, s.state.TotalJudges, s.categories)
}

// ExportReviews writes the reviews CSV to w.
func (s *Session) ExportReviews(w io.Writer, sortBy export.SortBy) error {
	s.mu.Lock()
	rows := export.ReviewRows(s.reviews, s.insights, s.categories, sortBy, time.Now())
	s.mu.Unlock()

	return export.WriteReviews(w, rows)
}

// ExportStatistics writes the statistics CSV to w.
func (s *Session) ExportStatistics(w io.Writer) error {
	return export.WriteStatistics(w, export.StatisticsRows(s.Stats(), time.Now()))
}

// Close cancels any pending autosave and writes a final save. The
// shutdown save is best effort: failures are logged and returned, but
// never block teardown.
func (s *Session) Close() error {
	s.debouncer.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.commitLocked(); err != nil {
		s.log.Warn().Err(err).Msg("shutdown discarded invalid draft")
	}
	if err := s.persistLocked(); err != nil {
		s.log.Error().Err(err).Msg("shutdown save failed")
		return err
	}
	return nil
}
