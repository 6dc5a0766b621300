package dataset

import "fmt"

// Workout table column names.
const (
	ColWorkoutSummary = "workout_summary"
)

// RequiredWorkoutColumns lists the columns a complete workout-history
// dataset carries.
func RequiredWorkoutColumns() []string {
	return []string{ColEmail, ColWorkoutSummary}
}

// Workouts wraps the optional workout-history table. A nil *Workouts (no
// dataset loaded) is valid; lookups return a descriptive placeholder.
type Workouts struct {
	table *Table
}

// LoadWorkouts loads the workout-history CSV, reporting absent expected
// columns as warnings.
func LoadWorkouts(path string) (*Workouts, []string, error) {
	table, err := Load(path)
	if err != nil {
		return nil, nil, err
	}

	var missing []string
	for _, col := range RequiredWorkoutColumns() {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}

	return &Workouts{table: table}, missing, nil
}

// Path returns the source file path, or empty when no dataset is loaded.
func (w *Workouts) Path() string {
	if w == nil {
		return ""
	}
	return w.table.Path()
}

// Len returns the number of workout rows.
func (w *Workouts) Len() int {
	if w == nil {
		return 0
	}
	return w.table.Len()
}

// Summary returns the first matching row's workout summary for the given
// email. Absence at every level resolves to a descriptive placeholder
// string rather than an error, so the panel always has content.
func (w *Workouts) Summary(email string) string {
	switch {
	case w == nil:
		return "No workout history data loaded."
	case !w.table.HasColumn(ColEmail):
		return "No workout history data loaded."
	case !w.table.HasColumn(ColWorkoutSummary):
		return "Workout history data missing 'workout_summary' column."
	}

	for i := 0; i < w.table.Len(); i++ {
		row := w.table.Row(i)
		if row.Get(ColEmail, "") != email {
			continue
		}
		if summary := row.Get(ColWorkoutSummary, ""); summary != "" {
			return summary
		}
		return "Workout summary is empty."
	}

	return fmt.Sprintf("No workout history found for: %s", email)
}

// MatchedEmails reports how many of the insights dataset's distinct emails
// have at least one workout-history row, for the load status line.
func MatchedEmails(ins *Insights, w *Workouts) (matched, total int) {
	emails := ins.Emails()
	total = len(emails)

	if w == nil || !w.table.HasColumn(ColEmail) {
		return 0, total
	}

	workoutEmails := make(map[string]struct{})
	for i := 0; i < w.table.Len(); i++ {
		if email := w.table.Row(i).Get(ColEmail, ""); email != "" {
			workoutEmails[email] = struct{}{}
		}
	}

	for email := range emails {
		if _, ok := workoutEmails[email]; ok {
			matched++
		}
	}
	return matched, total
}
