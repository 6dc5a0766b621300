package dataset

// Insight table column names shared with the export formatter.
const (
	ColInsightText = "insight_text"
	ColEmail       = "email"
	ColGoal        = "goal"
)

// ScoreColumn returns the per-category score column name.
func ScoreColumn(category string) string { return category + "_score" }

// ReasoningColumn returns the per-category reasoning column name.
func ReasoningColumn(category string) string { return category + "_reasoning" }

// RequiredInsightColumns lists the columns a complete insights dataset
// carries for the given judge categories.
func RequiredInsightColumns(categories []string) []string {
	cols := []string{ColInsightText, ColEmail, ColGoal}
	for _, cat := range categories {
		cols = append(cols, ScoreColumn(cat), ReasoningColumn(cat))
	}
	return cols
}

// Insights wraps the insights table with category-aware accessors.
type Insights struct {
	table      *Table
	categories []string
}

// LoadInsights loads the insights CSV and reports which expected columns
// are absent. Missing columns are a warning, not an error: the review can
// proceed and the affected cells read as defaults.
func LoadInsights(path string, categories []string) (*Insights, []string, error) {
	table, err := Load(path)
	if err != nil {
		return nil, nil, err
	}

	var missing []string
	for _, col := range RequiredInsightColumns(categories) {
		if !table.HasColumn(col) {
			missing = append(missing, col)
		}
	}

	return &Insights{table: table, categories: categories}, missing, nil
}

// Path returns the source file path.
func (ins *Insights) Path() string { return ins.table.Path() }

// Len returns the number of insight rows.
func (ins *Insights) Len() int { return ins.table.Len() }

// Columns returns the raw header names.
func (ins *Insights) Columns() []string { return ins.table.Columns() }

// Text returns the insight text for row i, or def.
func (ins *Insights) Text(i int, def string) string {
	return ins.table.Row(i).Get(ColInsightText, def)
}

// Email returns the user email for row i, or def.
func (ins *Insights) Email(i int, def string) string {
	return ins.table.Row(i).Get(ColEmail, def)
}

// Goal returns the user goal for row i, or def.
func (ins *Insights) Goal(i int, def string) string {
	return ins.table.Row(i).Get(ColGoal, def)
}

// Score returns the judge score for row i in the given category, or def.
func (ins *Insights) Score(i int, category, def string) string {
	return ins.table.Row(i).Get(ScoreColumn(category), def)
}

// Reasoning returns the judge reasoning for row i in the given category,
// or def.
func (ins *Insights) Reasoning(i int, category, def string) string {
	return ins.table.Row(i).Get(ReasoningColumn(category), def)
}

// Emails returns the set of non-empty emails present in the dataset.
func (ins *Insights) Emails() map[string]struct{} {
	emails := make(map[string]struct{})
	if !ins.table.HasColumn(ColEmail) {
		return emails
	}
	for i := 0; i < ins.table.Len(); i++ {
		if email := ins.table.Row(i).Get(ColEmail, ""); email != "" {
			emails[email] = struct{}{}
		}
	}
	return emails
}
