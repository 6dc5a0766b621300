package review

// Entry pairs a unit key with its stored record.
type Entry struct {
	Key    UnitKey
	Record Record
}

// Store maps review units to assessment records, preserving insertion
// order for iteration. It is pure data with no I/O; the owning session
// serializes access. The store only ever grows by upsert — "start fresh"
// is implemented by discarding the backing save file, never by shrinking
// a live store.
type Store struct {
	records map[UnitKey]Record
	order   []UnitKey
}

// NewStore creates an empty review store.
func NewStore() *Store {
	return &Store{records: make(map[UnitKey]Record)}
}

// Upsert inserts or overwrites the record for key. It returns false with
// no error for a completely empty record (no assessment yet, nothing to
// write) and false with ErrExplanationRequired when a Minor/Major verdict
// lacks an explanation. The store is unchanged unless (true, nil) is
// returned.
func (s *Store) Upsert(key UnitKey, rec Record) (bool, error) {
	if rec.Empty() {
		return false, nil
	}
	if err := rec.Validate(); err != nil {
		return false, err
	}

	if _, exists := s.records[key]; !exists {
		s.order = append(s.order, key)
	}
	s.records[key] = rec
	return true, nil
}

// Get returns the record for key. The second return distinguishes a
// pending unit from a reviewed one.
func (s *Store) Get(key UnitKey) (Record, bool) {
	rec, ok := s.records[key]
	return rec, ok
}

// Count returns the number of completed review units.
func (s *Store) Count() int {
	return len(s.records)
}

// All returns a snapshot of every entry in insertion order. Consumers
// that need a particular order re-sort.
func (s *Store) All() []Entry {
	entries := make([]Entry, 0, len(s.order))
	for _, key := range s.order {
		entries = append(entries, Entry{Key: key, Record: s.records[key]})
	}
	return entries
}

// ReviewedInsights returns the number of distinct insight indexes with at
// least one review.
func (s *Store) ReviewedInsights() int {
	seen := make(map[int]struct{})
	for key := range s.records {
		seen[key.Insight] = struct{}{}
	}
	return len(seen)
}
