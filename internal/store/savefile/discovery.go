package savefile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

// savePattern matches the filenames this store writes.
const savePattern = "review_*.json"

// Entry describes one discovered save file.
type Entry struct {
	Path    string
	Name    string
	ModTime time.Time
}

// Find returns the deterministic save path for a dataset pairing and
// whether a save already exists there.
func (s *Store) Find(insightsPath, workoutPath string) (string, bool) {
	path := s.Path(insightsPath, workoutPath)
	if _, err := os.Stat(path); err != nil {
		return path, false
	}
	return path, true
}

// List returns every save file in the directory, most recently modified
// first. A directory that does not exist yet lists as empty.
func (s *Store) List() ([]Entry, error) {
	dirents, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read save directory: %w", err)
	}

	var entries []Entry
	for _, dirent := range dirents {
		if dirent.IsDir() {
			continue
		}

		ok, err := doublestar.Match(savePattern, dirent.Name())
		if err != nil || !ok {
			continue
		}

		info, err := dirent.Info()
		if err != nil {
			continue
		}

		entries = append(entries, Entry{
			Path:    filepath.Join(s.dir, dirent.Name()),
			Name:    dirent.Name(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ModTime.After(entries[j].ModTime)
	})

	return entries, nil
}

// MostRecent returns the newest save file in the directory, or
// ErrNotFound when none exist.
func (s *Store) MostRecent() (Entry, error) {
	entries, err := s.List()
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, fmt.Errorf("%w: no saves in %s", ErrNotFound, s.dir)
	}
	return entries[0], nil
}
