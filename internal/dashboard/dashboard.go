// Package dashboard holds the per-session view-model for the repository
// dashboard: filtering, sorting, selection and the sequential health
// analysis over the loaded repository collection.
package dashboard

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/repodeck/repodeck/internal/models"
)

type SortKey string

const (
	SortUpdated SortKey = "updated"
	SortCreated SortKey = "created"
	SortName    SortKey = "name"
	SortStars   SortKey = "stars"
	SortForks   SortKey = "forks"
	SortHealth  SortKey = "health"
)

type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// AnalysisState is the explicit tri-state of an entry's health analysis
type AnalysisState int

const (
	NotAnalyzed AnalysisState = iota
	Analyzing
	Analyzed
)

// Entry is a repository as the dashboard sees it: provider data plus the
// analysis state and, once analyzed, the computed health.
type Entry struct {
	models.Repository
	Health *models.RepositoryHealth
	State  AnalysisState
}

// AnalyzeFunc computes health for one repository. Failures degrade only
// that repository, never the sequence.
type AnalyzeFunc func(ctx context.Context, repo models.Repository) (*models.RepositoryHealth, error)

// defaultStepDelay is the pause between analyzed repositories, to smooth
// provider load.
const defaultStepDelay = 300 * time.Millisecond

// Dashboard is the view-model state machine. All methods are safe for
// concurrent use within one session.
type Dashboard struct {
	mu        sync.Mutex
	entries   []*Entry
	search    string
	sortKey   SortKey
	sortDir   SortDirection
	selected  map[int64]struct{}
	analyzing bool
	current   int
	total     int
	// summaryShown keeps the summary visible for the rest of the
	// session once any repository has completed analysis
	summaryShown bool
	stepDelay    time.Duration
}

// New seeds a dashboard from a server-provided repository list.
// Repositories arriving with health count as already analyzed.
func New(repos []models.RepositoryWithHealth) *Dashboard {
	d := &Dashboard{
		sortKey:   SortUpdated,
		sortDir:   Ascending,
		selected:  make(map[int64]struct{}),
		stepDelay: defaultStepDelay,
	}
	d.seed(repos)
	return d
}

func (d *Dashboard) seed(repos []models.RepositoryWithHealth) {
	d.entries = make([]*Entry, 0, len(repos))
	for _, repo := range repos {
		entry := &Entry{Repository: repo.Repository, Health: repo.Health}
		if repo.Health != nil {
			entry.State = Analyzed
		}
		d.entries = append(d.entries, entry)
	}
}

// SetRepositories replaces the collection and clears the selection
func (d *Dashboard) SetRepositories(repos []models.RepositoryWithHealth) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seed(repos)
	d.selected = make(map[int64]struct{})
}

// SetSearch sets the search term. An empty term matches everything.
func (d *Dashboard) SetSearch(term string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.search = term
}

// SetSort sets the active sort key and direction
func (d *Dashboard) SetSort(key SortKey, dir SortDirection) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sortKey = key
	d.sortDir = dir
}

// ToggleSortDirection flips the comparator polarity
func (d *Dashboard) ToggleSortDirection() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sortDir == Ascending {
		d.sortDir = Descending
	} else {
		d.sortDir = Ascending
	}
}

// Visible returns the filtered and sorted view of the collection
func (d *Dashboard) Visible() []Entry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.visibleLocked()
}

func (d *Dashboard) visibleLocked() []Entry {
	term := strings.ToLower(d.search)

	filtered := make([]Entry, 0, len(d.entries))
	for _, entry := range d.entries {
		if term == "" || matches(entry, term) {
			filtered = append(filtered, *entry)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		less := compare(&filtered[i], &filtered[j], d.sortKey)
		if d.sortDir == Descending {
			return compare(&filtered[j], &filtered[i], d.sortKey)
		}
		return less
	})

	return filtered
}

func matches(entry *Entry, term string) bool {
	if strings.Contains(strings.ToLower(entry.Name), term) ||
		strings.Contains(strings.ToLower(entry.FullName), term) ||
		strings.Contains(strings.ToLower(entry.Owner), term) {
		return true
	}
	return entry.Description != nil && strings.Contains(strings.ToLower(*entry.Description), term)
}

func compare(a, b *Entry, key SortKey) bool {
	switch key {
	case SortCreated:
		return a.CreatedAt.Before(b.CreatedAt)
	case SortName:
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	case SortStars:
		return a.Stars < b.Stars
	case SortForks:
		return a.Forks < b.Forks
	case SortHealth:
		return healthScore(a) < healthScore(b)
	default: // SortUpdated
		return a.UpdatedAt.Before(b.UpdatedAt)
	}
}

// healthScore treats a repository without computed health as score 0
func healthScore(e *Entry) int {
	if e.State != Analyzed || e.Health == nil {
		return 0
	}
	return e.Health.Score
}

// Select adds a loaded repository to the selection set. Unknown ids are
// ignored so the selection stays a subset of the loaded collection.
func (d *Dashboard) Select(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, entry := range d.entries {
		if entry.ID == id {
			d.selected[id] = struct{}{}
			return
		}
	}
}

// Deselect removes a repository from the selection set
func (d *Dashboard) Deselect(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.selected, id)
}

// SelectAll selects every repository in the currently filtered and
// sorted view, not the full collection
func (d *Dashboard) SelectAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selected = make(map[int64]struct{})
	for _, entry := range d.visibleLocked() {
		d.selected[entry.ID] = struct{}{}
	}
}

// ClearSelection empties the selection set unconditionally
func (d *Dashboard) ClearSelection() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.selected = make(map[int64]struct{})
}

// Selected returns the selected repository ids in ascending order
func (d *Dashboard) Selected() []int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids := make([]int64, 0, len(d.selected))
	for id := range d.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// IsSelected reports whether a repository is in the selection set
func (d *Dashboard) IsSelected(id int64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.selected[id]
	return ok
}

// Remove prunes a single repository from the collection and selection,
// after a successful single delete
func (d *Dashboard) Remove(id int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.removeLocked([]int64{id})
}

// ApplyBulkResult prunes exactly the successfully deleted repositories
// from the collection and the selection set. Failed items stay loaded
// and selected.
func (d *Dashboard) ApplyBulkResult(deletedIDs []int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.removeLocked(deletedIDs)
}

func (d *Dashboard) removeLocked(ids []int64) {
	deleted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		deleted[id] = struct{}{}
	}

	kept := d.entries[:0]
	for _, entry := range d.entries {
		if _, gone := deleted[entry.ID]; gone {
			delete(d.selected, entry.ID)
			continue
		}
		kept = append(kept, entry)
	}
	d.entries = kept
}
