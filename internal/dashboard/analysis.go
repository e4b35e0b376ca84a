package dashboard

import (
	"context"
	"math"
	"time"

	"github.com/repodeck/repodeck/internal/models"
)

// AnalyzeAll runs health analysis sequentially over every repository that
// has none yet, one request in flight at a time, with a fixed delay
// between items. Each repository is marked Analyzing up front so the view
// can reflect progress immediately, then flipped to Analyzed or reverted
// to NotAnalyzed on failure. A failing item never stops the sequence;
// cancelling the context stops it between items.
func (d *Dashboard) AnalyzeAll(ctx context.Context, analyze AnalyzeFunc) error {
	pending := d.beginAnalysis()
	if len(pending) == 0 {
		return nil
	}
	defer d.endAnalysis()

	for i, id := range pending {
		repo, ok := d.markAnalyzing(id)
		if !ok {
			// Deleted while the analysis was under way
			d.advanceProgress()
			continue
		}

		health, err := analyze(ctx, repo)
		if err != nil || health == nil {
			d.setAnalysisResult(id, nil)
		} else {
			d.setAnalysisResult(id, health)
		}
		d.advanceProgress()

		if i < len(pending)-1 {
			select {
			case <-time.After(d.stepDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return nil
}

// beginAnalysis snapshots the ids still lacking health and arms the
// progress counters
func (d *Dashboard) beginAnalysis() []int64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	var pending []int64
	for _, entry := range d.entries {
		if entry.State != Analyzed {
			pending = append(pending, entry.ID)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	d.analyzing = true
	d.current = 0
	d.total = len(pending)
	return pending
}

func (d *Dashboard) endAnalysis() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.analyzing = false
	d.current = 0
	d.total = 0
}

func (d *Dashboard) markAnalyzing(id int64) (models.Repository, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, entry := range d.entries {
		if entry.ID == id {
			entry.State = Analyzing
			return entry.Repository, true
		}
	}
	return models.Repository{}, false
}

func (d *Dashboard) setAnalysisResult(id int64, health *models.RepositoryHealth) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, entry := range d.entries {
		if entry.ID != id {
			continue
		}
		if health == nil {
			entry.State = NotAnalyzed
			entry.Health = nil
		} else {
			entry.State = Analyzed
			entry.Health = health
		}
		return
	}
}

func (d *Dashboard) advanceProgress() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current++
}

// IsAnalyzing reports whether a sequential analysis is in flight
func (d *Dashboard) IsAnalyzing() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.analyzing
}

// Progress returns the analysis counters (processed so far, total)
func (d *Dashboard) Progress() (current, total int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current, d.total
}

// Summary aggregates health over completed analyses only
type Summary struct {
	Excellent         int `json:"excellent"`
	Good              int `json:"good"`
	Fair              int `json:"fair"`
	Poor              int `json:"poor"`
	TotalIssues       int `json:"total_issues"`
	AverageScore      int `json:"average_score"`
	TotalAnalyzed     int `json:"total_analyzed"`
	TotalRepositories int `json:"total_repositories"`
}

// Summary returns the derived health statistics and whether the summary
// is visible. It becomes visible once at least one repository has
// completed analysis and stays visible for the rest of the session.
func (d *Dashboard) Summary() (Summary, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var s Summary
	s.TotalRepositories = len(d.entries)

	var scoreSum int
	for _, entry := range d.entries {
		if entry.State != Analyzed || entry.Health == nil {
			continue
		}
		s.TotalAnalyzed++
		s.TotalIssues += len(entry.Health.Issues)
		scoreSum += entry.Health.Score

		switch entry.Health.Status {
		case models.HealthExcellent:
			s.Excellent++
		case models.HealthGood:
			s.Good++
		case models.HealthFair:
			s.Fair++
		case models.HealthPoor:
			s.Poor++
		}
	}

	if s.TotalAnalyzed > 0 {
		s.AverageScore = int(math.Round(float64(scoreSum) / float64(s.TotalAnalyzed)))
		d.summaryShown = true
	}

	return s, d.summaryShown
}
