package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/repodeck/repodeck/internal/models"
)

// Penalty per issue severity, subtracted from a starting score of 100.
const (
	penaltyHigh   = 25
	penaltyMedium = 15
	penaltyLow    = 5
)

// Emptyish repositories report a size of at most 1 provider unit.
const emptyRepoSizeKB = 1

// Repositories above 100000 KB (~100MB) are flagged as large.
const largeRepoSizeKB = 100000

type HealthService struct{}

func NewHealthService() *HealthService {
	return &HealthService{}
}

// Analyze computes the health of a repository as of now
func (s *HealthService) Analyze(repo models.Repository) models.RepositoryHealth {
	return s.AnalyzeAt(repo, time.Now())
}

// AnalyzeAt computes the health of a repository as of the given instant.
// It is a pure function: deterministic given identical inputs and clock,
// with no side effects.
func (s *HealthService) AnalyzeAt(repo models.Repository, now time.Time) models.RepositoryHealth {
	var issues []models.HealthIssue

	if repo.Description == nil || strings.TrimSpace(*repo.Description) == "" {
		issues = append(issues, models.HealthIssue{
			Kind:        models.IssueNoDescription,
			Severity:    models.SeverityLow,
			Description: "Repository has no description",
		})
	}

	// A repository that was never pushed counts as infinitely old
	daysSincePush := math.Inf(1)
	if repo.PushedAt != nil {
		daysSincePush = math.Floor(now.Sub(*repo.PushedAt).Hours() / 24)
	}

	if daysSincePush > 365 {
		description := "No recorded push activity"
		if !math.IsInf(daysSincePush, 1) {
			description = fmt.Sprintf("No activity for %d year(s)", int(daysSincePush/365))
		}
		issues = append(issues, models.HealthIssue{
			Kind:        models.IssueNoRecentActivity,
			Severity:    models.SeverityMedium,
			Description: description,
		})
	} else if daysSincePush > 180 {
		issues = append(issues, models.HealthIssue{
			Kind:        models.IssueNoRecentActivity,
			Severity:    models.SeverityLow,
			Description: fmt.Sprintf("No activity for %d days", int(daysSincePush)),
		})
	}

	if repo.Size <= emptyRepoSizeKB {
		issues = append(issues, models.HealthIssue{
			Kind:        models.IssueEmptyRepo,
			Severity:    models.SeverityHigh,
			Description: "Repository appears to be empty or minimal",
		})
	}

	if repo.Size > largeRepoSizeKB {
		issues = append(issues, models.HealthIssue{
			Kind:        models.IssueLargeSize,
			Severity:    models.SeverityMedium,
			Description: fmt.Sprintf("Repository is large (%dMB)", int(math.Round(float64(repo.Size)/1024))),
		})
	}

	score := 100
	for _, issue := range issues {
		switch issue.Severity {
		case models.SeverityHigh:
			score -= penaltyHigh
		case models.SeverityMedium:
			score -= penaltyMedium
		case models.SeverityLow:
			score -= penaltyLow
		}
	}
	if score < 0 {
		score = 0
	}

	return models.RepositoryHealth{
		Score:      score,
		Status:     models.StatusForScore(score),
		Issues:     issues,
		AnalyzedAt: now,
	}
}
