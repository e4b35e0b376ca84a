package models

import "time"

type HealthStatus string

const (
	HealthExcellent HealthStatus = "excellent"
	HealthGood      HealthStatus = "good"
	HealthFair      HealthStatus = "fair"
	HealthPoor      HealthStatus = "poor"
)

type IssueKind string

const (
	IssueNoRecentActivity IssueKind = "no_recent_activity"
	IssueEmptyRepo        IssueKind = "empty_repo"
	IssueNoDescription    IssueKind = "no_description"
	IssueLargeSize        IssueKind = "large_size"
)

type IssueSeverity string

const (
	SeverityHigh   IssueSeverity = "high"
	SeverityMedium IssueSeverity = "medium"
	SeverityLow    IssueSeverity = "low"
)

// HealthIssue is a single detected health concern
type HealthIssue struct {
	Kind        IssueKind     `json:"type"`
	Severity    IssueSeverity `json:"severity"`
	Description string        `json:"description"`
}

// RepositoryHealth is a derived, ephemeral rating of repository upkeep.
// It is recomputed on demand and never persisted.
type RepositoryHealth struct {
	Score      int           `json:"score"` // 0-100
	Status     HealthStatus  `json:"status"`
	Issues     []HealthIssue `json:"issues"`
	AnalyzedAt time.Time     `json:"last_analyzed"`
}

// StatusForScore maps a score to its threshold-derived status bucket
func StatusForScore(score int) HealthStatus {
	switch {
	case score >= 80:
		return HealthExcellent
	case score >= 60:
		return HealthGood
	case score >= 40:
		return HealthFair
	default:
		return HealthPoor
	}
}
