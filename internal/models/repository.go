package models

import "time"

// Repository mirrors a GitHub repository as returned by the provider.
// It is read-only from this system's perspective except via delete;
// the provider stays the source of truth for existence.
type Repository struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	FullName      string     `json:"full_name"`
	Owner         string     `json:"owner"`
	Description   *string    `json:"description"`
	Private       bool       `json:"private"`
	Fork          bool       `json:"fork"`
	Archived      bool       `json:"archived"`
	Size          int        `json:"size"` // provider unit (KB)
	Stars         int        `json:"stars"`
	Forks         int        `json:"forks"`
	Watchers      int        `json:"watchers"`
	Language      *string    `json:"language"`
	DefaultBranch string     `json:"default_branch"`
	URL           string     `json:"url"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	PushedAt      *time.Time `json:"pushed_at"`
}

// RepositoryWithHealth pairs a repository with its computed health.
// Health is nil until analysis has run for the repository.
type RepositoryWithHealth struct {
	Repository
	Health *RepositoryHealth `json:"health,omitempty"`
}
