package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/repodeck/repodeck/internal/models"
	"github.com/repodeck/repodeck/pkg/logger"
)

const (
	// healthBatchSize is how many repositories are scored per batch in
	// ListWithHealth.
	healthBatchSize = 5

	// defaultBatchDelay is the pause between health batches, to stay
	// polite towards provider rate limits.
	defaultBatchDelay = 1000 * time.Millisecond
)

// GitHubRepositoryService is a thin gateway translating domain calls into
// calls against the GitHub REST API with a caller-supplied bearer token.
type GitHubRepositoryService struct {
	client     *github.Client
	token      string
	analyze    func(models.Repository) (*models.RepositoryHealth, error)
	batchDelay time.Duration
}

func NewGitHubRepositoryService(token string, healthService *HealthService) *GitHubRepositoryService {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(context.Background(), ts)

	return &GitHubRepositoryService{
		client: github.NewClient(tc),
		token:  token,
		analyze: func(repo models.Repository) (*models.RepositoryHealth, error) {
			health := healthService.Analyze(repo)
			return &health, nil
		},
		batchDelay: defaultBatchDelay,
	}
}

// List returns the user's owned repositories in the provider's
// update-recency order. Only the first page (100 repositories) is read;
// pagination beyond that is a documented limitation.
func (s *GitHubRepositoryService) List(ctx context.Context) ([]models.Repository, error) {
	if s.token == "" {
		return nil, ErrUnauthorized
	}

	opt := &github.RepositoryListOptions{
		Type:        "owner",
		Sort:        "updated",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	repos, _, err := s.client.Repositories.List(ctx, "", opt)
	if err != nil {
		return nil, s.mapError("failed to fetch repositories from GitHub", err)
	}

	result := make([]models.Repository, 0, len(repos))
	for _, repo := range repos {
		result = append(result, toRepository(repo))
	}
	return result, nil
}

// Get returns a single repository or ErrNotFound
func (s *GitHubRepositoryService) Get(ctx context.Context, owner, name string) (*models.Repository, error) {
	if s.token == "" {
		return nil, ErrUnauthorized
	}

	repo, _, err := s.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		return nil, s.mapError("failed to fetch repository from GitHub", err)
	}

	result := toRepository(repo)
	return &result, nil
}

// Delete removes a repository on the provider side. This is irreversible.
func (s *GitHubRepositoryService) Delete(ctx context.Context, owner, name string) error {
	if s.token == "" {
		return ErrUnauthorized
	}

	if _, err := s.client.Repositories.Delete(ctx, owner, name); err != nil {
		return s.mapError("failed to delete repository from GitHub", err)
	}
	return nil
}

// ListWithHealth returns the repository list augmented with health data.
// Health is computed in small batches with a fixed delay between batches.
// A health-computation failure for one repository never fails the batch;
// that repository is returned without health data.
func (s *GitHubRepositoryService) ListWithHealth(ctx context.Context) ([]models.RepositoryWithHealth, error) {
	repos, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]models.RepositoryWithHealth, len(repos))
	for i, repo := range repos {
		result[i] = models.RepositoryWithHealth{Repository: repo}
	}

	for start := 0; start < len(result); start += healthBatchSize {
		end := start + healthBatchSize
		if end > len(result) {
			end = len(result)
		}

		g, _ := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				health, err := s.analyze(result[i].Repository)
				if err != nil {
					// Leave this repository without health data
					logger.WithError(err).WithField("repository", result[i].FullName).
						Warnf("Failed to analyze repository health")
					return nil
				}
				result[i].Health = health
				return nil
			})
		}
		// Goroutines swallow their own errors, so Wait only joins
		_ = g.Wait()

		if end < len(result) {
			select {
			case <-time.After(s.batchDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return result, nil
}

// mapError classifies provider errors. Authentication failures surface as
// ErrUnauthorized, missing repositories as ErrNotFound, and everything
// else as a generic failure; the original error is only ever logged.
func (s *GitHubRepositoryService) mapError(message string, err error) error {
	logger.WithError(err).Error(message)

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		switch ghErr.Response.StatusCode {
		case http.StatusUnauthorized:
			return ErrUnauthorized
		case http.StatusNotFound:
			return ErrNotFound
		}
	}

	return fmt.Errorf("%s", message)
}

// toRepository translates a github.Repository into the internal model
func toRepository(r *github.Repository) models.Repository {
	repo := models.Repository{
		ID:            r.GetID(),
		Name:          r.GetName(),
		FullName:      r.GetFullName(),
		Owner:         r.GetOwner().GetLogin(),
		Description:   r.Description,
		Private:       r.GetPrivate(),
		Fork:          r.GetFork(),
		Archived:      r.GetArchived(),
		Size:          r.GetSize(),
		Stars:         r.GetStargazersCount(),
		Forks:         r.GetForksCount(),
		Watchers:      r.GetWatchersCount(),
		Language:      r.Language,
		DefaultBranch: r.GetDefaultBranch(),
		URL:           r.GetHTMLURL(),
	}

	if r.CreatedAt != nil {
		repo.CreatedAt = r.CreatedAt.Time
	}
	if r.UpdatedAt != nil {
		repo.UpdatedAt = r.UpdatedAt.Time
	}
	if r.PushedAt != nil {
		repo.PushedAt = &r.PushedAt.Time
	}

	return repo
}
