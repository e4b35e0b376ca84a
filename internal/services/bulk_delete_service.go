package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/repodeck/repodeck/internal/models"
	"github.com/repodeck/repodeck/pkg/logger"
)

// RepositoryDeleter is the slice of the gateway the orchestrator needs
type RepositoryDeleter interface {
	Delete(ctx context.Context, owner, name string) error
}

// BulkDeleteResult is the aggregate outcome of a bulk delete. Partial
// failure is a first-class result here, never an error.
type BulkDeleteResult struct {
	Disabled    bool     `json:"disabled"`
	Requested   int      `json:"requested"`
	Succeeded   int      `json:"succeeded"`
	Failed      int      `json:"failed"`
	DeletedIDs  []int64  `json:"deleted_ids"`
	FailedNames []string `json:"failed_names,omitempty"`
}

// AllSucceeded reports whether every requested delete went through
func (r BulkDeleteResult) AllSucceeded() bool {
	return !r.Disabled && r.Requested > 0 && r.Failed == 0
}

// AllFailed reports whether nothing was deleted
func (r BulkDeleteResult) AllFailed() bool {
	return !r.Disabled && r.Requested > 0 && r.Succeeded == 0
}

// Summary renders the user-facing outcome message
func (r BulkDeleteResult) Summary() string {
	switch {
	case r.Disabled:
		return "Bulk operations are disabled"
	case r.AllSucceeded():
		if r.Succeeded == 1 {
			return "Successfully deleted 1 repository"
		}
		return fmt.Sprintf("Successfully deleted %d repositories", r.Succeeded)
	case r.AllFailed():
		return "Failed to delete repositories"
	default:
		return fmt.Sprintf("Deleted %d repositories. %d failed.", r.Succeeded, r.Failed)
	}
}

type BulkDeleteService struct{}

func NewBulkDeleteService() *BulkDeleteService {
	return &BulkDeleteService{}
}

// Delete resolves the selected ids against the repository list and issues
// one delete call per item concurrently. It always waits for every outcome;
// a failing item never short-circuits the rest. Callers prune their local
// state with DeletedIDs only, so failed items stay visible and selected.
//
// When the user's settings disable bulk operations, no provider call is
// made and the result reports Disabled.
func (s *BulkDeleteService) Delete(ctx context.Context, deleter RepositoryDeleter, settings *models.UserSettings, ids []int64, repos []models.Repository) BulkDeleteResult {
	if settings != nil && settings.DisableBulkOperations {
		return BulkDeleteResult{Disabled: true, Requested: len(ids)}
	}

	byID := make(map[int64]models.Repository, len(repos))
	for _, repo := range repos {
		byID[repo.ID] = repo
	}

	result := BulkDeleteResult{Requested: len(ids)}

	type outcome struct {
		id   int64
		name string
		ok   bool
	}
	outcomes := make([]outcome, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		repo, found := byID[id]
		if !found {
			outcomes[i] = outcome{id: id, name: fmt.Sprintf("#%d", id)}
			continue
		}

		wg.Add(1)
		go func(i int, repo models.Repository) {
			defer wg.Done()
			err := deleter.Delete(ctx, repo.Owner, repo.Name)
			if err != nil {
				logger.WithError(err).WithField("repository", repo.FullName).
					Error("Failed to delete repository")
			}
			outcomes[i] = outcome{id: repo.ID, name: repo.FullName, ok: err == nil}
		}(i, repo)
	}
	wg.Wait()

	for _, o := range outcomes {
		if o.ok {
			result.Succeeded++
			result.DeletedIDs = append(result.DeletedIDs, o.id)
		} else {
			result.Failed++
			result.FailedNames = append(result.FailedNames, o.name)
		}
	}

	logger.Infof("Bulk delete finished: %d succeeded, %d failed", result.Succeeded, result.Failed)

	return result
}
