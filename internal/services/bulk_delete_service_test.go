package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/repodeck/repodeck/internal/models"
)

// fakeDeleter fails deletes for repositories whose name is in failing
type fakeDeleter struct {
	mu      sync.Mutex
	failing map[string]bool
	calls   []string
}

func (f *fakeDeleter) Delete(ctx context.Context, owner, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, owner+"/"+name)
	if f.failing[name] {
		return fmt.Errorf("boom")
	}
	return nil
}

func testRepos(n int) []models.Repository {
	repos := make([]models.Repository, n)
	for i := range repos {
		repos[i] = models.Repository{
			ID:       int64(i + 1),
			Name:     fmt.Sprintf("repo-%d", i+1),
			FullName: fmt.Sprintf("octocat/repo-%d", i+1),
			Owner:    "octocat",
		}
	}
	return repos
}

func TestBulkDelete(t *testing.T) {
	service := NewBulkDeleteService()

	t.Run("All succeed", func(t *testing.T) {
		deleter := &fakeDeleter{}
		repos := testRepos(3)

		result := service.Delete(context.Background(), deleter, nil, []int64{1, 2, 3}, repos)

		assert.True(t, result.AllSucceeded())
		assert.Equal(t, 3, result.Succeeded)
		assert.Equal(t, 0, result.Failed)
		assert.Equal(t, []int64{1, 2, 3}, result.DeletedIDs)
		assert.Equal(t, "Successfully deleted 3 repositories", result.Summary())
		assert.Len(t, deleter.calls, 3)
	})

	t.Run("Mixed outcome reports exact counts", func(t *testing.T) {
		deleter := &fakeDeleter{failing: map[string]bool{"repo-2": true, "repo-4": true}}
		repos := testRepos(5)

		result := service.Delete(context.Background(), deleter, nil, []int64{1, 2, 3, 4, 5}, repos)

		assert.False(t, result.AllSucceeded())
		assert.False(t, result.AllFailed())
		assert.Equal(t, 3, result.Succeeded)
		assert.Equal(t, 2, result.Failed)
		assert.Equal(t, []int64{1, 3, 5}, result.DeletedIDs)
		assert.ElementsMatch(t, []string{"octocat/repo-2", "octocat/repo-4"}, result.FailedNames)
		assert.Equal(t, "Deleted 3 repositories. 2 failed.", result.Summary())
		// Every delete is attempted even though some fail
		assert.Len(t, deleter.calls, 5)
	})

	t.Run("All fail", func(t *testing.T) {
		deleter := &fakeDeleter{failing: map[string]bool{"repo-1": true, "repo-2": true}}
		repos := testRepos(2)

		result := service.Delete(context.Background(), deleter, nil, []int64{1, 2}, repos)

		assert.True(t, result.AllFailed())
		assert.Empty(t, result.DeletedIDs)
		assert.Equal(t, "Failed to delete repositories", result.Summary())
	})

	t.Run("Unknown id counts as failure without a provider call", func(t *testing.T) {
		deleter := &fakeDeleter{}
		repos := testRepos(1)

		result := service.Delete(context.Background(), deleter, nil, []int64{1, 99}, repos)

		assert.Equal(t, 1, result.Succeeded)
		assert.Equal(t, 1, result.Failed)
		assert.Len(t, deleter.calls, 1)
	})

	t.Run("Disabled by user preference makes no provider calls", func(t *testing.T) {
		deleter := &fakeDeleter{}
		repos := testRepos(3)
		settings := models.NewUserSettings("user-1")
		settings.DisableBulkOperations = true

		result := service.Delete(context.Background(), deleter, settings, []int64{1, 2, 3}, repos)

		assert.True(t, result.Disabled)
		assert.Equal(t, 0, result.Succeeded)
		assert.Equal(t, 0, result.Failed)
		assert.Empty(t, deleter.calls)
		assert.Equal(t, "Bulk operations are disabled", result.Summary())
	})

	t.Run("Single success summary", func(t *testing.T) {
		deleter := &fakeDeleter{}
		repos := testRepos(1)

		result := service.Delete(context.Background(), deleter, nil, []int64{1}, repos)

		assert.Equal(t, "Successfully deleted 1 repository", result.Summary())
	})
}
