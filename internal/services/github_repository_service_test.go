package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repodeck/repodeck/internal/models"
)

// newTestGateway points the service's go-github client at a test server
func newTestGateway(t *testing.T, handler http.Handler) (*GitHubRepositoryService, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	service := NewGitHubRepositoryService("test-token", NewHealthService())
	service.batchDelay = 0

	client := github.NewClient(server.Client())
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base
	service.client = client

	return service, server
}

const repoListJSON = `[
	{"id": 1, "name": "alpha", "full_name": "octocat/alpha", "owner": {"login": "octocat"},
	 "description": "first", "size": 120, "stargazers_count": 3, "forks_count": 1,
	 "watchers_count": 2, "language": "Go", "default_branch": "main",
	 "html_url": "https://github.com/octocat/alpha",
	 "created_at": "2024-01-01T00:00:00Z", "updated_at": "2025-01-02T00:00:00Z",
	 "pushed_at": "2025-01-02T00:00:00Z"},
	{"id": 2, "name": "beta", "full_name": "octocat/beta", "owner": {"login": "octocat"},
	 "private": true, "fork": true, "archived": true, "size": 0,
	 "created_at": "2023-01-01T00:00:00Z", "updated_at": "2024-06-01T00:00:00Z"}
]`

func TestGatewayList(t *testing.T) {
	t.Run("Lists owned repositories in provider order", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/user/repos", r.URL.Path)
			assert.Equal(t, "owner", r.URL.Query().Get("type"))
			assert.Equal(t, "updated", r.URL.Query().Get("sort"))
			assert.Equal(t, "100", r.URL.Query().Get("per_page"))
			fmt.Fprint(w, repoListJSON)
		})
		service, _ := newTestGateway(t, handler)

		repos, err := service.List(context.Background())

		require.NoError(t, err)
		require.Len(t, repos, 2)

		assert.Equal(t, int64(1), repos[0].ID)
		assert.Equal(t, "alpha", repos[0].Name)
		assert.Equal(t, "octocat", repos[0].Owner)
		require.NotNil(t, repos[0].Description)
		assert.Equal(t, "first", *repos[0].Description)
		assert.Equal(t, 120, repos[0].Size)
		assert.NotNil(t, repos[0].PushedAt)

		assert.Equal(t, "beta", repos[1].Name)
		assert.True(t, repos[1].Private)
		assert.True(t, repos[1].Fork)
		assert.True(t, repos[1].Archived)
		assert.Nil(t, repos[1].Description)
		assert.Nil(t, repos[1].PushedAt)
	})

	t.Run("Missing token is unauthorized without a provider call", func(t *testing.T) {
		service := NewGitHubRepositoryService("", NewHealthService())

		_, err := service.List(context.Background())

		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("Provider 401 maps to unauthorized", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message": "Bad credentials"}`)
		})
		service, _ := newTestGateway(t, handler)

		_, err := service.List(context.Background())

		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("Other provider errors are generic", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		service, _ := newTestGateway(t, handler)

		_, err := service.List(context.Background())

		require.Error(t, err)
		assert.False(t, errors.Is(err, ErrUnauthorized))
		assert.False(t, errors.Is(err, ErrNotFound))
		// The raw provider error is logged, never surfaced
		assert.NotContains(t, err.Error(), "502")
	})
}

func TestGatewayGetAndDelete(t *testing.T) {
	t.Run("Get returns a single repository", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repos/octocat/alpha", r.URL.Path)
			fmt.Fprint(w, `{"id": 1, "name": "alpha", "owner": {"login": "octocat"}, "size": 42}`)
		})
		service, _ := newTestGateway(t, handler)

		repo, err := service.Get(context.Background(), "octocat", "alpha")

		require.NoError(t, err)
		assert.Equal(t, "alpha", repo.Name)
		assert.Equal(t, 42, repo.Size)
	})

	t.Run("Get unknown repository is not found", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message": "Not Found"}`)
		})
		service, _ := newTestGateway(t, handler)

		_, err := service.Get(context.Background(), "octocat", "ghost")

		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Delete issues the provider call", func(t *testing.T) {
		var called bool
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "/repos/octocat/alpha", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		})
		service, _ := newTestGateway(t, handler)

		err := service.Delete(context.Background(), "octocat", "alpha")

		require.NoError(t, err)
		assert.True(t, called)
	})
}

func TestGatewayListWithHealth(t *testing.T) {
	manyRepos := func(n int) string {
		out := "["
		for i := 1; i <= n; i++ {
			if i > 1 {
				out += ","
			}
			out += fmt.Sprintf(`{"id": %d, "name": "repo-%d", "full_name": "octocat/repo-%d",
				"owner": {"login": "octocat"}, "description": "d", "size": 100,
				"updated_at": "2025-01-01T00:00:00Z", "pushed_at": "2025-01-01T00:00:00Z"}`, i, i, i)
		}
		return out + "]"
	}

	t.Run("Every repository gets health data", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, manyRepos(7))
		})
		service, _ := newTestGateway(t, handler)

		repos, err := service.ListWithHealth(context.Background())

		require.NoError(t, err)
		require.Len(t, repos, 7)
		for _, repo := range repos {
			assert.NotNil(t, repo.Health, repo.Name)
		}
	})

	t.Run("One failing analysis never fails the batch", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, manyRepos(3))
		})
		service, _ := newTestGateway(t, handler)
		service.analyze = func(repo models.Repository) (*models.RepositoryHealth, error) {
			if repo.Name == "repo-2" {
				return nil, fmt.Errorf("boom")
			}
			return &models.RepositoryHealth{Score: 100, Status: models.HealthExcellent}, nil
		}

		repos, err := service.ListWithHealth(context.Background())

		require.NoError(t, err)
		require.Len(t, repos, 3)
		assert.NotNil(t, repos[0].Health)
		assert.Nil(t, repos[1].Health)
		assert.NotNil(t, repos[2].Health)
	})
}
