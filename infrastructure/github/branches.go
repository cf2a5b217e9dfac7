// Package github implements the remote-read side of the pipeline against the
// GitHub REST API: branch listing and the repository privacy probe.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	gh "github.com/google/go-github/v66/github"

	"github.com/repozip/repozip/domain"
)

const perPage = 100

// BranchService implements domain.BranchLister on the GitHub branch-listing
// endpoint. One logical read per call; the result is a snapshot.
type BranchService struct {
	baseURL string
}

// NewBranchService creates a branch lister against the public API host.
func NewBranchService() *BranchService {
	return &BranchService{}
}

// NewBranchServiceWithBase creates a branch lister against a custom API base
// URL (must end with a slash). Used by tests.
func NewBranchServiceWithBase(baseURL string) *BranchService {
	return &BranchService{baseURL: baseURL}
}

// ListBranches fetches every branch of the repository, attaching the token as
// a bearer credential when present.
func (s *BranchService) ListBranches(
	ctx context.Context,
	repo domain.Repository,
	token string,
) ([]domain.Branch, error) {
	client := s.newClient(token)

	var all []domain.Branch
	opts := &gh.BranchListOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	for {
		branches, resp, err := client.Repositories.ListBranches(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return nil, mapAPIError(resp, err, repo)
		}

		for _, b := range branches {
			all = append(all, domain.Branch{
				Name:      b.GetName(),
				CommitSHA: b.GetCommit().GetSHA(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

func (s *BranchService) newClient(token string) *gh.Client {
	client := gh.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if s.baseURL != "" {
		if base, err := url.Parse(s.baseURL); err == nil {
			client.BaseURL = base
		}
	}
	return client
}

// mapAPIError translates a go-github failure into the pipeline taxonomy.
func mapAPIError(resp *gh.Response, err error, repo domain.Repository) error {
	if resp == nil {
		return domain.NewNetworkError(
			fmt.Sprintf("failed to reach the API for %s", repo), 0, err,
		)
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return domain.NewNotFoundError(
			fmt.Sprintf("repository %s not found or not accessible", repo),
			resp.StatusCode,
		)
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.NewAuthError(
			fmt.Sprintf("credential rejected for %s", repo),
			resp.StatusCode,
		)
	default:
		return domain.NewNetworkError(
			fmt.Sprintf("unexpected status %d from the API for %s", resp.StatusCode, repo),
			resp.StatusCode,
			err,
		)
	}
}
