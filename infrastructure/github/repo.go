package github

import (
	"context"

	"github.com/repozip/repozip/domain"
)

// RepoService implements domain.RepositoryProber. The probe lets the CLI flip
// the privacy flag before a download so the credential check can fire early.
type RepoService struct {
	baseURL string
}

// NewRepoService creates a prober against the public API host.
func NewRepoService() *RepoService {
	return &RepoService{}
}

// NewRepoServiceWithBase creates a prober against a custom API base URL
// (must end with a slash). Used by tests.
func NewRepoServiceWithBase(baseURL string) *RepoService {
	return &RepoService{baseURL: baseURL}
}

// IsPrivate reports whether the repository is marked private. A repository the
// token cannot see at all surfaces as not-found, exactly as the remote
// reports it.
func (s *RepoService) IsPrivate(
	ctx context.Context,
	repo domain.Repository,
	token string,
) (bool, error) {
	client := (&BranchService{baseURL: s.baseURL}).newClient(token)

	repository, resp, err := client.Repositories.Get(ctx, repo.Owner, repo.Name)
	if err != nil {
		return false, mapAPIError(resp, err, repo)
	}

	return repository.GetPrivate(), nil
}
