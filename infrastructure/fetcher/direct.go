package fetcher

import (
	"context"
	"fmt"
	"net/http"

	"github.com/repozip/repozip/domain"
)

const defaultArchiveBaseURL = "https://github.com"

// DirectFetcher retrieves the archive straight from the per-branch archive
// endpoint. It carries no credential, so it only works for public
// repositories.
type DirectFetcher struct {
	client  *http.Client
	baseURL string
}

// NewDirectFetcher creates the direct-archive strategy. client and baseURL
// fall back to sane defaults when zero-valued; tests inject both.
func NewDirectFetcher(client *http.Client, baseURL string) *DirectFetcher {
	if client == nil {
		client = newHTTPClient()
	}
	if baseURL == "" {
		baseURL = defaultArchiveBaseURL
	}
	return &DirectFetcher{client: client, baseURL: baseURL}
}

func (f *DirectFetcher) Name() string { return "direct" }

// Fetch downloads "<base>/<owner>/<repo>/archive/refs/heads/<branch>.zip".
func (f *DirectFetcher) Fetch(
	ctx context.Context,
	req domain.Request,
	onProgress domain.ProgressFunc,
) ([]byte, error) {
	archiveURL := fmt.Sprintf(
		"%s/%s/%s/archive/refs/heads/%s.zip",
		f.baseURL, req.Repo.Owner, req.Repo.Name, req.Branch,
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, archiveURL, nil)
	if err != nil {
		return nil, domain.NewNetworkError("failed to build archive request", 0, err)
	}

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, domain.NewNetworkError("failed to fetch archive", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp, req.Repo)
	}

	return readBody(resp.Body, resp.ContentLength, onProgress)
}
