package domain

import "context"

// BranchLister obtains the snapshot of branches for a repository.
// The token is attached as a bearer credential when non-empty.
type BranchLister interface {
	ListBranches(ctx context.Context, repo Repository, token string) ([]Branch, error)
}

// ArchiveFetcher retrieves a branch archive as one contiguous byte buffer,
// reporting progress as bytes arrive. Implementations differ in how they reach
// the archive (direct per-branch URL vs. authenticated API redirect) but share
// the same contract and error taxonomy.
type ArchiveFetcher interface {
	// Name returns the strategy identifier (e.g. "direct", "api").
	Name() string

	// Fetch downloads the archive described by the request. onProgress may be
	// nil; when set it is called synchronously after each received chunk.
	Fetch(ctx context.Context, req Request, onProgress ProgressFunc) ([]byte, error)
}

// Materializer hands a completed byte buffer to the host environment for
// persistence under the suggested filename. Saving is best-effort and
// fire-and-forget: the host's acceptance is not observable, so no error is
// returned.
type Materializer interface {
	Save(data []byte, filename string)
}

// RepositoryProber checks repository metadata ahead of a download, so the
// presentation layer can require a credential for private repositories.
type RepositoryProber interface {
	IsPrivate(ctx context.Context, repo Repository, token string) (bool, error)
}
