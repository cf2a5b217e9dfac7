// Package testdoubles provides test doubles (spies, stubs, dummies) for domain
// interfaces. These are hand-crafted implementations — no mock frameworks.
package testdoubles

import (
	"context"

	"github.com/repozip/repozip/domain"
)

// ---------------------------------------------------------------------------
// SpyBranchLister
// ---------------------------------------------------------------------------

// SpyBranchLister implements domain.BranchLister as a configurable spy.
// Configure the response fields, then inspect the call-tracking fields to
// verify behavior — Calls doubles as the network-call counter for the
// branch-listing endpoint.
type SpyBranchLister struct {
	Branches []domain.Branch
	Err      error

	// spy: calls received
	Calls  int
	Repos  []domain.Repository
	Tokens []string
}

var _ domain.BranchLister = (*SpyBranchLister)(nil)

func (s *SpyBranchLister) ListBranches(
	_ context.Context,
	repo domain.Repository,
	token string,
) ([]domain.Branch, error) {
	s.Calls++
	s.Repos = append(s.Repos, repo)
	s.Tokens = append(s.Tokens, token)
	return s.Branches, s.Err
}

// ---------------------------------------------------------------------------
// SpyArchiveFetcher
// ---------------------------------------------------------------------------

// SpyArchiveFetcher implements domain.ArchiveFetcher as a configurable spy.
// When ChunkSizes is set, a progress report is emitted per chunk against
// TotalBytes before Data/Err is returned, mimicking the streaming read loop.
type SpyArchiveFetcher struct {
	StrategyName string
	Data         []byte
	Err          error
	ChunkSizes   []int
	TotalBytes   int64

	// spy: calls received
	Calls    int
	Requests []domain.Request

	// OnFetch, when set, runs at the start of every Fetch. Used to exercise
	// re-entrancy while a download is in flight.
	OnFetch func()
}

var _ domain.ArchiveFetcher = (*SpyArchiveFetcher)(nil)

func (s *SpyArchiveFetcher) Name() string {
	if s.StrategyName == "" {
		return "spy"
	}
	return s.StrategyName
}

func (s *SpyArchiveFetcher) Fetch(
	_ context.Context,
	req domain.Request,
	onProgress domain.ProgressFunc,
) ([]byte, error) {
	s.Calls++
	s.Requests = append(s.Requests, req)
	if s.OnFetch != nil {
		s.OnFetch()
	}

	if onProgress != nil {
		var received int64
		for _, size := range s.ChunkSizes {
			received += int64(size)
			p := domain.Progress{BytesReceived: received, TotalBytes: s.TotalBytes}
			if s.TotalBytes > 0 {
				p.Percent = int(float64(received)/float64(s.TotalBytes)*100 + 0.5)
			} else {
				p.Indeterminate = true
			}
			onProgress(p)
		}
	}

	return s.Data, s.Err
}

// ---------------------------------------------------------------------------
// SpySaver
// ---------------------------------------------------------------------------

// SpySaver implements domain.Materializer, recording every save.
type SpySaver struct {
	Calls     int
	Filenames []string
	Saved     [][]byte
}

var _ domain.Materializer = (*SpySaver)(nil)

func (s *SpySaver) Save(data []byte, filename string) {
	s.Calls++
	s.Filenames = append(s.Filenames, filename)
	s.Saved = append(s.Saved, data)
}

// ---------------------------------------------------------------------------
// StubProber
// ---------------------------------------------------------------------------

// StubProber implements domain.RepositoryProber with a fixed answer.
type StubProber struct {
	Private bool
	Err     error

	Calls int
}

var _ domain.RepositoryProber = (*StubProber)(nil)

func (s *StubProber) IsPrivate(
	_ context.Context,
	_ domain.Repository,
	_ string,
) (bool, error) {
	s.Calls++
	return s.Private, s.Err
}
