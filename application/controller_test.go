package application_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repozip/repozip/application"
	"github.com/repozip/repozip/domain"
	testdoubles "github.com/repozip/repozip/test"
)

func newController(
	lister *testdoubles.SpyBranchLister,
	fetcher *testdoubles.SpyArchiveFetcher,
	saver *testdoubles.SpySaver,
) *application.Controller {
	return application.NewController(lister, fetcher, saver)
}

func TestSetRepositoryURL(t *testing.T) {
	t.Parallel()

	t.Run("should resolve branches and preselect the default", func(t *testing.T) {
		t.Parallel()

		// given
		lister := &testdoubles.SpyBranchLister{
			Branches: []domain.Branch{
				{Name: "dev", CommitSHA: "c1"},
				{Name: "master", CommitSHA: "c2"},
				{Name: "main", CommitSHA: "c3"},
			},
		}
		ctrl := newController(lister, &testdoubles.SpyArchiveFetcher{}, &testdoubles.SpySaver{})

		// when
		ctrl.SetRepositoryURL(t.Context(), "https://github.com/acme/widgets")

		// then
		snap := ctrl.Snapshot()
		assert.Equal(t, application.PhaseReadyToDownload, snap.Phase)
		assert.Equal(t, domain.Repository{Owner: "acme", Name: "widgets"}, snap.Repo)
		assert.Len(t, snap.Branches, 3)
		assert.Equal(t, "main", snap.SelectedBranch)
		assert.Empty(t, snap.ErrorMessage)
		assert.Equal(t, 1, lister.Calls)
	})

	t.Run("should return to idle silently on an invalid URL", func(t *testing.T) {
		t.Parallel()

		// given
		lister := &testdoubles.SpyBranchLister{}
		ctrl := newController(lister, &testdoubles.SpyArchiveFetcher{}, &testdoubles.SpySaver{})

		// when
		ctrl.SetRepositoryURL(t.Context(), "not-a-repository-url")

		// then
		snap := ctrl.Snapshot()
		assert.Equal(t, application.PhaseIdle, snap.Phase)
		assert.Empty(t, snap.Branches)
		assert.Empty(t, snap.ErrorMessage, "live-typing validation must not surface errors")
		assert.Equal(t, 0, lister.Calls)
	})

	t.Run("should surface a failed branch listing but stay interactable", func(t *testing.T) {
		t.Parallel()

		// given
		lister := &testdoubles.SpyBranchLister{
			Err: domain.NewNotFoundError("repository acme/widgets not found or not accessible", 404),
		}
		ctrl := newController(lister, &testdoubles.SpyArchiveFetcher{}, &testdoubles.SpySaver{})

		// when
		ctrl.SetRepositoryURL(t.Context(), "https://github.com/acme/widgets")

		// then
		snap := ctrl.Snapshot()
		assert.Equal(t, application.PhaseFailed, snap.Phase)
		assert.Empty(t, snap.Branches)
		assert.Contains(t, snap.ErrorMessage, "not found")

		// and a corrected URL retries the resolution
		lister.Err = nil
		lister.Branches = []domain.Branch{{Name: "main"}}
		ctrl.SetRepositoryURL(t.Context(), "https://github.com/acme/gadgets")
		assert.Equal(t, application.PhaseReadyToDownload, ctrl.Snapshot().Phase)
	})

	t.Run("should treat zero branches as ready with no selection", func(t *testing.T) {
		t.Parallel()

		// given
		lister := &testdoubles.SpyBranchLister{Branches: nil}
		ctrl := newController(lister, &testdoubles.SpyArchiveFetcher{}, &testdoubles.SpySaver{})

		// when
		ctrl.SetRepositoryURL(t.Context(), "https://github.com/acme/empty")

		// then
		snap := ctrl.Snapshot()
		assert.Equal(t, application.PhaseReadyToDownload, snap.Phase)
		assert.Empty(t, snap.Branches)
		assert.Empty(t, snap.SelectedBranch)
	})

	t.Run("should pass the session credential to the lister", func(t *testing.T) {
		t.Parallel()

		// given
		lister := &testdoubles.SpyBranchLister{Branches: []domain.Branch{{Name: "main"}}}
		ctrl := newController(lister, &testdoubles.SpyArchiveFetcher{}, &testdoubles.SpySaver{})
		ctrl.SetCredential("ghp_secret")

		// when
		ctrl.SetRepositoryURL(t.Context(), "https://github.com/acme/widgets")

		// then
		require.Len(t, lister.Tokens, 1)
		assert.Equal(t, "ghp_secret", lister.Tokens[0])
	})
}

func TestStartDownload(t *testing.T) {
	t.Parallel()

	t.Run("should complete the pipeline and materialize the archive", func(t *testing.T) {
		t.Parallel()

		// given
		payload := bytes.Repeat([]byte("z"), 1024)
		lister := &testdoubles.SpyBranchLister{Branches: []domain.Branch{{Name: "master"}}}
		fetcher := &testdoubles.SpyArchiveFetcher{
			Data:       payload,
			ChunkSizes: []int{256, 256, 256, 256},
			TotalBytes: 1024,
		}
		saver := &testdoubles.SpySaver{}
		ctrl := newController(lister, fetcher, saver)
		ctrl.SetRepositoryURL(t.Context(), "https://github.com/octocat/Hello-World")

		var percents []int
		ctrl.SetProgressObserver(func(p domain.Progress) {
			percents = append(percents, p.Percent)
		})

		// when
		outcome, started := ctrl.StartDownload(t.Context())

		// then
		assert.True(t, started)
		assert.True(t, outcome.Success)
		assert.Equal(t, "Hello-World-master.zip", outcome.Filename)
		assert.Equal(t, int64(1024), outcome.ByteCount)
		assert.Equal(t, []int{25, 50, 75, 100}, percents)

		assert.Equal(t, 1, saver.Calls)
		assert.Equal(t, []string{"Hello-World-master.zip"}, saver.Filenames)
		assert.Equal(t, payload, saver.Saved[0])

		snap := ctrl.Snapshot()
		assert.Equal(t, application.PhaseCompleted, snap.Phase)
		assert.Equal(t, 100, snap.ProgressPercent)
		assert.Contains(t, snap.SuccessMessage, "Hello-World-master.zip")
	})

	t.Run("should build the request from the session snapshot", func(t *testing.T) {
		t.Parallel()

		// given
		lister := &testdoubles.SpyBranchLister{
			Branches: []domain.Branch{{Name: "main"}, {Name: "release"}},
		}
		fetcher := &testdoubles.SpyArchiveFetcher{Data: []byte("ok")}
		ctrl := newController(lister, fetcher, &testdoubles.SpySaver{})
		ctrl.SetRepositoryURL(t.Context(), "https://github.com/acme/widgets")
		ctrl.SetCredential("ghp_secret")
		ctrl.SelectBranch("release")

		// when
		_, started := ctrl.StartDownload(t.Context())

		// then
		assert.True(t, started)
		require.Len(t, fetcher.Requests, 1)
		assert.Equal(t, domain.Request{
			Repo:   domain.Repository{Owner: "acme", Name: "widgets"},
			Branch: "release",
			Token:  "ghp_secret",
		}, fetcher.Requests[0])
	})

	t.Run("should fail a private download without credential before any network call", func(t *testing.T) {
		t.Parallel()

		// given
		lister := &testdoubles.SpyBranchLister{Branches: []domain.Branch{{Name: "main"}}}
		fetcher := &testdoubles.SpyArchiveFetcher{}
		ctrl := newController(lister, fetcher, &testdoubles.SpySaver{})
		ctrl.SetRepositoryURL(t.Context(), "https://github.com/acme/widgets")
		ctrl.SetPrivate(true)
		listerCallsBefore := lister.Calls

		// when
		outcome, started := ctrl.StartDownload(t.Context())

		// then
		assert.True(t, started)
		assert.False(t, outcome.Success)
		assert.Equal(t, domain.KindValidation, outcome.FailureKind)
		assert.Equal(t, 0, fetcher.Calls)
		assert.Equal(t, listerCallsBefore, lister.Calls)
		assert.Equal(t, application.PhaseFailed, ctrl.Snapshot().Phase)
	})

	t.Run("should fail without a branch selection", func(t *testing.T) {
		t.Parallel()

		// given
		lister := &testdoubles.SpyBranchLister{Branches: nil}
		fetcher := &testdoubles.SpyArchiveFetcher{}
		ctrl := newController(lister, fetcher, &testdoubles.SpySaver{})
		ctrl.SetRepositoryURL(t.Context(), "https://github.com/acme/empty")

		// when
		outcome, started := ctrl.StartDownload(t.Context())

		// then
		assert.True(t, started)
		assert.Equal(t, domain.KindValidation, outcome.FailureKind)
		assert.Equal(t, 0, fetcher.Calls)
	})

	t.Run("should fail without a resolved repository", func(t *testing.T) {
		t.Parallel()

		// given
		lister := &testdoubles.SpyBranchLister{}
		fetcher := &testdoubles.SpyArchiveFetcher{}
		ctrl := newController(lister, fetcher, &testdoubles.SpySaver{})
		ctrl.SetRepositoryURL(t.Context(), "totally invalid")

		// when
		outcome, started := ctrl.StartDownload(t.Context())

		// then
		assert.True(t, started)
		assert.Equal(t, domain.KindValidation, outcome.FailureKind)
		assert.Contains(t, outcome.Message, "repository URL")
		assert.Equal(t, 0, fetcher.Calls)
	})

	t.Run("should map retrieval failures and stay interactable", func(t *testing.T) {
		t.Parallel()

		// given
		lister := &testdoubles.SpyBranchLister{Branches: []domain.Branch{{Name: "main"}}}
		fetcher := &testdoubles.SpyArchiveFetcher{
			Err: domain.NewRedirectError("redirect response 302 carried no location header", 302),
		}
		saver := &testdoubles.SpySaver{}
		ctrl := newController(lister, fetcher, saver)
		ctrl.SetRepositoryURL(t.Context(), "https://github.com/acme/widgets")

		// when
		outcome, started := ctrl.StartDownload(t.Context())

		// then
		assert.True(t, started)
		assert.False(t, outcome.Success)
		assert.Equal(t, domain.KindRedirect, outcome.FailureKind)
		assert.Equal(t, 0, saver.Calls)
		assert.Equal(t, application.PhaseFailed, ctrl.Snapshot().Phase)

		// and the failed attempt does not block a retry
		fetcher.Err = nil
		fetcher.Data = []byte("ok")
		outcome, started = ctrl.StartDownload(t.Context())
		assert.True(t, started)
		assert.True(t, outcome.Success)
	})

	t.Run("should ignore a repeated download action while one is in flight", func(t *testing.T) {
		t.Parallel()

		// given
		lister := &testdoubles.SpyBranchLister{Branches: []domain.Branch{{Name: "main"}}}
		fetcher := &testdoubles.SpyArchiveFetcher{Data: []byte("ok")}
		ctrl := newController(lister, fetcher, &testdoubles.SpySaver{})
		ctrl.SetRepositoryURL(t.Context(), "https://github.com/acme/widgets")

		var nestedStarted bool
		fetcher.OnFetch = func() {
			// Re-entrant attempt from within the active retrieval.
			_, nestedStarted = ctrl.StartDownload(t.Context())
		}

		// when
		_, started := ctrl.StartDownload(t.Context())

		// then
		assert.True(t, started)
		assert.False(t, nestedStarted)
		assert.Equal(t, 1, fetcher.Calls)
	})

	t.Run("should reset progress at the start of each attempt", func(t *testing.T) {
		t.Parallel()

		// given
		lister := &testdoubles.SpyBranchLister{Branches: []domain.Branch{{Name: "main"}}}
		fetcher := &testdoubles.SpyArchiveFetcher{
			Data:       []byte("ok"),
			ChunkSizes: []int{2},
			TotalBytes: 2,
		}
		ctrl := newController(lister, fetcher, &testdoubles.SpySaver{})
		ctrl.SetRepositoryURL(t.Context(), "https://github.com/acme/widgets")
		_, _ = ctrl.StartDownload(t.Context())
		require.Equal(t, 100, ctrl.Snapshot().ProgressPercent)

		// when a new attempt starts and fails validation-free at the fetch
		fetcher.ChunkSizes = nil
		fetcher.Err = domain.NewStreamError("stream interrupted", nil)
		_, _ = ctrl.StartDownload(t.Context())

		// then
		assert.Equal(t, 0, ctrl.Snapshot().ProgressPercent)
	})
}
