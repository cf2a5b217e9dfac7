// Package application hosts the pipeline controller: the small state machine
// that sequences URL resolution, branch discovery, archive retrieval, and
// materialization, and projects its state for a presentation layer.
package application

import (
	"context"
	"sync"

	logger "github.com/sirupsen/logrus"

	"github.com/repozip/repozip/domain"
)

// Phase is the controller's position in the download lifecycle.
type Phase string

const (
	PhaseIdle              Phase = "idle"
	PhaseValidating        Phase = "validating"
	PhaseResolvingBranches Phase = "resolving_branches"
	PhaseReadyToDownload   Phase = "ready_to_download"
	PhaseDownloading       Phase = "downloading"
	PhaseCompleted         Phase = "completed"
	PhaseFailed            Phase = "failed"
)

// Snapshot is the read-only projection handed to the presentation layer after
// every transition.
type Snapshot struct {
	Phase           Phase
	Repo            domain.Repository
	Branches        []domain.Branch
	SelectedBranch  string
	ProgressPercent int
	ErrorMessage    string
	SuccessMessage  string
}

// Controller sequences the pipeline for one user session. All entities are
// created fresh per download attempt; nothing is cached across attempts.
type Controller struct {
	lister  domain.BranchLister
	fetcher domain.ArchiveFetcher
	saver   domain.Materializer

	mu          sync.Mutex
	phase       Phase
	repo        domain.Repository
	hasRepo     bool
	branches    []domain.Branch
	selected    string
	credential  string
	private     bool
	downloading bool
	percent     int
	errMessage  string
	okMessage   string
	observer    domain.ProgressFunc
}

// NewController wires the pipeline components together.
func NewController(
	lister domain.BranchLister,
	fetcher domain.ArchiveFetcher,
	saver domain.Materializer,
) *Controller {
	return &Controller{
		lister:  lister,
		fetcher: fetcher,
		saver:   saver,
		phase:   PhaseIdle,
	}
}

// SetProgressObserver registers a callback forwarded every progress report.
// Must be set before StartDownload.
func (c *Controller) SetProgressObserver(fn domain.ProgressFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observer = fn
}

// SetCredential stores the access token for this session. It is read by the
// branch resolver and the retrieval engine, never persisted, never logged.
func (c *Controller) SetCredential(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.credential = token
}

// SetPrivate marks the repository as private, which makes a non-empty
// credential mandatory for downloads.
func (c *Controller) SetPrivate(private bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.private = private
}

// SelectBranch overrides the default branch selection.
func (c *Controller) SelectBranch(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = name
}

// SetRepositoryURL reacts to a change of the repository URL input. A valid URL
// triggers branch resolution; an invalid or empty one quietly returns to idle
// with no branches and no surfaced error — the validation failure only
// surfaces on an explicit download attempt.
func (c *Controller) SetRepositoryURL(ctx context.Context, rawURL string) {
	c.mu.Lock()
	c.phase = PhaseValidating
	c.hasRepo = false
	c.branches = nil
	c.selected = ""
	c.errMessage = ""
	c.okMessage = ""
	c.percent = 0

	repo, err := domain.ParseRepositoryURL(rawURL)
	if err != nil {
		c.phase = PhaseIdle
		c.mu.Unlock()
		return
	}

	c.repo = repo
	c.hasRepo = true
	c.phase = PhaseResolvingBranches
	token := c.credential
	c.mu.Unlock()

	branches, err := c.lister.ListBranches(ctx, repo, token)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		logger.Debugf("Branch resolution for %s failed: %v", repo, err)
		c.phase = PhaseFailed
		c.errMessage = err.Error()
		return
	}

	c.branches = branches
	if selected, ok := domain.DefaultBranch(branches); ok {
		c.selected = selected
	}
	c.phase = PhaseReadyToDownload
}

// Snapshot returns the current projection of controller state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	branches := make([]domain.Branch, len(c.branches))
	copy(branches, c.branches)
	return Snapshot{
		Phase:           c.phase,
		Repo:            c.repo,
		Branches:        branches,
		SelectedBranch:  c.selected,
		ProgressPercent: c.percent,
		ErrorMessage:    c.errMessage,
		SuccessMessage:  c.okMessage,
	}
}

// StartDownload runs the retrieval pipeline for the current session state.
// Local validation failures short-circuit before any network call. While a
// download is in flight, further calls are no-ops returning a zero Outcome.
// The second return reports whether the attempt actually started.
func (c *Controller) StartDownload(ctx context.Context) (domain.Outcome, bool) {
	c.mu.Lock()
	if c.downloading {
		c.mu.Unlock()
		return domain.Outcome{}, false
	}

	if err := c.validateLocked(); err != nil {
		c.phase = PhaseFailed
		c.errMessage = err.Error()
		c.mu.Unlock()
		return domain.FailureOutcome(err), true
	}

	// Snapshot the session state into an immutable request so live edits
	// cannot race with the retrieval.
	request := domain.Request{
		Repo:   c.repo,
		Branch: c.selected,
		Token:  c.credential,
	}
	c.downloading = true
	c.phase = PhaseDownloading
	c.percent = 0
	c.errMessage = ""
	c.okMessage = ""
	c.mu.Unlock()

	outcome := c.run(ctx, request)

	c.mu.Lock()
	c.downloading = false
	if outcome.Success {
		c.phase = PhaseCompleted
		c.okMessage = outcome.Message
	} else {
		c.phase = PhaseFailed
		c.errMessage = outcome.Message
	}
	c.mu.Unlock()

	return outcome, true
}

func (c *Controller) validateLocked() error {
	if !c.hasRepo {
		return domain.NewValidationError("repository URL is missing or invalid")
	}
	if c.selected == "" {
		return domain.NewValidationError("no branch is selected")
	}
	if c.private && c.credential == "" {
		return domain.NewValidationError("a credential is required for a private repository")
	}
	return nil
}

func (c *Controller) run(ctx context.Context, request domain.Request) domain.Outcome {
	data, err := c.fetcher.Fetch(ctx, request, c.handleProgress)
	if err != nil {
		return domain.FailureOutcome(err)
	}

	filename := domain.ArchiveFilename(request.Repo, request.Branch)
	c.saver.Save(data, filename)

	return domain.SuccessOutcome(filename, int64(len(data)))
}

// handleProgress runs synchronously inside the retrieval read loop. The
// external observer is invoked outside the lock so it may call back into the
// controller.
func (c *Controller) handleProgress(p domain.Progress) {
	c.mu.Lock()
	if !p.Indeterminate {
		c.percent = p.Percent
	}
	observer := c.observer
	c.mu.Unlock()

	if observer != nil {
		observer(p)
	}
}
