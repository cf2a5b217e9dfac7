package domain

import "fmt"

// Repository identifies a repository on the hosting service by its owner and name.
// It is derived once from a validated URL and never mutated afterwards.
type Repository struct {
	Owner string
	Name  string
}

// String returns the canonical "owner/name" form.
func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

// Branch describes a single branch as reported by the hosting service.
// The listing is a snapshot; it is not kept in sync with the remote.
type Branch struct {
	Name      string
	CommitSHA string
}

// Request fully determines one archive retrieval. It is built immediately
// before the retrieval starts, so live edits to the user's input cannot race
// with an in-flight download.
type Request struct {
	Repo   Repository
	Branch string
	Token  string // Empty for public repositories; never logged
}

// Progress reports the state of an in-flight retrieval after each chunk.
// BytesReceived is monotonically non-decreasing within one retrieval.
// When the remote does not declare a total length, Indeterminate is true and
// Percent is meaningless; BytesReceived still advances.
type Progress struct {
	BytesReceived int64
	TotalBytes    int64
	Percent       int
	Indeterminate bool
}

// ProgressFunc receives progress updates. Callbacks are invoked synchronously
// from the read loop, once per chunk, never concurrently with each other.
type ProgressFunc func(Progress)

// Outcome is the terminal result of one download attempt.
type Outcome struct {
	Success     bool
	Filename    string
	ByteCount   int64
	FailureKind ErrorKind
	Message     string
}

// SuccessOutcome builds the terminal value for a completed download.
func SuccessOutcome(filename string, byteCount int64) Outcome {
	return Outcome{
		Success:   true,
		Filename:  filename,
		ByteCount: byteCount,
		Message:   fmt.Sprintf("downloaded %s (%d bytes)", filename, byteCount),
	}
}

// FailureOutcome maps any pipeline error to a terminal failure value.
func FailureOutcome(err error) Outcome {
	return Outcome{
		FailureKind: KindOf(err),
		Message:     err.Error(),
	}
}

// ArchiveFilename returns the suggested name for a branch archive,
// e.g. "Hello-World-master.zip".
func ArchiveFilename(repo Repository, branch string) string {
	return fmt.Sprintf("%s-%s.zip", repo.Name, branch)
}
