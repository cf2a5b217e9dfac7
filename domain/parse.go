package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// repoPathRegex matches "/owner/repo" with an optional ".git" suffix and an
// optional trailing slash. Owner and repo are restricted to word characters,
// dots, and hyphens.
var repoPathRegex = regexp.MustCompile(`^/([\w.-]+)/([\w.-]+?)(?:\.git)?/?$`)

// ParseRepositoryURL resolves a repository URL into a Repository identity.
// Only "https://github.com/<owner>/<repo>" shapes are accepted (a trailing
// slash and a ".git" suffix are tolerated and stripped). The check is purely
// syntactic; no network access happens here. Any other shape fails with a
// validation error.
func ParseRepositoryURL(raw string) (Repository, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Repository{}, NewValidationError("repository URL is empty")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return Repository{}, NewValidationError(fmt.Sprintf("invalid repository URL: %s", trimmed))
	}

	if parsed.Scheme != "https" {
		return Repository{}, NewValidationError(
			fmt.Sprintf("unsupported URL scheme %q: expected https", parsed.Scheme),
		)
	}

	host := strings.ToLower(parsed.Host)
	if host != "github.com" && host != "www.github.com" {
		return Repository{}, NewValidationError(
			fmt.Sprintf("unsupported host %q: expected github.com", parsed.Host),
		)
	}

	match := repoPathRegex.FindStringSubmatch(parsed.Path)
	if match == nil {
		return Repository{}, NewValidationError(
			fmt.Sprintf("invalid repository URL %q: expected https://github.com/<owner>/<repo>", trimmed),
		)
	}

	return Repository{Owner: match[1], Name: match[2]}, nil
}
