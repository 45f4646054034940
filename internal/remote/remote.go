// Package remote talks to the GitHub repository that hosts releases.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/kingrea/iconforge/internal/config"
)

// Release is the remote release entry for a tag.
type Release struct {
	Tag        string
	Name       string
	Body       string
	Prerelease bool
}

// Client wraps the GitHub API for one repository.
type Client struct {
	api   *github.Client
	owner string
	repo  string
}

// Option customizes a Client.
type Option func(*Client) error

// WithBaseURL points the client at another API root (tests, GitHub Enterprise).
func WithBaseURL(raw string) Option {
	return func(c *Client) error {
		if !strings.HasSuffix(raw, "/") {
			raw += "/"
		}
		base, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("remote: base url: %w", err)
		}
		c.api.BaseURL = base
		return nil
	}
}

// WithHTTPClient overrides the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		base := c.api.BaseURL
		c.api = github.NewClient(hc)
		c.api.BaseURL = base
		return nil
	}
}

// New returns a client for repository ("owner/name"). token may be empty for
// read-only access to public repositories.
func New(repository, token string, opts ...Option) (*Client, error) {
	owner, repo, ok := config.SplitRepository(repository)
	if !ok {
		return nil, fmt.Errorf("remote: repository %q must be owner/name", repository)
	}
	client := &Client{api: github.NewClient(nil), owner: owner, repo: repo}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(client); err != nil {
			return nil, err
		}
	}
	if token != "" {
		client.api = client.api.WithAuthToken(token)
	}
	return client, nil
}

// Repository returns "owner/name".
func (c *Client) Repository() string {
	return c.owner + "/" + c.repo
}

// BranchHead returns the SHA the branch currently points at.
func (c *Client) BranchHead(ctx context.Context, branch string) (string, error) {
	sha, _, err := c.api.Repositories.GetCommitSHA1(ctx, c.owner, c.repo, branch, "")
	if err != nil {
		return "", fmt.Errorf("remote: head of %s: %w", branch, err)
	}
	return strings.TrimSpace(sha), nil
}

// CreateRelease publishes a release and returns its page URL.
func (c *Client) CreateRelease(ctx context.Context, r Release) (string, error) {
	created, _, err := c.api.Repositories.CreateRelease(ctx, c.owner, c.repo, &github.RepositoryRelease{
		TagName:    github.String(r.Tag),
		Name:       github.String(r.Name),
		Body:       github.String(r.Body),
		Prerelease: github.Bool(r.Prerelease),
	})
	if err != nil {
		return "", fmt.Errorf("remote: create release %s: %w", r.Tag, err)
	}
	return created.GetHTMLURL(), nil
}

// NewReleaseURL builds the pre-filled release form used when no token is
// available.
func NewReleaseURL(repository string, r Release) string {
	query := url.Values{}
	query.Set("tag", r.Tag)
	query.Set("title", r.Name)
	query.Set("body", r.Body)
	if r.Prerelease {
		query.Set("prerelease", "1")
	}
	return fmt.Sprintf("https://github.com/%s/releases/new?%s", repository, query.Encode())
}

// ParseRepository extracts "owner/name" from a GitHub remote URL in scp, ssh
// or https form.
func ParseRepository(remoteURL string) (string, error) {
	raw := strings.TrimSpace(remoteURL)
	var path string
	switch {
	case strings.Contains(raw, "://"):
		parsed, err := url.Parse(raw)
		if err != nil {
			return "", fmt.Errorf("remote: parse %q: %w", remoteURL, err)
		}
		if parsed.Hostname() != "github.com" {
			return "", fmt.Errorf("remote: %q is not a github.com remote", remoteURL)
		}
		path = parsed.Path
	case strings.HasPrefix(raw, "git@github.com:"):
		path = strings.TrimPrefix(raw, "git@github.com:")
	default:
		return "", fmt.Errorf("remote: %q is not a github.com remote", remoteURL)
	}
	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	owner, repo, ok := config.SplitRepository(path)
	if !ok {
		return "", fmt.Errorf("remote: %q does not name owner/repository", remoteURL)
	}
	return owner + "/" + repo, nil
}
