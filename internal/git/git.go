// Package git wraps the git commands the release flow needs.
package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/kingrea/iconforge/internal/shell"
)

const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
	logFormat = "--format=%H%x1f%s%x1f%b%x1e"
)

// Commit is one entry of the commit log.
type Commit struct {
	Hash    string
	Subject string
	Body    string
}

// Client runs git in a repository. Reads always execute; writes go through a
// separate runner so dry runs can swap them out.
type Client struct {
	dir   string
	read  shell.Runner
	write shell.Runner
}

// New returns a client for dir. write defaults to read when nil.
func New(dir string, read, write shell.Runner) *Client {
	if write == nil {
		write = read
	}
	return &Client{dir: dir, read: read, write: write}
}

func (c *Client) git(ctx context.Context, args ...string) (string, error) {
	out, err := c.read.Run(ctx, c.dir, "git", args...)
	if err != nil {
		return "", fmt.Errorf("git: %w", err)
	}
	return out, nil
}

func (c *Client) mutate(ctx context.Context, args ...string) error {
	if _, err := c.write.Run(ctx, c.dir, "git", args...); err != nil {
		return fmt.Errorf("git: %w", err)
	}
	return nil
}

// CurrentBranch returns the checked-out branch name.
func (c *Client) CurrentBranch(ctx context.Context) (string, error) {
	return c.git(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// Head returns the commit hash of HEAD.
func (c *Client) Head(ctx context.Context) (string, error) {
	return c.git(ctx, "rev-parse", "HEAD")
}

// RemoteHead returns the hash a remote branch points at.
func (c *Client) RemoteHead(ctx context.Context, remote, branch string) (string, error) {
	out, err := c.git(ctx, "ls-remote", remote, "refs/heads/"+branch)
	if err != nil {
		return "", err
	}
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return "", fmt.Errorf("git: %s has no branch %s", remote, branch)
	}
	return fields[0], nil
}

// RemoteURL returns the fetch URL of a remote.
func (c *Client) RemoteURL(ctx context.Context, remote string) (string, error) {
	return c.git(ctx, "remote", "get-url", remote)
}

// LastTag returns the highest v-prefixed tag, or "" when there is none.
func (c *Client) LastTag(ctx context.Context) (string, error) {
	out, err := c.git(ctx, "tag", "--list", "v*", "--sort=-v:refname")
	if err != nil {
		return "", err
	}
	first, _, _ := strings.Cut(out, "\n")
	return strings.TrimSpace(first), nil
}

// Log returns commits reachable from HEAD but not from since. An empty since
// lists the whole history.
func (c *Client) Log(ctx context.Context, since string) ([]Commit, error) {
	args := []string{"log", logFormat}
	if since != "" {
		args = append(args, since+"..HEAD")
	}
	out, err := c.git(ctx, args...)
	if err != nil {
		return nil, err
	}
	return parseLog(out), nil
}

func parseLog(out string) []Commit {
	var commits []Commit
	for _, record := range strings.Split(out, recordSep) {
		record = strings.TrimLeft(record, "\r\n")
		if strings.TrimSpace(record) == "" {
			continue
		}
		fields := strings.SplitN(record, fieldSep, 3)
		commit := Commit{Hash: strings.TrimSpace(fields[0])}
		if len(fields) > 1 {
			commit.Subject = strings.TrimSpace(fields[1])
		}
		if len(fields) > 2 {
			commit.Body = strings.TrimSpace(fields[2])
		}
		commits = append(commits, commit)
	}
	return commits
}

// IsDirty reports whether the working tree has uncommitted changes.
func (c *Client) IsDirty(ctx context.Context) (bool, error) {
	out, err := c.git(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// CommitAll stages every change and commits it.
func (c *Client) CommitAll(ctx context.Context, message string) error {
	if err := c.mutate(ctx, "add", "--all"); err != nil {
		return err
	}
	return c.mutate(ctx, "commit", "--message", message)
}

// Tag creates an annotated tag at HEAD.
func (c *Client) Tag(ctx context.Context, name, message string) error {
	return c.mutate(ctx, "tag", "--annotate", name, "--message", message)
}

// Push pushes refs to remote.
func (c *Client) Push(ctx context.Context, remote string, refs ...string) error {
	return c.mutate(ctx, append([]string{"push", remote}, refs...)...)
}
