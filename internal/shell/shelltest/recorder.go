// Package shelltest provides a command recorder for tests of code that
// drives shell.Runner and shell.Browser.
package shelltest

import (
	"context"

	"github.com/kingrea/iconforge/internal/shell"
)

// Recorder captures commands and replies from a canned table, keyed by the
// shell.Format line. Unknown commands succeed with empty output.
type Recorder struct {
	Replies  map[string]string
	Failures map[string]error
	Calls    []string
}

// Run implements shell.Runner.
func (r *Recorder) Run(_ context.Context, dir, name string, args ...string) (string, error) {
	line := shell.Format(name, args...)
	r.Calls = append(r.Calls, line)
	if err, ok := r.Failures[line]; ok {
		return "", &shell.CommandError{Command: line, Output: err.Error(), Err: err}
	}
	return r.Replies[line], nil
}

// Open implements shell.Browser, recording "open <url>".
func (r *Recorder) Open(ctx context.Context, url string) error {
	_, err := r.Run(ctx, "", "open", url)
	return err
}
