// Package shell runs external commands and opens URLs for the release flow.
// Runners are interchangeable so dry runs and tests can observe commands
// without executing them.
package shell

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/pkg/browser"

	"github.com/kingrea/iconforge/internal/logbook"
)

// Runner executes name with args inside dir and returns its trimmed stdout.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

// CommandError reports a command that exited unsuccessfully along with what it
// printed.
type CommandError struct {
	Command string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("shell: %s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("shell: %s: %v: %s", e.Command, e.Err, e.Output)
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		output := strings.TrimSpace(stderr.String())
		if output == "" {
			output = strings.TrimSpace(stdout.String())
		}
		return "", &CommandError{Command: Format(name, args...), Output: output, Err: err}
	}
	return strings.TrimSpace(stdout.String()), nil
}

// DryRunner logs commands instead of running them.
type DryRunner struct {
	Log *logbook.Logbook
}

// Run implements Runner. It never fails.
func (d DryRunner) Run(_ context.Context, dir, name string, args ...string) (string, error) {
	d.Log.Info("[dry run] %s", Format(name, args...))
	return "", nil
}

// Open implements Browser by logging the URL.
func (d DryRunner) Open(_ context.Context, url string) error {
	d.Log.Info("[dry run] open %s", url)
	return nil
}

// Format renders a command line for logs, quoting arguments with spaces.
func Format(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, arg := range args {
		if arg == "" || strings.ContainsAny(arg, " \t\"'") {
			arg = fmt.Sprintf("%q", arg)
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

// Browser opens a URL for the user.
type Browser interface {
	Open(ctx context.Context, url string) error
}

// SystemBrowser opens URLs in the desktop's default browser.
type SystemBrowser struct{}

// Open implements Browser.
func (SystemBrowser) Open(ctx context.Context, url string) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := browser.OpenURL(url); err != nil {
		return fmt.Errorf("shell: open %s: %w", url, err)
	}
	return nil
}
