// Package cli wires the build-icons and release commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kingrea/iconforge/internal/config"
	"github.com/kingrea/iconforge/internal/logbook"
)

// Process exit codes.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// loggedError marks an error already written to the logbook so it is not
// printed twice.
type loggedError struct {
	err error
}

func (e loggedError) Error() string { return e.err.Error() }
func (e loggedError) Unwrap() error { return e.err }

// projectFlags are shared by both commands.
type projectFlags struct {
	dir        string
	configPath string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.dir, "dir", "", "project root (defaults to the working directory)")
	cmd.Flags().StringVar(&f.configPath, "config", "", "config file (defaults to <dir>/"+config.FileName+")")
}

func (f *projectFlags) load() (*config.Config, error) {
	dir := f.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("cli: working directory: %w", err)
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cli: resolve %s: %w", dir, err)
	}
	return config.Load(abs, f.configPath)
}

func openLog(cfg *config.Config, tool string, console io.Writer) (*logbook.Logbook, error) {
	return logbook.New(filepath.Join(cfg.LogsDir(), tool+".log"), console)
}

// execute runs cmd with args and maps the outcome to an exit code.
func execute(ctx context.Context, cmd *cobra.Command, args []string, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		var logged loggedError
		if !errors.As(err, &logged) {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return ExitFailure
	}
	return ExitSuccess
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
