package logbook

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var levelStyles = map[Level]lipgloss.Style{
	LevelInfo:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	LevelWarn:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	LevelError: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

// Logbook appends timestamped entries to a file and mirrors them to a
// console writer so failures stay inspectable after the terminal closes.
type Logbook struct {
	path    string
	console io.Writer
	now     func() time.Time
	mu      sync.Mutex
}

// Option customizes a Logbook.
type Option func(*Logbook)

// WithClock overrides the timestamp source (tests).
func WithClock(clock func() time.Time) Option {
	return func(l *Logbook) {
		if clock != nil {
			l.now = clock
		}
	}
}

// New creates a logbook that writes to path and echoes to console. Either may
// be empty/nil to disable that sink.
func New(path string, console io.Writer, opts ...Option) (*Logbook, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("logbook: ensure log dir: %w", err)
		}
	}
	book := &Logbook{path: path, console: console, now: time.Now}
	for _, opt := range opts {
		opt(book)
	}
	return book, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append writes a single entry.
func (l *Logbook) Append(level Level, message string) {
	if l == nil {
		return
	}
	message = strings.TrimSpace(message)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.console != nil {
		label := fmt.Sprintf("%-5s", string(level))
		if style, ok := levelStyles[level]; ok {
			label = style.Render(label)
		}
		fmt.Fprintf(l.console, "%s %s\n", label, message)
	}
	if l.path == "" {
		return
	}
	line := fmt.Sprintf("%s %-5s %s\n",
		l.now().UTC().Format(time.RFC3339),
		string(level),
		message,
	)
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.WriteString(line)
}

// Tail returns up to maxLines of the most recent file entries.
func (l *Logbook) Tail(maxLines int) []string {
	if l == nil || l.path == "" || maxLines <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	file, err := os.Open(l.path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	return lines
}

// Info appends an informational entry.
func (l *Logbook) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a warning entry.
func (l *Logbook) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an error entry.
func (l *Logbook) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}
