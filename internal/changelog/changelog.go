// Package changelog renders release notes from conventional commit messages
// using the angular preset layout, and extracts a released section back out
// of a changelog document.
package changelog

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/leodido/go-conventionalcommits"
	"github.com/leodido/go-conventionalcommits/parser"

	"github.com/kingrea/iconforge/internal/git"
)

// ErrSectionNotFound is returned when a changelog has no heading for the
// requested version.
var ErrSectionNotFound = errors.New("changelog: section not found")

// versionHeading matches "# [1.2.0](...)", "## 1.2.1 (date)" and friends.
var versionHeading = regexp.MustCompile(`^#{1,2} \[?v?(\d+\.\d+\.\d+[0-9A-Za-z.+-]*)\]?`)

// Entry is a parsed conventional commit.
type Entry struct {
	Hash     string
	Type     string
	Scope    string
	Subject  string
	Breaking bool
	Notes    []string
}

// Parse reads an angular-style header ("type(scope)!: subject") plus
// BREAKING CHANGE footers from the body. ok is false when the subject does not
// follow the convention. Subjects written by git revert are filed as reverts.
func Parse(c git.Commit) (Entry, bool) {
	if reverted, ok := revertedSubject(c.Subject); ok {
		return Entry{Hash: c.Hash, Type: "revert", Subject: reverted}, true
	}

	message := strings.TrimSpace(c.Subject)
	if body := strings.TrimSpace(c.Body); body != "" {
		message += "\n\n" + body
	}
	machine := parser.NewMachine(
		parser.WithTypes(conventionalcommits.TypesConventional),
		parser.WithBestEffort(),
	)
	msg, _ := machine.Parse([]byte(message))
	commit, ok := msg.(*conventionalcommits.ConventionalCommit)
	if !ok || commit == nil || commit.Type == "" {
		return Entry{}, false
	}

	entry := Entry{
		Hash:     c.Hash,
		Type:     strings.ToLower(commit.Type),
		Subject:  commit.Description,
		Breaking: commit.Exclamation,
		Notes:    breakingNotes(commit.Footers),
	}
	if commit.Scope != nil {
		entry.Scope = *commit.Scope
	}
	if len(entry.Notes) > 0 {
		entry.Breaking = true
	} else if entry.Breaking {
		entry.Notes = []string{entry.Subject}
	}
	return entry, true
}

// revertedSubject unwraps `Revert "feat: x"` as written by git revert.
func revertedSubject(subject string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(subject), "Revert ")
	if !ok {
		return "", false
	}
	rest = strings.TrimSpace(rest)
	if len(rest) >= 2 && strings.HasPrefix(rest, `"`) && strings.HasSuffix(rest, `"`) {
		rest = rest[1 : len(rest)-1]
	}
	return rest, rest != ""
}

// breakingNotes collects BREAKING CHANGE and BREAKING-CHANGE footers.
func breakingNotes(footers map[string][]string) []string {
	keys := make([]string, 0, len(footers))
	for key := range footers {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var notes []string
	for _, key := range keys {
		normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), " ", "-")
		if normalized != "breaking-change" {
			continue
		}
		for _, value := range footers[key] {
			if value = strings.TrimSpace(value); value != "" {
				notes = append(notes, value)
			}
		}
	}
	return notes
}

// sections lists the commit types rendered, in output order.
var sections = []struct {
	Type  string
	Title string
}{
	{"feat", "Features"},
	{"fix", "Bug Fixes"},
	{"perf", "Performance Improvements"},
	{"revert", "Reverts"},
}

// Release describes one changelog section to render.
type Release struct {
	Version     string
	PreviousTag string
	Date        time.Time
	// Repository is "owner/name"; links are omitted when empty.
	Repository string
	Patch      bool
	Commits    []git.Commit
}

// Render formats the release as an angular changelog section. Patch releases
// use a level-two heading, others level one.
func Render(r Release) string {
	var entries []Entry
	for _, c := range r.Commits {
		if entry, ok := Parse(c); ok {
			entries = append(entries, entry)
		}
	}

	var b strings.Builder
	heading := "#"
	if r.Patch {
		heading = "##"
	}
	tag := "v" + r.Version
	if r.Repository != "" && r.PreviousTag != "" {
		fmt.Fprintf(&b, "%s [%s](https://github.com/%s/compare/%s...%s)", heading, r.Version, r.Repository, r.PreviousTag, tag)
	} else {
		fmt.Fprintf(&b, "%s %s", heading, r.Version)
	}
	fmt.Fprintf(&b, " (%s)\n\n", r.Date.Format("2006-01-02"))

	for _, section := range sections {
		var lines []string
		for _, entry := range entries {
			if entry.Type == section.Type {
				lines = append(lines, r.line(entry))
			}
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n### %s\n\n%s\n", section.Title, strings.Join(lines, "\n"))
	}

	var notes []string
	for _, entry := range entries {
		for _, note := range entry.Notes {
			if entry.Scope != "" {
				note = fmt.Sprintf("**%s:** %s", entry.Scope, note)
			}
			notes = append(notes, "* "+note)
		}
	}
	if len(notes) > 0 {
		fmt.Fprintf(&b, "\n### BREAKING CHANGES\n\n%s\n", strings.Join(notes, "\n"))
	}
	return b.String() + "\n\n\n"
}

func (r Release) line(entry Entry) string {
	var b strings.Builder
	b.WriteString("* ")
	if entry.Scope != "" {
		fmt.Fprintf(&b, "**%s:** ", entry.Scope)
	}
	b.WriteString(entry.Subject)
	if entry.Hash != "" {
		short := entry.Hash
		if len(short) > 7 {
			short = short[:7]
		}
		if r.Repository != "" {
			fmt.Fprintf(&b, " ([%s](https://github.com/%s/commit/%s))", short, r.Repository, entry.Hash)
		} else {
			fmt.Fprintf(&b, " (%s)", short)
		}
	}
	return b.String()
}

// Prepend places a new section above the existing document.
func Prepend(existing, section string) string {
	if strings.TrimSpace(existing) == "" {
		return strings.TrimRight(section, "\n") + "\n"
	}
	return section + strings.TrimLeft(existing, "\n")
}

// Section returns the body of the section for version, without its heading.
func Section(doc, version string) (string, error) {
	version = strings.TrimPrefix(version, "v")
	lines := strings.Split(doc, "\n")
	start := -1
	for i, line := range lines {
		m := versionHeading.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if start >= 0 {
			return strings.TrimSpace(strings.Join(lines[start:i], "\n")), nil
		}
		if m[1] == version {
			start = i + 1
		}
	}
	if start < 0 {
		return "", fmt.Errorf("%w: %s", ErrSectionNotFound, version)
	}
	return strings.TrimSpace(strings.Join(lines[start:], "\n")), nil
}
