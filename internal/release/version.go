package release

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kingrea/iconforge/internal/prompt"
)

// ErrInvalidVersion is returned for strings that are not x.y.z semantic
// versions.
var ErrInvalidVersion = errors.New("release: invalid version")

// Bump names a semantic version increment.
type Bump string

const (
	BumpMajor Bump = "major"
	BumpMinor Bump = "minor"
	BumpPatch Bump = "patch"

	customChoice = "custom"
)

// Bumps lists the increments offered when no version is given.
func Bumps() []Bump {
	return []Bump{BumpMajor, BumpMinor, BumpPatch}
}

// Normalize validates a version and returns it without a leading "v".
// Shorthand forms such as "1.2" are rejected.
func Normalize(version string) (string, error) {
	v := strings.TrimPrefix(strings.TrimSpace(version), "v")
	if !semver.IsValid("v"+v) || len(coreParts(v)) != 3 {
		return "", fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}
	return v, nil
}

func coreParts(v string) []string {
	core := v
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core = core[:i]
	}
	return strings.Split(core, ".")
}

// Increment applies a bump the way npm does: a prerelease of the target
// version is promoted rather than bumped again.
func Increment(current string, bump Bump) (string, error) {
	v, err := Normalize(current)
	if err != nil {
		return "", err
	}
	parts := coreParts(v)
	nums := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return "", fmt.Errorf("%w: %q", ErrInvalidVersion, current)
		}
		nums[i] = n
	}
	major, minor, patch := nums[0], nums[1], nums[2]
	pre := semver.Prerelease("v"+v) != ""

	switch bump {
	case BumpMajor:
		if !pre || minor != 0 || patch != 0 {
			major++
		}
		minor, patch = 0, 0
	case BumpMinor:
		if !pre || patch != 0 {
			minor++
		}
		patch = 0
	case BumpPatch:
		if !pre {
			patch++
		}
	default:
		return "", fmt.Errorf("release: unknown bump %q", bump)
	}
	return fmt.Sprintf("%d.%d.%d", major, minor, patch), nil
}

// IsPatch reports whether next only changes the patch component of current.
func IsPatch(current, next string) bool {
	return semver.MajorMinor("v"+current) == semver.MajorMinor("v"+next) &&
		semver.Prerelease("v"+next) == ""
}

// IsPrerelease reports whether version carries a prerelease suffix.
func IsPrerelease(version string) bool {
	return semver.Prerelease("v"+version) != ""
}

// BumpOptions builds the choices offered by the select-version step.
func BumpOptions(current string) ([]prompt.Option, error) {
	title := cases.Title(language.English)
	var options []prompt.Option
	for _, bump := range Bumps() {
		next, err := Increment(current, bump)
		if err != nil {
			return nil, err
		}
		options = append(options, prompt.Option{
			Label: fmt.Sprintf("%s (%s)", title.String(string(bump)), next),
			Hint:  fmt.Sprintf("%s → %s", current, next),
			Value: next,
		})
	}
	options = append(options, prompt.Option{
		Label: title.String(customChoice),
		Hint:  "enter any x.y.z version",
		Value: customChoice,
	})
	return options, nil
}
