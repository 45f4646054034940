package icon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
)

var pascalIdentifier = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

func TestComponentName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"arrow-left.svg", "ArrowLeft"},
		{"arrow_left.svg", "ArrowLeft"},
		{"chevron double up.svg", "ChevronDoubleUp"},
		{"camera.svg", "Camera"},
		{"alreadyCamel.svg", "AlreadyCamel"},
		{"--trim--me--.svg", "TrimMe"},
		{"24-hours.svg", "Icon24Hours"},
		{"x.y.svg", "XY"},
		{"---.svg", ""},
	}
	for _, c := range cases {
		if got := ComponentName(c.in); got != c.want {
			t.Errorf("ComponentName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestComponentNameIsDeterministicPascalIdentifier(t *testing.T) {
	inputs := []string{"a.svg", "bell-dot.svg", "9lives.svg", "user (1).svg", "ARROW_UP.svg", "wifi-off-2.svg"}
	for _, in := range inputs {
		first := ComponentName(in)
		if !pascalIdentifier.MatchString(first) {
			t.Errorf("ComponentName(%q) = %q is not a PascalCase identifier", in, first)
		}
		for i := 0; i < 3; i++ {
			if again := ComponentName(in); again != first {
				t.Fatalf("ComponentName(%q) not deterministic: %q vs %q", in, first, again)
			}
		}
	}
}

func TestLoadReadsSvgFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "arrow-left.svg", `<svg viewBox="0 0 24 24"><path d="M0 0"/></svg>`)
	writeFile(t, dir, "bell.svg", `<svg viewBox="0 0 24 24"/>`)
	writeFile(t, dir, "README.md", "ignored")
	writeFile(t, dir, ".hidden.svg", "<svg/>")
	if err := os.Mkdir(filepath.Join(dir, "nested.svg"), 0o755); err != nil {
		t.Fatal(err)
	}

	assets, err := Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("len(assets) = %d, want 2: %+v", len(assets), assets)
	}
	byName := map[string]Asset{}
	for _, a := range assets {
		byName[a.ComponentName] = a
	}
	arrow, ok := byName["ArrowLeft"]
	if !ok {
		t.Fatalf("missing ArrowLeft asset: %v", Names(assets))
	}
	if arrow.FileName != "arrow-left.svg" || arrow.Markup == "" {
		t.Fatalf("unexpected asset: %+v", arrow)
	}
	if _, ok := byName["Bell"]; !ok {
		t.Fatalf("missing Bell asset: %v", Names(assets))
	}
}

func TestLoadDetectsCollisions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "arrow-left.svg", "<svg/>")
	writeFile(t, dir, "arrow_left.svg", "<svg/>")

	_, err := Load(context.Background(), dir)
	var collision *CollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("expected CollisionError, got %v", err)
	}
	if collision.Name != "ArrowLeft" {
		t.Fatalf("collision name = %s", collision.Name)
	}
	if collision.First == collision.Second {
		t.Fatalf("collision should name two files: %+v", collision)
	}
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected wrapped not-exist error, got %v", err)
	}
}

func TestLoadRejectsUnnameableFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "---.svg", "<svg/>")
	if _, err := Load(context.Background(), dir); err == nil {
		t.Fatal("expected error for file without usable name")
	}
}

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}
