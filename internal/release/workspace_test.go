package release

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestDiscoverPackagesFromManifestWorkspaces(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name":"icons","private":true,"version":"1.2.3","workspaces":{"packages":["packages/*","!packages/scratch"]}}`)
	writeFile(t, filepath.Join(root, "packages", "vue", "package.json"), `{"name":"@acme/vue","version":"1.2.3"}`)
	writeFile(t, filepath.Join(root, "packages", "react", "package.json"), `{"name":"@acme/react","version":"1.2.3"}`)
	writeFile(t, filepath.Join(root, "packages", "scratch", "package.json"), `{"name":"scratch","version":"0.0.0"}`)
	writeFile(t, filepath.Join(root, "packages", "notes", "README.md"), "no manifest")

	packages, err := DiscoverPackages(root)
	if err != nil {
		t.Fatalf("DiscoverPackages: %v", err)
	}
	names := make([]string, len(packages))
	for i, pkg := range packages {
		names[i] = pkg.Name
	}
	want := []string{"icons", "@acme/react", "@acme/vue"}
	if len(names) != len(want) {
		t.Fatalf("names = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
	if !packages[0].Private || packages[1].Private {
		t.Fatalf("private flags wrong: %+v", packages)
	}
}

func TestDiscoverPackagesFromPnpmWorkspace(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name":"icons","version":"1.0.0"}`)
	writeFile(t, filepath.Join(root, "pnpm-workspace.yaml"), "packages:\n  - packages/*\n")
	writeFile(t, filepath.Join(root, "packages", "react", "package.json"), `{"name":"@acme/react","version":"1.0.0"}`)

	packages, err := DiscoverPackages(root)
	if err != nil {
		t.Fatalf("DiscoverPackages: %v", err)
	}
	if len(packages) != 2 || packages[1].Name != "@acme/react" {
		t.Fatalf("packages = %+v", packages)
	}
}

func TestDiscoverPackagesRejectsBrokenManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name":`)
	if _, err := DiscoverPackages(root); err == nil {
		t.Fatal("expected error")
	}
}

func TestWriteVersionPreservesLayout(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "package.json")
	original := "{\n    \"name\": \"@acme/react\",\n    \"version\": \"1.9.0\",\n    \"scripts\": { \"build\": \"tsc\" }\n}\n"
	writeFile(t, path, original)
	pkg, err := ReadPackage(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteVersion(pkg, "2.0.0"); err != nil {
		t.Fatal(err)
	}
	want := "{\n    \"name\": \"@acme/react\",\n    \"version\": \"2.0.0\",\n    \"scripts\": { \"build\": \"tsc\" }\n}\n"
	if got := readFile(t, path); got != want {
		t.Fatalf("manifest = %q", got)
	}
}

func TestWriteVersionRestoresMissingField(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "package.json")
	original := `{"name":"x"}`
	writeFile(t, path, original)
	pkg, err := ReadPackage(root)
	if err != nil {
		t.Fatal(err)
	}
	if err := WriteVersion(pkg, "1.0.0"); err != nil {
		t.Fatal(err)
	}
	if err := WriteVersion(pkg, pkg.Version); err != nil {
		t.Fatal(err)
	}
	if got := readFile(t, path); got != original {
		t.Fatalf("manifest = %q, want %q", got, original)
	}
}

func TestDiscoverPackagesExpandsDoubleStar(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "package.json"), `{"name":"icons","private":true,"version":"1.0.0"}`)
	writeFile(t, filepath.Join(root, "pnpm-workspace.yaml"), "packages:\n  - 'packages/**'\n  - '!packages/**/fixtures'\n")
	writeFile(t, filepath.Join(root, "packages", "core", "package.json"), `{"name":"@acme/core","version":"1.0.0"}`)
	writeFile(t, filepath.Join(root, "packages", "icons", "react", "package.json"), `{"name":"@acme/react","version":"1.0.0"}`)
	writeFile(t, filepath.Join(root, "packages", "icons", "vue", "fixtures", "package.json"), `{"name":"fixtures","version":"0.0.0"}`)
	writeFile(t, filepath.Join(root, "packages", "core", "node_modules", "dep", "package.json"), `{"name":"dep","version":"9.9.9"}`)

	packages, err := DiscoverPackages(root)
	if err != nil {
		t.Fatalf("DiscoverPackages: %v", err)
	}
	var names []string
	for _, pkg := range packages {
		names = append(names, pkg.Name)
	}
	want := []string{"icons", "@acme/core", "@acme/react"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("names = %v, want %v", names, want)
	}
	if packages[2].Dir != filepath.Join(root, "packages", "icons", "react") {
		t.Fatalf("dir = %s", packages[2].Dir)
	}
}
