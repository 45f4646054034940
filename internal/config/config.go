// Package config loads iconforge.yaml and the environment overrides shared by
// the build and release commands.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	// Dir holds per-project runtime files (logs).
	Dir = ".iconforge"
	// FileName is the project configuration file looked up in the project root.
	FileName = "iconforge.yaml"

	defaultAssetsDir      = "assets"
	defaultReactOutput    = "packages/react"
	defaultVueOutput      = "packages/vue"
	defaultBranch         = "main"
	defaultRemote         = "origin"
	defaultChangelog      = "CHANGELOG.md"
	defaultPackageManager = "pnpm"
)

// OutputConfig maps each framework to the package directory receiving its
// generated components.
type OutputConfig struct {
	React string `yaml:"react"`
	Vue   string `yaml:"vue"`
}

// ReleaseConfig captures the release workflow preferences.
type ReleaseConfig struct {
	Branch         string `yaml:"branch"`
	Remote         string `yaml:"remote"`
	Repository     string `yaml:"repository,omitempty"`
	Changelog      string `yaml:"changelog"`
	PackageManager string `yaml:"package_manager"`
}

// ProjectConfig models iconforge.yaml.
type ProjectConfig struct {
	Version int           `yaml:"version"`
	Assets  string        `yaml:"assets"`
	Output  OutputConfig  `yaml:"output"`
	Release ReleaseConfig `yaml:"release"`
}

// Env holds values read from the process environment.
type Env struct {
	GitHubToken string `env:"GITHUB_TOKEN"`
	LogDir      string `env:"ICONFORGE_LOG_DIR"`
}

// Config is the resolved runtime configuration.
type Config struct {
	// ProjectDir anchors every relative path in the project config.
	ProjectDir string
	Project    ProjectConfig
	Env        Env
}

// Load reads the project config at path (or ProjectDir/iconforge.yaml when
// path is empty) and applies environment overrides. A missing default file
// yields the built-in defaults; a missing explicit file is an error.
func Load(projectDir, path string) (*Config, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = filepath.Join(projectDir, FileName)
	}
	cfg := &Config{
		ProjectDir: filepath.Clean(projectDir),
		Project:    defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(path, explicit); err != nil {
		return nil, err
	}
	if err := env.Parse(&cfg.Env); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadProjectConfig(path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

// AssetsDir returns the directory scanned for SVG sources.
func (c *Config) AssetsDir() string {
	return resolvePath(c.ProjectDir, c.Project.Assets)
}

// OutputDir returns the package directory for a framework name. Unknown
// frameworks resolve to an empty string.
func (c *Config) OutputDir(framework string) string {
	switch strings.ToLower(strings.TrimSpace(framework)) {
	case "react":
		return resolvePath(c.ProjectDir, c.Project.Output.React)
	case "vue":
		return resolvePath(c.ProjectDir, c.Project.Output.Vue)
	default:
		return ""
	}
}

// LogsDir returns where tool logs are appended.
func (c *Config) LogsDir() string {
	if c.Env.LogDir != "" {
		return resolvePath(c.ProjectDir, c.Env.LogDir)
	}
	return filepath.Join(c.ProjectDir, Dir, "logs")
}

// ChangelogPath returns the changelog maintained by the release workflow.
func (c *Config) ChangelogPath() string {
	return resolvePath(c.ProjectDir, c.Project.Release.Changelog)
}

// Repository splits the configured owner/name pair.
func (c *Config) Repository() (owner, name string, ok bool) {
	return SplitRepository(c.Project.Release.Repository)
}

// SplitRepository parses "owner/name".
func SplitRepository(value string) (owner, name string, ok bool) {
	parts := strings.Split(strings.TrimSpace(value), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", false
	}
	return parts[0], parts[1], true
}

func defaultProjectConfig() ProjectConfig {
	pc := ProjectConfig{}
	pc.applyDefaults()
	return pc
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Assets) == "" {
		pc.Assets = defaultAssetsDir
	}
	if strings.TrimSpace(pc.Output.React) == "" {
		pc.Output.React = defaultReactOutput
	}
	if strings.TrimSpace(pc.Output.Vue) == "" {
		pc.Output.Vue = defaultVueOutput
	}
	if strings.TrimSpace(pc.Release.Branch) == "" {
		pc.Release.Branch = defaultBranch
	}
	if strings.TrimSpace(pc.Release.Remote) == "" {
		pc.Release.Remote = defaultRemote
	}
	if strings.TrimSpace(pc.Release.Changelog) == "" {
		pc.Release.Changelog = defaultChangelog
	}
	if strings.TrimSpace(pc.Release.PackageManager) == "" {
		pc.Release.PackageManager = defaultPackageManager
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Assets = strings.TrimSpace(pc.Assets)
	pc.Output.React = strings.TrimSpace(pc.Output.React)
	pc.Output.Vue = strings.TrimSpace(pc.Output.Vue)
	pc.Release.Branch = strings.TrimSpace(pc.Release.Branch)
	pc.Release.Remote = strings.TrimSpace(pc.Release.Remote)
	pc.Release.Repository = strings.Trim(strings.TrimSpace(pc.Release.Repository), "/")
	pc.Release.Changelog = strings.TrimSpace(pc.Release.Changelog)
	pc.Release.PackageManager = strings.ToLower(strings.TrimSpace(pc.Release.PackageManager))
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Output.React == pc.Output.Vue {
		return fmt.Errorf("output.react and output.vue must differ")
	}
	switch pc.Release.PackageManager {
	case "npm", "pnpm", "yarn":
	default:
		return fmt.Errorf("release.package_manager must be npm, pnpm or yarn")
	}
	if pc.Release.Repository != "" {
		if _, _, ok := SplitRepository(pc.Release.Repository); !ok {
			return fmt.Errorf("release.repository must look like owner/name")
		}
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}
