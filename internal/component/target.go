package component

import (
	"fmt"
	"strings"
)

// Framework selects the component flavor to generate.
type Framework string

const (
	React Framework = "react"
	Vue   Framework = "vue"
)

// Format selects the module syntax of generated sources.
type Format string

const (
	// ESM is the module-style format (import/export).
	ESM Format = "esm"
	// CJS is the classic-require-style format (require/module.exports).
	CJS Format = "cjs"
)

// Target is one (framework, format) combination.
type Target struct {
	Framework Framework
	Format    Format
}

func (t Target) String() string {
	return string(t.Framework) + "/" + string(t.Format)
}

// Frameworks lists every supported framework.
func Frameworks() []Framework {
	return []Framework{React, Vue}
}

// Formats lists every supported module format.
func Formats() []Format {
	return []Format{ESM, CJS}
}

// ParseFramework validates a framework name.
func ParseFramework(value string) (Framework, error) {
	fw := Framework(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Frameworks() {
		if fw == known {
			return fw, nil
		}
	}
	return "", fmt.Errorf("component: unknown framework %q (want react or vue)", value)
}

// Targets returns both formats for one framework.
func Targets(fw Framework) []Target {
	targets := make([]Target, 0, len(Formats()))
	for _, format := range Formats() {
		targets = append(targets, Target{Framework: fw, Format: format})
	}
	return targets
}

// AllTargets returns every framework/format combination.
func AllTargets() []Target {
	var targets []Target
	for _, fw := range Frameworks() {
		targets = append(targets, Targets(fw)...)
	}
	return targets
}
