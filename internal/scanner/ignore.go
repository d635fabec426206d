package scanner

import (
	"fmt"

	"github.com/gobwas/glob"
)

// DefaultIgnore is the rule set applied when the user does not configure one.
var DefaultIgnore = []string{
	".DS_Store",
	"thumbs.db",
	"*.log",
	".*",
	"node_modules",
}

// IgnoreRuleSet is an ordered set of glob patterns matched against a path's
// base name. Matching is case-sensitive.
type IgnoreRuleSet struct {
	patterns []string
	globs    []glob.Glob
}

// NewIgnoreRuleSet compiles patterns. An invalid pattern is an error rather
// than a rule that silently never matches.
func NewIgnoreRuleSet(patterns []string) (IgnoreRuleSet, error) {
	rs := IgnoreRuleSet{
		patterns: append([]string(nil), patterns...),
		globs:    make([]glob.Glob, 0, len(patterns)),
	}
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return IgnoreRuleSet{}, fmt.Errorf("ignore pattern %q: %w", p, err)
		}
		rs.globs = append(rs.globs, g)
	}
	return rs, nil
}

// Match reports whether name is excluded by any rule.
func (rs IgnoreRuleSet) Match(name string) bool {
	for _, g := range rs.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Patterns returns the source patterns in order.
func (rs IgnoreRuleSet) Patterns() []string {
	return append([]string(nil), rs.patterns...)
}
