package golink

import (
	"fmt"
	"regexp"
)

// DefaultPatternExpr is the canonical short-link syntax: the literal
// "go/" prefix followed by one or more alphanumerics, underscores, or
// hyphens. A historical variant of this service excluded digits; the
// pattern is injectable so deployments can pick either.
const DefaultPatternExpr = `^go/[a-zA-Z0-9_-]+$`

// Pattern validates short-link names against a compiled expression.
// It is immutable and safe for concurrent use.
type Pattern struct {
	re *regexp.Regexp
}

// CompilePattern compiles expr into a Pattern.
func CompilePattern(expr string) (Pattern, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("invalid link pattern %q: %w", expr, err)
	}
	return Pattern{re: re}, nil
}

// DefaultPattern returns the Pattern for DefaultPatternExpr.
func DefaultPattern() Pattern {
	return Pattern{re: regexp.MustCompile(DefaultPatternExpr)}
}

// Validate reports whether name is a well-formed short link.
func (p Pattern) Validate(name string) bool {
	if p.re == nil {
		return false
	}
	return p.re.MatchString(name)
}

// String returns the pattern's source expression.
func (p Pattern) String() string {
	if p.re == nil {
		return ""
	}
	return p.re.String()
}
