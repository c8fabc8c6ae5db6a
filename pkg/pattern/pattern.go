// Package pattern defines the matching capability consumed by the rest of the
// library, along with the standard backends: Go regular expressions and
// doublestar path globs.
package pattern

import (
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
)

// Pattern is anything that can test a string for a match. Hosts hand patterns
// to the instrument package, which wraps them without altering their results.
type Pattern interface {
	// Test reports whether the input matches.
	Test(input string) bool

	// String returns the source expression, for diagnostics and for
	// observer callbacks that want to identify the pattern.
	String() string

	// Clone returns an independent structural copy. The clone shares no
	// mutable state with the receiver, so wrapping a clone leaves the
	// original reusable elsewhere.
	Clone() Pattern
}

// Regexp matches using a compiled Go regular expression.
type Regexp struct {
	expr string
	re   *regexp.Regexp
}

// NewRegexp compiles expr into a Regexp pattern.
func NewRegexp(expr string) (*Regexp, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &Regexp{expr: expr, re: re}, nil
}

// MustRegexp is like NewRegexp but panics if the expression cannot be
// compiled. It simplifies safe initialization of package-level patterns.
func MustRegexp(expr string) *Regexp {
	p, err := NewRegexp(expr)
	if err != nil {
		panic(`pattern: Regexp(` + expr + `): ` + err.Error())
	}
	return p
}

// Test reports whether input contains any match of the expression.
func (p *Regexp) Test(input string) bool {
	return p.re.MatchString(input)
}

// String returns the source expression.
func (p *Regexp) String() string {
	return p.expr
}

// Clone recompiles the source expression into a fresh Regexp.
func (p *Regexp) Clone() Pattern {
	return &Regexp{expr: p.expr, re: regexp.MustCompile(p.expr)}
}

// Glob matches file paths using doublestar glob syntax ("**" crosses path
// separators). Hosts that declare inclusion rules as globs rather than
// regular expressions use this backend.
type Glob struct {
	expr string
}

// NewGlob validates expr and returns a Glob pattern.
func NewGlob(expr string) (*Glob, error) {
	if !doublestar.ValidatePattern(expr) {
		return nil, doublestar.ErrBadPattern
	}
	return &Glob{expr: expr}, nil
}

// Test reports whether the path matches the glob.
func (p *Glob) Test(input string) bool {
	// The pattern was validated at construction, so Match cannot fail here.
	ok, err := doublestar.Match(p.expr, input)
	return err == nil && ok
}

// String returns the glob expression.
func (p *Glob) String() string {
	return p.expr
}

// Clone returns an independent copy of the glob.
func (p *Glob) Clone() Pattern {
	return &Glob{expr: p.expr}
}

// Func adapts a plain predicate into a Pattern for hosts with bespoke
// matching logic. The name is what String and Clone report; the predicate is
// shared by clones, so it should be stateless.
type Func struct {
	Name string
	Fn   func(input string) bool
}

// Test invokes the predicate.
func (p *Func) Test(input string) bool {
	return p.Fn(input)
}

// String returns the pattern's name.
func (p *Func) String() string {
	return p.Name
}

// Clone returns a copy referencing the same predicate.
func (p *Func) Clone() Pattern {
	return &Func{Name: p.Name, Fn: p.Fn}
}
