// Package rules loads declarative instrumentation rule sets from YAML. A rule
// names a context/module pattern pair; binding a rule compiles both patterns
// and wires them to a fresh instrumenter, yielding the instrumented pair the
// host plugs into its build configuration.
//
// Rule files look like:
//
//	rules:
//	  - name: icons
//	    enabled: true
//	    context:
//	      pattern: "icons$"
//	    module:
//	      kind: glob
//	      pattern: "*.svg"
package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bundletools/contextspy/pkg/instrument"
	"github.com/bundletools/contextspy/pkg/pattern"
)

// Pattern kinds accepted in rule files.
const (
	KindRegexp = "regexp"
	KindGlob   = "glob"
)

// PatternSpec declares one pattern. Kind defaults to "regexp" when empty.
type PatternSpec struct {
	Kind    string `yaml:"kind"`
	Pattern string `yaml:"pattern"`
}

// Rule declares a named context/module pattern pair.
type Rule struct {
	Name    string      `yaml:"name"`
	Enabled bool        `yaml:"enabled"`
	Context PatternSpec `yaml:"context"`
	Module  PatternSpec `yaml:"module"`
}

// Set holds the rules of one file.
type Set struct {
	Rules []Rule `yaml:"rules"`
}

// Parse unmarshals and validates a YAML rule set.
func Parse(data []byte) (*Set, error) {
	var set Set
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if err := validate(&set); err != nil {
		return nil, err
	}
	return &set, nil
}

// LoadFile reads and parses a YAML rule file.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	return Parse(data)
}

// validate checks names and eagerly compiles every enabled rule's patterns so
// a bad rule file fails at load time rather than mid-traversal.
func validate(set *Set) error {
	for i := range set.Rules {
		rule := &set.Rules[i]
		if rule.Name == "" {
			return fmt.Errorf("rule %d: name is required", i)
		}
		if !rule.Enabled {
			continue
		}
		if _, err := rule.Context.Compile(); err != nil {
			return fmt.Errorf("rule %q: context: %w", rule.Name, err)
		}
		if _, err := rule.Module.Compile(); err != nil {
			return fmt.Errorf("rule %q: module: %w", rule.Name, err)
		}
	}
	return nil
}

// Compile builds the declared pattern.
func (s PatternSpec) Compile() (pattern.Pattern, error) {
	if s.Pattern == "" {
		return nil, fmt.Errorf("pattern is required")
	}
	switch s.Kind {
	case "", KindRegexp:
		return pattern.NewRegexp(s.Pattern)
	case KindGlob:
		return pattern.NewGlob(s.Pattern)
	default:
		return nil, fmt.Errorf("unknown pattern kind %q", s.Kind)
	}
}

// Bind compiles the rule's patterns and wraps them with a fresh instrumenter
// reporting to the given observers. The returned patterns are what the host
// should use in place of hand-built ones.
func (r Rule) Bind(onContext instrument.ContextFunc, onModule instrument.ModuleFunc) (ctx, mod *instrument.Instrumented, err error) {
	contextPattern, err := r.Context.Compile()
	if err != nil {
		return nil, nil, fmt.Errorf("rule %q: context: %w", r.Name, err)
	}
	modulePattern, err := r.Module.Compile()
	if err != nil {
		return nil, nil, fmt.Errorf("rule %q: module: %w", r.Name, err)
	}

	in := instrument.New(onContext, onModule)
	ctx, err = in.WrapContext(contextPattern)
	if err != nil {
		return nil, nil, fmt.Errorf("rule %q: %w", r.Name, err)
	}
	mod, err = in.WrapModule(modulePattern)
	if err != nil {
		return nil, nil, fmt.Errorf("rule %q: %w", r.Name, err)
	}
	return ctx, mod, nil
}

// Enabled returns only the enabled rules, in file order.
func (s *Set) Enabled() []Rule {
	enabled := make([]Rule, 0, len(s.Rules))
	for _, rule := range s.Rules {
		if rule.Enabled {
			enabled = append(enabled, rule)
		}
	}
	return enabled
}
