// Package instrument intercepts the two patterns a bundler uses for dynamic
// module inclusion — one matching directories ("contexts"), one matching files
// ("modules") — and correlates the interleaved stream of match tests into
// observer notifications: the first match within each distinct context, and
// every module match.
//
// # Quick Start
//
//	in := instrument.New(
//	    func(ctx string, _, _ pattern.Pattern) { fmt.Println("context:", ctx) },
//	    func(mod, ctx string, _, _ pattern.Pattern) { fmt.Println("module:", mod, "in", ctx) },
//	)
//
//	ctxPat, err := in.WrapContext(pattern.MustRegexp(`icons$`))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	modPat, err := in.WrapModule(pattern.MustRegexp(`\.svg$`))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// The host then uses ctxPat and modPat wherever it used the original patterns;
// their Test results are identical to the originals for every input.
//
// An Instrumenter correlates exactly one context/module pattern pair and is
// NOT safe for concurrent use — the host is expected to test patterns serially
// during its build traversal. Create one Instrumenter per plugin configuration.
package instrument

import (
	"errors"
	"fmt"

	"github.com/bundletools/contextspy/pkg/pattern"
)

// ErrAlreadyWrapped is returned when WrapContext or WrapModule is called a
// second time on the same Instrumenter. It signals a caller programming
// mistake and is the only error this package produces.
var ErrAlreadyWrapped = errors.New("pattern slot already wrapped")

// ContextFunc observes the first match within a newly matched context. It
// receives the matched directory path and the two instrumented patterns the
// host is using.
type ContextFunc func(contextPath string, contextPattern, modulePattern pattern.Pattern)

// ModuleFunc observes every module match. It receives the matched file path,
// the context it was matched under, and the two instrumented patterns.
type ModuleFunc func(modulePath, contextPath string, contextPattern, modulePattern pattern.Pattern)

// Instrumenter correlates match tests on one context pattern and one module
// pattern into callback notifications. All state lives here rather than in
// closures so the reset and reentrancy rules are auditable.
type Instrumenter struct {
	onContext ContextFunc
	onModule  ModuleFunc

	contextPattern *Instrumented
	modulePattern  *Instrumented

	lastContext string
	hasContext  bool

	lastModule string
	hasModule  bool

	// contextReported guards the "first match in this context" notification.
	// It resets whenever lastContext is overwritten with a new value, so the
	// context callback fires once per distinct context.
	contextReported bool
}

// New creates an Instrumenter with the given observers. Either callback may be
// nil, in which case its notifications are skipped.
func New(onContext ContextFunc, onModule ModuleFunc) *Instrumenter {
	return &Instrumenter{
		onContext: onContext,
		onModule:  onModule,
	}
}

// WrapContext installs interception around p's match test and returns the
// instrumented pattern. The caller's pattern is cloned, never modified. It may
// be called at most once per Instrumenter; a second call returns an error
// wrapping ErrAlreadyWrapped.
func (in *Instrumenter) WrapContext(p pattern.Pattern) (*Instrumented, error) {
	if in.contextPattern != nil {
		return nil, fmt.Errorf("wrap context: %w", ErrAlreadyWrapped)
	}
	in.contextPattern = &Instrumented{
		inner:   p.Clone(),
		observe: in.observeContext,
	}
	return in.contextPattern, nil
}

// WrapModule is the module-side counterpart of WrapContext, with its own
// single-use slot.
func (in *Instrumenter) WrapModule(p pattern.Pattern) (*Instrumented, error) {
	if in.modulePattern != nil {
		return nil, fmt.Errorf("wrap module: %w", ErrAlreadyWrapped)
	}
	in.modulePattern = &Instrumented{
		inner:   p.Clone(),
		observe: in.observeModule,
	}
	return in.modulePattern, nil
}

// observeContext runs after every test on the context pattern. A new distinct
// match overwrites the current context and opens a fresh report opportunity.
func (in *Instrumenter) observeContext(input string, matched bool) {
	if !matched || (in.hasContext && input == in.lastContext) {
		return
	}
	in.lastContext = input
	in.hasContext = true
	in.contextReported = false
	in.report()
}

// observeModule runs after every test on the module pattern. lastModule is
// cleared after each report, so a repeated match on the same path counts as
// distinct once an intervening report consumed it.
func (in *Instrumenter) observeModule(input string, matched bool) {
	if !matched || (in.hasModule && input == in.lastModule) {
		return
	}
	in.lastModule = input
	in.hasModule = true
	in.report()
}

// report fires whichever notifications are due. Nothing fires until both a
// context and a module have matched. State is settled before each callback is
// invoked, so a callback that re-enters Test on either pattern sees consistent
// state and cannot double-fire a notification.
func (in *Instrumenter) report() {
	if in.onContext != nil && in.hasContext && in.hasModule && !in.contextReported {
		in.contextReported = true
		in.onContext(in.lastContext, in.contextPattern, in.modulePattern)
	}

	// Re-check hasModule: a reentrant Test inside onContext may have consumed
	// the pending module already.
	if in.onModule != nil && in.hasContext && in.hasModule {
		module := in.lastModule
		in.hasModule = false
		in.onModule(module, in.lastContext, in.contextPattern, in.modulePattern)
	}
}

// Instrumented is a drop-in substitute for a wrapped pattern: Test delegates
// to an independent clone of the original and reports the outcome to the
// owning Instrumenter.
type Instrumented struct {
	inner   pattern.Pattern
	observe func(input string, matched bool)
}

// Test returns exactly what the original pattern would return for input,
// notifying the instrumenter as a side effect.
func (ip *Instrumented) Test(input string) bool {
	matched := ip.inner.Test(input)
	ip.observe(input, matched)
	return matched
}

// String returns the underlying pattern's source expression.
func (ip *Instrumented) String() string {
	return ip.inner.String()
}

// Clone returns a copy that keeps observing for the same instrumenter while
// matching independently.
func (ip *Instrumented) Clone() pattern.Pattern {
	return &Instrumented{inner: ip.inner.Clone(), observe: ip.observe}
}
