package instrument_test

import (
	"fmt"

	"github.com/bundletools/contextspy/pkg/instrument"
	"github.com/bundletools/contextspy/pkg/pattern"
)

// Example simulates a bundler traversal: the host tests candidate directories
// against the context pattern and candidate files against the module pattern,
// and the instrumenter reports which contexts and modules were picked up.
func Example() {
	in := instrument.New(
		func(ctx string, _, _ pattern.Pattern) {
			fmt.Printf("context matched: %s\n", ctx)
		},
		func(mod, ctx string, _, _ pattern.Pattern) {
			fmt.Printf("module matched: %s (in %s)\n", mod, ctx)
		},
	)

	ctxPat, err := in.WrapContext(pattern.MustRegexp(`icons$`))
	if err != nil {
		panic(err)
	}
	modPat, err := in.WrapModule(pattern.MustRegexp(`\.svg$`))
	if err != nil {
		panic(err)
	}

	// What the host does during its build traversal.
	candidates := map[string][]string{
		"/assets/icons": {"arrow.svg", "close.svg", "readme.md"},
		"/assets/fonts": {"mono.woff"},
	}
	for _, dir := range []string{"/assets/icons", "/assets/fonts"} {
		if !ctxPat.Test(dir) {
			continue
		}
		for _, file := range candidates[dir] {
			modPat.Test(file)
		}
	}

	// Output:
	// context matched: /assets/icons
	// module matched: arrow.svg (in /assets/icons)
	// module matched: close.svg (in /assets/icons)
}
