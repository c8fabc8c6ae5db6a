package observe

import (
	"testing"

	"github.com/bundletools/contextspy/pkg/instrument"
	"github.com/bundletools/contextspy/pkg/pattern"
)

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	in := instrument.New(rec.OnContext, rec.OnModule)

	ctx, err := in.WrapContext(pattern.MustRegexp(`icons$`))
	if err != nil {
		t.Fatalf("WrapContext failed: %v", err)
	}
	mod, err := in.WrapModule(pattern.MustRegexp(`\.svg$`))
	if err != nil {
		t.Fatalf("WrapModule failed: %v", err)
	}

	ctx.Test("/icons")
	mod.Test("a.svg")
	mod.Test("b.svg")

	want := []Event{
		{Kind: KindContext, Context: "/icons"},
		{Kind: KindModule, Context: "/icons", Module: "a.svg"},
		{Kind: KindModule, Context: "/icons", Module: "b.svg"},
	}
	got := rec.Events()
	if len(got) != len(want) {
		t.Fatalf("expected %d events but got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %+v but got %+v", i, want[i], got[i])
		}
	}

	rec.Reset()
	if len(rec.Events()) != 0 {
		t.Error("expected no events after Reset")
	}
}

func TestMultiContext(t *testing.T) {
	var order []string
	first := func(ctx string, _, _ pattern.Pattern) {
		order = append(order, "first:"+ctx)
	}
	second := func(ctx string, _, _ pattern.Pattern) {
		order = append(order, "second:"+ctx)
	}

	combined := MultiContext(first, nil, second)
	combined("/icons", nil, nil)

	if len(order) != 2 || order[0] != "first:/icons" || order[1] != "second:/icons" {
		t.Errorf("expected ordered fan-out but got %v", order)
	}
}

func TestMultiContextAllNil(t *testing.T) {
	if MultiContext(nil, nil) != nil {
		t.Error("expected nil when no observers are given")
	}
	if MultiContext() != nil {
		t.Error("expected nil for empty argument list")
	}
}

func TestMultiModule(t *testing.T) {
	var order []string
	first := func(mod, ctx string, _, _ pattern.Pattern) {
		order = append(order, "first:"+mod+"@"+ctx)
	}
	second := func(mod, ctx string, _, _ pattern.Pattern) {
		order = append(order, "second:"+mod+"@"+ctx)
	}

	combined := MultiModule(nil, first, second)
	combined("a.svg", "/icons", nil, nil)

	if len(order) != 2 || order[0] != "first:a.svg@/icons" || order[1] != "second:a.svg@/icons" {
		t.Errorf("expected ordered fan-out but got %v", order)
	}

	if MultiModule(nil) != nil {
		t.Error("expected nil when no observers are given")
	}
}
