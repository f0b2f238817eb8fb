package registry

import "testing"

func TestDefaultRegistry(t *testing.T) {
	r := New()
	for _, name := range []string{"os", "sys", "json", "collections", "re"} {
		if !r.Contains(name) {
			t.Fatalf("expected %q in the default registry", name)
		}
	}
}

func TestSideEffectImportsExcluded(t *testing.T) {
	r := New()
	for _, name := range []string{"antigravity", "rlcompleter", "this"} {
		if r.Contains(name) {
			t.Fatalf("%q has import-time side effects and must not be removable", name)
		}
	}
}

func TestThirdPartyExcluded(t *testing.T) {
	r := New()
	for _, name := range []string{"requests", "numpy", "django", "foo"} {
		if r.Contains(name) {
			t.Fatalf("third-party module %q must not be in the default registry", name)
		}
	}
}

func TestAdditionalNames(t *testing.T) {
	r := New("requests")
	if !r.Contains("requests") {
		t.Fatal("caller-supplied name missing from registry")
	}
}

func TestWithDoesNotMutate(t *testing.T) {
	base := New()
	derived := base.With("django")
	if base.Contains("django") {
		t.Fatal("With must not mutate the base registry")
	}
	if !derived.Contains("django") || !derived.Contains("os") {
		t.Fatal("derived registry incomplete")
	}
	if base.With() != base {
		t.Fatal("With() without names must return the receiver")
	}
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	if r.Contains("os") || r.Len() != 0 {
		t.Fatal("nil registry must behave as empty")
	}
}
