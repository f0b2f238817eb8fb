// Package registry holds the Safe-Symbol Registry: the set of module names
// considered low-risk for automatic removal. It is assembled once and read
// concurrently afterwards; nothing mutates a Registry after New/With.
package registry

// importsWithSideEffects are stdlib modules whose import alone is observable.
// They are never auto-removed under the default policy.
var importsWithSideEffects = []string{"antigravity", "rlcompleter", "this"}

// binaryImports are modules that may be compiled into the interpreter and so
// do not show up on a filesystem scan of the standard library. Kept for
// parity with installations that lack them as files.
var binaryImports = []string{
	"datetime", "grp", "io", "json", "math", "multiprocessing",
	"parser", "pwd", "string", "operator", "os", "sys", "time",
}

// Registry is an immutable set of module names eligible for removal.
type Registry struct {
	names map[string]struct{}
}

// New builds the default registry: the standard library module list, minus
// the side-effectful imports, plus the binary built-ins and any additional
// caller-supplied names.
func New(additional ...string) *Registry {
	names := make(map[string]struct{}, len(stdlibModules)+len(binaryImports)+len(additional))
	for _, n := range stdlibModules {
		names[n] = struct{}{}
	}
	for _, n := range importsWithSideEffects {
		delete(names, n)
	}
	for _, n := range binaryImports {
		names[n] = struct{}{}
	}
	for _, n := range additional {
		if n != "" {
			names[n] = struct{}{}
		}
	}
	return &Registry{names: names}
}

// With returns a registry extended with additional names. The receiver is
// unchanged; when additional is empty the receiver itself is returned.
func (r *Registry) With(additional ...string) *Registry {
	if len(additional) == 0 {
		return r
	}
	names := make(map[string]struct{}, len(r.names)+len(additional))
	for n := range r.names {
		names[n] = struct{}{}
	}
	for _, n := range additional {
		if n != "" {
			names[n] = struct{}{}
		}
	}
	return &Registry{names: names}
}

// Contains reports whether name is eligible for removal.
func (r *Registry) Contains(name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.names[name]
	return ok
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}
