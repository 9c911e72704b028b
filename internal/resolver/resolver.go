package resolver

import (
	"path"
	"sort"
)

// The published name of the library that is rewritten by default
const DefaultLibrary = "ramda"

type ResolveOptions struct {
	// The module specifier that triggers rewriting, for example "ramda". The
	// per-function paths are built underneath it.
	Library string

	// Use the ES module build ("ramda/es/add") instead of the CommonJS build
	// ("ramda/src/add")
	UseES bool
}

// Maps the canonical name of a library function to the path of the module
// that exports only that function. Implementations must be deterministic and
// safe for concurrent use since every unit being rewritten shares one.
type Resolver interface {
	Resolve(name string) (path string, ok bool)
}

type resolver struct {
	library string
	dir     string
}

func NewResolver(options ResolveOptions) Resolver {
	library := options.Library
	if library == "" {
		library = DefaultLibrary
	}
	dir := "src"
	if options.UseES {
		dir = "es"
	}
	return &resolver{library: library, dir: dir}
}

func (r *resolver) Resolve(name string) (string, bool) {
	if !ramdaFunctions[name] {
		return "", false
	}
	return path.Join(r.library, r.dir, name), true
}

// Returns every name that can be resolved in sorted order
func Names() []string {
	names := make([]string, 0, len(ramdaFunctions))
	for name := range ramdaFunctions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
