package config

import (
	"runtime"

	"github.com/jsrewrite/ramdacut/internal/resolver"
	"github.com/xyproto/env/v2"
)

// Environment variables that override the defaults. Command-line flags are
// applied on top of these.
const (
	EnvLibrary     = "RAMDACUT_LIBRARY"
	EnvUseES       = "RAMDACUT_USE_ES"
	EnvParallelism = "RAMDACUT_PARALLELISM"
)

type Options struct {
	// The import path that is split into per-function imports
	Library string

	// Import from "<library>/es/<name>" instead of "<library>/src/<name>"
	UseES bool

	// The maximum number of files rewritten at the same time
	Parallelism int
}

func Default() Options {
	return Options{
		Library:     resolver.DefaultLibrary,
		Parallelism: runtime.NumCPU(),
	}
}

// Returns the defaults with any overrides from the environment applied. The
// environment is read again on every call.
func FromEnv() Options {
	env.Load()
	options := Default()
	options.Library = env.Str(EnvLibrary, options.Library)
	options.UseES = env.Bool(EnvUseES)
	options.Parallelism = env.Int(EnvParallelism, options.Parallelism)
	return options.Normalize()
}

// Fills in defaults for zero or invalid fields
func (options Options) Normalize() Options {
	if options.Library == "" {
		options.Library = resolver.DefaultLibrary
	}
	if options.Parallelism < 1 {
		options.Parallelism = runtime.NumCPU()
	}
	return options
}

func (options Options) ResolveOptions() resolver.ResolveOptions {
	return resolver.ResolveOptions{
		Library: options.Library,
		UseES:   options.UseES,
	}
}
