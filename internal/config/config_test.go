package config

import (
	"runtime"
	"testing"

	"github.com/jsrewrite/ramdacut/internal/test"
)

func TestDefault(t *testing.T) {
	options := Default()
	test.AssertEqual(t, options.Library, "ramda")
	test.AssertEqual(t, options.UseES, false)
	test.AssertEqual(t, options.Parallelism, runtime.NumCPU())
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvLibrary, "")
	t.Setenv(EnvUseES, "")
	t.Setenv(EnvParallelism, "")
	options := FromEnv()
	test.AssertEqual(t, options.Library, "ramda")
	test.AssertEqual(t, options.UseES, false)
	test.AssertEqual(t, options.Parallelism, runtime.NumCPU())

	t.Setenv(EnvLibrary, "rambda")
	t.Setenv(EnvUseES, "true")
	t.Setenv(EnvParallelism, "3")
	options = FromEnv()
	test.AssertEqual(t, options.Library, "rambda")
	test.AssertEqual(t, options.UseES, true)
	test.AssertEqual(t, options.Parallelism, 3)

	t.Setenv(EnvParallelism, "0")
	test.AssertEqual(t, FromEnv().Parallelism, runtime.NumCPU())

	// Later changes to the environment are picked up
	t.Setenv(EnvLibrary, "")
	t.Setenv(EnvUseES, "false")
	options = FromEnv()
	test.AssertEqual(t, options.Library, "ramda")
	test.AssertEqual(t, options.UseES, false)
}

func TestResolveOptions(t *testing.T) {
	options := Options{Library: "rambda", UseES: true}.ResolveOptions()
	test.AssertEqual(t, options.Library, "rambda")
	test.AssertEqual(t, options.UseES, true)
}
