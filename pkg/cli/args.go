package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsrewrite/ramdacut/internal/config"
	"github.com/jsrewrite/ramdacut/pkg/api"
)

// Flags that only change how the command runs, not what it produces
type runFlags struct {
	watch   bool
	verbose bool
}

// Environment overrides are applied first so that flags win
func newTransformOptions() api.TransformOptions {
	cfg := config.FromEnv()
	return api.TransformOptions{
		ErrorLimit: 10,
		LogLevel:   api.LogLevelInfo,
		Library:    cfg.Library,
		UseES:      cfg.UseES,
	}
}

func newFilesOptions() api.FilesOptions {
	cfg := config.FromEnv()
	return api.FilesOptions{
		TransformOptions: newTransformOptions(),
		Parallelism:      cfg.Parallelism,
	}
}

func ParseTransformOptions(osArgs []string) (options api.TransformOptions, err error) {
	options = newTransformOptions()
	_, err = parseOptionsImpl(osArgs, nil, &options)
	return
}

// Returns the options and the input file paths
func ParseFilesOptions(osArgs []string) (options api.FilesOptions, paths []string, err error) {
	options = newFilesOptions()
	_, err = parseOptionsImpl(osArgs, &options, nil)
	paths = inputPaths(osArgs)
	return
}

func inputPaths(osArgs []string) (paths []string) {
	for _, arg := range osArgs {
		if !strings.HasPrefix(arg, "-") {
			paths = append(paths, arg)
		}
	}
	return
}

func parseOptionsImpl(osArgs []string, filesOpts *api.FilesOptions, transformOpts *api.TransformOptions) (flags runFlags, err error) {
	if filesOpts != nil {
		transformOpts = &filesOpts.TransformOptions
	}

	for _, arg := range osArgs {
		switch {
		case arg == "--minify":
			transformOpts.MinifyWhitespace = true

		case arg == "--ascii-only":
			transformOpts.ASCIIOnly = true

		case arg == "--use-es":
			transformOpts.UseES = true

		case arg == "--verbose":
			flags.verbose = true

		case arg == "--watch" && filesOpts != nil:
			flags.watch = true

		case strings.HasPrefix(arg, "--library="):
			value := arg[len("--library="):]
			if value == "" {
				return flags, fmt.Errorf("Missing library name: %q", arg)
			}
			transformOpts.Library = value

		case strings.HasPrefix(arg, "--sourcefile=") && filesOpts == nil:
			transformOpts.Sourcefile = arg[len("--sourcefile="):]

		case strings.HasPrefix(arg, "--outfile=") && filesOpts != nil:
			filesOpts.Outfile = arg[len("--outfile="):]

		case strings.HasPrefix(arg, "--outdir=") && filesOpts != nil:
			filesOpts.Outdir = arg[len("--outdir="):]

		case strings.HasPrefix(arg, "--parallelism=") && filesOpts != nil:
			value := arg[len("--parallelism="):]
			parallelism, err := strconv.Atoi(value)
			if err != nil || parallelism < 1 {
				return flags, fmt.Errorf("Invalid parallelism: %q", value)
			}
			filesOpts.Parallelism = parallelism

		case strings.HasPrefix(arg, "--error-limit="):
			value := arg[len("--error-limit="):]
			limit, err := strconv.Atoi(value)
			if err != nil || limit < 0 {
				return flags, fmt.Errorf("Invalid error limit: %q", value)
			}
			transformOpts.ErrorLimit = limit

			// Make sure this stays in sync with "PrintErrorToStderr"
		case strings.HasPrefix(arg, "--color="):
			value := arg[len("--color="):]
			switch value {
			case "false":
				transformOpts.Color = api.ColorNever
			case "true":
				transformOpts.Color = api.ColorAlways
			default:
				return flags, fmt.Errorf("Invalid color: %q (valid: false, true)", value)
			}

		case strings.HasPrefix(arg, "--log-level="):
			value := arg[len("--log-level="):]
			switch value {
			case "info":
				transformOpts.LogLevel = api.LogLevelInfo
			case "warning":
				transformOpts.LogLevel = api.LogLevelWarning
			case "error":
				transformOpts.LogLevel = api.LogLevelError
			case "silent":
				transformOpts.LogLevel = api.LogLevelSilent
			default:
				return flags, fmt.Errorf("Invalid log level: %q (valid: info, warning, error, silent)", value)
			}

		case !strings.HasPrefix(arg, "-") && filesOpts != nil:
			// Input files are collected by "inputPaths"

		default:
			if filesOpts != nil {
				return flags, fmt.Errorf("Invalid flag: %q", arg)
			}
			return flags, fmt.Errorf("Invalid transform flag: %q", arg)
		}
	}

	return flags, nil
}
