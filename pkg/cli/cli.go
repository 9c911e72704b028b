package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsrewrite/ramdacut/internal/logger"
	"github.com/jsrewrite/ramdacut/pkg/api"
	"go.uber.org/zap"
)

func Run(osArgs []string) int {
	return run(osArgs, os.Stdin, os.Stdout)
}

func run(osArgs []string, stdin io.Reader, stdout io.Writer) int {
	filesOptions, paths, transformOptions, flags, err := parseOptionsForRun(osArgs)
	if err != nil {
		logger.PrintErrorToStderr(osArgs, err.Error())
		return 1
	}

	z := zap.NewNop()
	if flags.verbose {
		if z, err = zap.NewDevelopment(); err != nil {
			logger.PrintErrorToStderr(osArgs, fmt.Sprintf(
				"Failed to create logger: %s", err.Error()))
			return 1
		}
		defer z.Sync()
	}

	switch {
	case filesOptions != nil:
		filesOptions.Logger = z
		toStdout := filesOptions.Outfile == "" && filesOptions.Outdir == ""
		if toStdout && len(paths) > 1 {
			logger.PrintErrorToStderr(osArgs, "Must use \"outdir\" when there are multiple input files")
			return 1
		}
		filesOptions.Write = !toStdout

		// Output written to stdout is only valid if there's exactly one file
		onResult := func(result api.FilesResult) bool {
			ok := len(result.Errors) == 0
			for _, file := range result.Files {
				if len(file.Errors) > 0 {
					ok = false
					continue
				}
				if toStdout && file.OutputFile != nil {
					if _, err := stdout.Write(file.OutputFile.Contents); err != nil {
						logger.PrintErrorToStderr(osArgs, fmt.Sprintf(
							"Failed to write to stdout: %s", err.Error()))
						ok = false
					}
				}
			}
			return ok
		}

		if flags.watch {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := api.Watch(ctx, paths, *filesOptions, func(result api.FilesResult) { onResult(result) }); err != nil {
				return 1
			}
			return 0
		}

		if !onResult(api.TransformFiles(context.Background(), paths, *filesOptions)) {
			return 1
		}

	case transformOptions != nil:
		transformOptions.Logger = z

		// Read the input from stdin
		bytes, err := io.ReadAll(stdin)
		if err != nil {
			logger.PrintErrorToStderr(osArgs, fmt.Sprintf(
				"Could not read from stdin: %s", err.Error()))
			return 1
		}

		// Run the transform and stop if there were errors
		result := api.Transform(string(bytes), *transformOptions)
		if len(result.Errors) > 0 {
			return 1
		}

		// Write the output to stdout
		if _, err := stdout.Write(result.JS); err != nil {
			logger.PrintErrorToStderr(osArgs, fmt.Sprintf(
				"Failed to write to stdout: %s", err.Error()))
			return 1
		}
	}

	return 0
}

// This returns either FilesOptions, TransformOptions, or an error
func parseOptionsForRun(osArgs []string) (*api.FilesOptions, []string, *api.TransformOptions, runFlags, error) {
	// If there's an input file, then we're rewriting files
	if paths := inputPaths(osArgs); len(paths) > 0 {
		options := newFilesOptions()
		flags, err := parseOptionsImpl(osArgs, &options, nil)
		if err != nil {
			return nil, nil, nil, flags, err
		}
		return &options, paths, nil, flags, nil
	}

	// Otherwise, we're transforming stdin
	options := newTransformOptions()
	flags, err := parseOptionsImpl(osArgs, nil, &options)
	if err != nil {
		return nil, nil, nil, flags, err
	}
	return nil, nil, &options, flags, nil
}
