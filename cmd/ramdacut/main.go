package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jsrewrite/ramdacut/internal/config"
	"github.com/jsrewrite/ramdacut/internal/logger"
	"github.com/jsrewrite/ramdacut/pkg/cli"
)

const ramdacutVersion = "0.1.0"

var helpText = `
Usage:
  ramdacut [options] [input files]

Rewrites whole-library imports of a functional utility library such as
"ramda" into one default import per function that is actually used, so that
bundlers only include those functions.

Options:
  --outfile=...         The output file (for one input file)
  --outdir=...          The output directory (for multiple input files)
  --library=...         The library to rewrite (default ramda)
  --use-es              Import from "<library>/es/<name>" instead of
                        "<library>/src/<name>"
  --minify              Remove whitespace from the output
  --ascii-only          Escape non-ASCII characters in the output
  --watch               Rewrite files again whenever they change
  --color=...           Force use of color terminal escapes (true or false)

Advanced options:
  --version             Print the current version and exit (` + ramdacutVersion + `)
  --sourcefile=...      The file name used in messages (for stdin)
  --error-limit=...     Maximum error count or 0 to disable (default 10)
  --log-level=...       Disable logging (info, warning, error, silent)
  --parallelism=...     Maximum number of files rewritten at once
  --verbose             Print debug traces of each rewrite
  --trace=...           Write a Go execution trace to this file
  --cpuprofile=...      Write a CPU profile to this file
  --heap=...            Write a heap profile to this file on exit

Environment:
  ` + config.EnvLibrary + `       Same as --library
  ` + config.EnvUseES + `        Same as --use-es when set to true
  ` + config.EnvParallelism + `   Same as --parallelism

Examples:
  # Rewrite a directory of files into dist/
  ramdacut src/*.js --outdir=dist

  # Provide input via stdin, get output via stdout
  ramdacut --library=rambda < input.js > output.js
`

func main() {
	osArgs := os.Args[1:]
	traceFile := ""
	cpuprofileFile := ""
	heapFile := ""

	// Do an initial scan over the argument list
	argsEnd := 0
	for _, arg := range osArgs {
		switch {
		// Show help if a common help flag is provided
		case arg == "-h", arg == "-help", arg == "--help", arg == "/?":
			fmt.Fprintf(os.Stderr, "%s\n", helpText)
			os.Exit(0)

		// Special-case the version flag here
		case arg == "--version":
			fmt.Fprintf(os.Stderr, "%s\n", ramdacutVersion)
			os.Exit(0)

		case strings.HasPrefix(arg, "--trace="):
			traceFile = arg[len("--trace="):]

		case strings.HasPrefix(arg, "--cpuprofile="):
			cpuprofileFile = arg[len("--cpuprofile="):]

		case strings.HasPrefix(arg, "--heap="):
			heapFile = arg[len("--heap="):]

		default:
			// Strip any arguments that were handled above
			osArgs[argsEnd] = arg
			argsEnd++
		}
	}
	osArgs = osArgs[:argsEnd]

	// Print help text when there are no arguments
	if len(osArgs) == 0 && logger.GetTerminalInfo(os.Stdin).IsTTY {
		fmt.Fprintf(os.Stderr, "%s\n", helpText)
		os.Exit(0)
	}

	// Capture the defer statements below so the profiles are complete before exiting
	exitCode := 1
	func() {
		// To view a trace, use "go tool trace [file]"
		if traceFile != "" {
			done := createTraceFile(osArgs, traceFile)
			if done == nil {
				return
			}
			defer done()
		}

		if heapFile != "" {
			done := createHeapFile(osArgs, heapFile)
			if done == nil {
				return
			}
			defer done()
		}

		if cpuprofileFile != "" {
			done := createCpuprofileFile(osArgs, cpuprofileFile)
			if done == nil {
				return
			}
			defer done()
		}

		exitCode = cli.Run(osArgs)
	}()

	os.Exit(exitCode)
}
