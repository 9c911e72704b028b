package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"runtime/trace"

	"github.com/jsrewrite/ramdacut/internal/logger"
)

// Each of these returns nil if the file couldn't be created, or a function
// that finishes writing the file

func createTraceFile(osArgs []string, traceFile string) func() {
	f, err := os.Create(traceFile)
	if err != nil {
		logger.PrintErrorToStderr(osArgs, fmt.Sprintf(
			"Failed to create trace file: %s", err.Error()))
		return nil
	}
	if err := trace.Start(f); err != nil {
		f.Close()
		logger.PrintErrorToStderr(osArgs, fmt.Sprintf(
			"Failed to start trace: %s", err.Error()))
		return nil
	}
	return func() {
		trace.Stop()
		f.Close()
	}
}

func createHeapFile(osArgs []string, heapFile string) func() {
	f, err := os.Create(heapFile)
	if err != nil {
		logger.PrintErrorToStderr(osArgs, fmt.Sprintf(
			"Failed to create heap file: %s", err.Error()))
		return nil
	}
	return func() {
		if err := pprof.WriteHeapProfile(f); err != nil {
			logger.PrintErrorToStderr(osArgs, fmt.Sprintf(
				"Failed to write heap profile: %s", err.Error()))
		}
		f.Close()
	}
}

func createCpuprofileFile(osArgs []string, cpuprofileFile string) func() {
	f, err := os.Create(cpuprofileFile)
	if err != nil {
		logger.PrintErrorToStderr(osArgs, fmt.Sprintf(
			"Failed to create cpuprofile file: %s", err.Error()))
		return nil
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		logger.PrintErrorToStderr(osArgs, fmt.Sprintf(
			"Failed to start cpuprofile: %s", err.Error()))
		return nil
	}
	return func() {
		pprof.StopCPUProfile()
		f.Close()
	}
}
