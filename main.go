package main

import (
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"promptpack/cmd"
	"promptpack/pkg/logging"
)

func main() {
	err := cmd.Execute()
	syncLogger()
	if err != nil {
		os.Exit(1)
	}
}

// syncLogger flushes the process logger. Syncing stderr fails with
// "invalid argument" on some platforms when stderr is not a file, so
// only real terminals and regular files are synced and that error is
// ignored.
func syncLogger() {
	logger := logging.Logger
	if logger == nil {
		return
	}
	if term.IsTerminal(int(os.Stderr.Fd())) || isRegularFile(os.Stderr) {
		if syncErr := logger.Sync(); syncErr != nil {
			lowerErr := strings.ToLower(syncErr.Error())
			if !strings.Contains(lowerErr, "invalid argument") {
				log.Printf("Logger sync failed: %v", syncErr)
			}
		}
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
