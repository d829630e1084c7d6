package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"arbor/internal/services"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, exitMessage(err))
		}
		os.Exit(1)
	}
}

// exitMessage prefixes the error with its failure class so a failed run can
// be diagnosed from the terminal without opening the log file.
func exitMessage(err error) string {
	switch {
	case errors.Is(err, services.ErrConfiguration):
		return "configuration problem: " + err.Error()
	case errors.Is(err, services.ErrRemote):
		return "remote storage failure: " + err.Error()
	case errors.Is(err, services.ErrValidation):
		return "invalid data: " + err.Error()
	case errors.Is(err, services.ErrNotFound):
		return "not found: " + err.Error()
	case errors.Is(err, services.ErrTransient):
		return "temporary failure, retry later: " + err.Error()
	default:
		return err.Error()
	}
}
