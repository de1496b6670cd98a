package main

import (
	"errors"
	"fmt"
	"os"
)

var version = "dev"

func main() {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		PrintError(err.Error())
		os.Exit(exitCode(err))
	}
}

// exitCode maps usage errors to 2 and everything else to 1.
func exitCode(err error) int {
	var usage *usageError
	if errors.As(err, &usage) {
		return 2
	}
	return 1
}

type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}
