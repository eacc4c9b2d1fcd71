package cmd

import (
	"errors"
	"fmt"
)

// Process exit codes. The failure codes are the errno values EIO and EINVAL.
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitIO      = 5
	ExitUsage   = 22
)

// usageError marks invalid command line usage
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func newUsageError(format string, args ...interface{}) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// inputError marks a failure while reading standard input
type inputError struct {
	offset int
	err    error
}

func (e *inputError) Error() string {
	return fmt.Sprintf("IO error encountered after byte %d of stdin: %v", e.offset, e.err)
}

func (e *inputError) Unwrap() error { return e.err }

// ExitCode maps an error returned by the root command to a process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var usage *usageError
	if errors.As(err, &usage) {
		return ExitUsage
	}
	var input *inputError
	if errors.As(err, &input) {
		return ExitIO
	}
	return ExitFailure
}
