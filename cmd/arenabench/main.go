package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess      = 0 // All tasks passed
	ExitTasksFailed  = 1 // One or more tasks failed
	ExitRuntimeError = 2 // Configuration or runtime error
)

// TaskFailureError indicates that the assessment ran to completion, but one
// or more tasks failed.
type TaskFailureError struct {
	Message string
}

func (e *TaskFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var taskFailureErr *TaskFailureError
		if errors.As(err, &taskFailureErr) {
			os.Exit(ExitTasksFailed)
		}

		os.Exit(ExitRuntimeError)
	}
}
