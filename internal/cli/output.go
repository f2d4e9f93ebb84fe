package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // invalid scenario
	ExitCommandError = 2 // bad arguments, unreadable files
)

// ExitError carries the exit code a command failed with.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure if err is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// loadExitCode tells a missing scenario file apart from an invalid one.
func loadExitCode(err error) int {
	if errors.Is(err, fs.ErrNotExist) {
		return ExitCommandError
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Response is the JSON envelope of every command's output.
type Response struct {
	Status string `json:"status"` // "ok" or "error"
	Data   any    `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Success writes data. In text mode text is written as is.
func (f *OutputFormatter) Success(data any, text string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	}

	_, err := io.WriteString(f.Writer, text)
	return err
}

// Error writes err and returns it wrapped with code.
func (f *OutputFormatter) Error(code int, message string, err error) error {
	exitErr := WrapExitError(code, message, err)

	if f.Format == "json" {
		if encErr := json.NewEncoder(f.Writer).Encode(Response{Status: "error", Error: exitErr.Error()}); encErr != nil {
			return encErr
		}
		return exitErr
	}

	fmt.Fprintf(f.Writer, "Error: %s\n", exitErr.Error())
	return exitErr
}
