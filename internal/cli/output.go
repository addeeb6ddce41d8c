package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/shopfront/internal/api"
	"github.com/roach88/shopfront/internal/forms"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Backend rejected the request, validation failed, scenario failed
	ExitCommandError = 2 // Command error (bad arguments, unreadable config, database not openable)
)

// Error codes reported in CLIError for failures that are not backend errors.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeCommand    = "COMMAND_ERROR"
	CodeFailure    = "FAILURE"
)

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
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

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
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

// failure converts a backend or form error into an ExitFailure whose message
// is the text a user should see.
func failure(err error) error {
	var fe *forms.FieldError
	if errors.As(err, &fe) {
		return WrapExitError(ExitFailure, fe.Message, err)
	}
	return WrapExitError(ExitFailure, api.Message(err), err)
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status    string    `json:"status"`               // "ok" or "error"
	Data      any       `json:"data,omitempty"`       // success payload
	Error     *CLIError `json:"error,omitempty"`      // error details
	RequestID string    `json:"request_id,omitempty"` // X-Request-ID of the failed backend call
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // api.ErrorCode or one of the Code* constants
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format. In text mode
// data is printed with fmt, so result types implement fmt.Stringer.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	return f.writeError(code, message, "", details)
}

func (f *OutputFormatter) writeError(code, message, requestID string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
			RequestID: requestID,
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Report writes err in the configured format, choosing the error code from
// the most specific error type in its chain.
func (f *OutputFormatter) Report(err error) error {
	var (
		apiErr  *api.Error
		fe      *forms.FieldError
		exitErr *ExitError
	)
	code, message, requestID := CodeFailure, err.Error(), ""
	if errors.As(err, &exitErr) {
		message = exitErr.Message
		if exitErr.Code == ExitCommandError {
			code = CodeCommand
		}
	}
	switch {
	case errors.As(err, &apiErr):
		code, requestID = string(apiErr.Code), apiErr.RequestID
	case errors.As(err, &fe):
		code = CodeValidation
	case errors.Is(err, api.ErrUnavailable):
		code = string(api.ErrCodeHTTP)
	}

	var details any
	if exitErr != nil && exitErr.Err != nil {
		details = exitErr.Err.Error()
	}
	return f.writeError(code, message, requestID, details)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
