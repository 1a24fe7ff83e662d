package commands

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/petal-labs/oai/core"
)

// Exit codes
const (
	ExitSuccess    = 0
	ExitValidation = 1
	ExitAPI        = 2
	ExitNetwork    = 3
)

// exitError wraps an error with an exit code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func (e *exitError) ExitCode() int {
	return e.code
}

func exitWithCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// fail reports err on stderr and wraps it with code.
func (a *App) fail(code int, err error) error {
	a.printError(errorType(code), err)
	return exitWithCode(code, err)
}

// handleAPIError reports an error returned by the client and picks the exit
// code from its classification.
func (a *App) handleAPIError(err error) error {
	var apiErr *core.APIError
	switch {
	case errors.As(err, &apiErr):
		if a.jsonOutput {
			a.writeErrorJSON(map[string]any{
				"type":       apiErr.Type,
				"code":       apiErr.Code,
				"status":     apiErr.Status,
				"message":    apiErr.Message,
				"request_id": apiErr.RequestID,
			})
		} else {
			fmt.Fprintf(a.stderr, "Error: %s\n", apiErr.Message)
			if apiErr.RequestID != "" {
				fmt.Fprintf(a.stderr, "  Status: %d, Request ID: %s\n", apiErr.Status, apiErr.RequestID)
			}
		}
		return exitWithCode(ExitAPI, err)
	case errors.Is(err, core.ErrNetwork):
		return a.fail(ExitNetwork, err)
	default:
		return a.fail(ExitAPI, err)
	}
}

func (a *App) printError(errType string, err error) {
	if a.jsonOutput {
		a.writeErrorJSON(map[string]any{"type": errType, "message": err.Error()})
		return
	}
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
}

func (a *App) writeErrorJSON(fields map[string]any) {
	enc := json.NewEncoder(a.stderr)
	enc.SetIndent("", "  ")
	_ = enc.Encode(map[string]any{"error": fields})
}

func (a *App) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func errorType(code int) string {
	switch code {
	case ExitValidation:
		return "validation_error"
	case ExitNetwork:
		return "network_error"
	default:
		return "api_error"
	}
}
