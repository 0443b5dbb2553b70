package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/roach88/statemig/internal/loader"
	"github.com/roach88/statemig/internal/metrics"
	"github.com/roach88/statemig/internal/schema"
	"github.com/roach88/statemig/internal/upgrade"
)

// CLI error codes.
const (
	ErrCodeGeneric           = "E001" // Generic/unknown error
	ErrCodeIO                = "E002" // Schema directory or file unreadable
	ErrCodeMalformed         = "E003" // Syntax error or non-object root
	ErrCodeSchemaField       = "E004" // Missing, unknown or ill-typed rule field
	ErrCodeNotFound          = "E005" // Path not found
	ErrCodeUnknownValueType  = "E006" // Tagged value with unknown type
	ErrCodeTypeMismatch      = "E007" // Tagged value does not fit its type
	ErrCodeDuplicatePriority = "E008" // Two files share a priority
	ErrCodeWriteFailed       = "E009" // File or database write error
	ErrCodeInvalidArgument   = "E010" // Bad --from version, state or flag value
)

// LoadError is a schema load failure mapped to a CLI error code.
type LoadError struct {
	Code    string
	Message string
	Path    string
	Kind    loader.ErrorCode // loader category, empty for non-loader errors
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ExitCode reports whether the failure is in the schema files (ExitFailure)
// or in reaching them at all (ExitCommandError).
func (e *LoadError) ExitCode() int {
	switch e.Code {
	case ErrCodeIO, ErrCodeNotFound:
		return ExitCommandError
	default:
		return ExitFailure
	}
}

// MapLoaderCode maps a loader error category to a CLI error code.
func MapLoaderCode(code loader.ErrorCode) string {
	switch code {
	case loader.ErrCodeIO:
		return ErrCodeIO
	case loader.ErrCodeMalformed:
		return ErrCodeMalformed
	case loader.ErrCodeSchemaField:
		return ErrCodeSchemaField
	case loader.ErrCodeUnknownValueType:
		return ErrCodeUnknownValueType
	case loader.ErrCodeTypeMismatch:
		return ErrCodeTypeMismatch
	case loader.ErrCodeDuplicatePriority:
		return ErrCodeDuplicatePriority
	default:
		return ErrCodeGeneric
	}
}

// convertLoadError turns any loader failure into a *LoadError.
func convertLoadError(err error) *LoadError {
	var le *loader.Error
	if errors.As(err, &le) {
		return &LoadError{
			Code:    MapLoaderCode(le.Code),
			Message: le.Err.Error(),
			Path:    le.Path,
			Kind:    le.Code,
		}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}

// LoadSchemas loads the schemas directory, returning entries oldest first.
func LoadSchemas(dir string, logger *slog.Logger, m *metrics.Metrics) ([]loader.Entry, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schemas directory not found: %s", dir), Path: dir}
	}

	entries, err := loader.LoadEntries(dir, loader.Options{Logger: logger, Metrics: m})
	if err != nil {
		return nil, convertLoadError(err)
	}
	return entries, nil
}

// LoadUpgrader loads the schemas directory and wraps it in an Upgrader.
func LoadUpgrader(dir string, logger *slog.Logger, m *metrics.Metrics) (*upgrade.Upgrader, error) {
	entries, err := LoadSchemas(dir, logger, m)
	if err != nil {
		return nil, err
	}

	schemas := make([]schema.Schema, len(entries))
	for i, e := range entries {
		schemas[i] = e.Schema
	}

	u, err := upgrade.New(schemas)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error(), Path: dir}
	}
	return u, nil
}

// reportLoadError prints err through the formatter and returns the matching
// ExitError.
func reportLoadError(f *OutputFormatter, err error) error {
	var le *LoadError
	if !errors.As(err, &le) {
		le = &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}

	var details any
	if le.Path != "" || le.Kind != "" {
		details = map[string]string{"path": le.Path, "kind": string(le.Kind)}
	}
	_ = f.Error(le.Code, le.Message, details)
	return WrapExitError(le.ExitCode(), "failed to load schemas", le)
}
