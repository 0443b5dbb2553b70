package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/statemig/internal/loader"
)

// SchemaInfo describes one loaded schema file.
type SchemaInfo struct {
	Priority   int    `json:"priority"`
	Path       string `json:"path"`
	MaxVersion string `json:"max_version"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool         `json:"valid"`
	Count   int          `json:"count"`
	Oldest  string       `json:"oldest,omitempty"`
	Latest  string       `json:"latest,omitempty"`
	Schemas []SchemaInfo `json:"schemas"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schemas-dir>",
		Short: "Validate schema files",
		Long: `Load every mapping_schema_NNNN file in a directory and report the first error.

Files are checked for syntax, rule-file structure and tagged value types.
A directory with no schema files is valid.

Exit codes:
  0 - All schema files valid
  1 - A schema file is invalid
  2 - Command error (directory missing or unreadable)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, schemasDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	logger := newLogger(opts, cmd.ErrOrStderr())

	entries, err := LoadSchemas(schemasDir, logger, nil)
	if err != nil {
		return reportLoadError(formatter, err)
	}

	result := validationResult(entries)
	for _, s := range result.Schemas {
		formatter.VerboseLog("%04d %s (max version %s)", s.Priority, s.Path, s.MaxVersion)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	if result.Count == 0 {
		fmt.Fprintf(formatter.Writer, "✓ No schema files in %s\n", schemasDir)
		return nil
	}
	fmt.Fprintf(formatter.Writer, "✓ %d schema file(s) valid (%s .. %s)\n", result.Count, result.Oldest, result.Latest)
	return nil
}

func validationResult(entries []loader.Entry) ValidationResult {
	result := ValidationResult{
		Valid:   true,
		Count:   len(entries),
		Schemas: make([]SchemaInfo, 0, len(entries)),
	}
	for _, e := range entries {
		result.Schemas = append(result.Schemas, SchemaInfo{
			Priority:   e.Priority,
			Path:       e.Path,
			MaxVersion: e.Schema.MaxVersion().String(),
		})
	}
	if n := len(entries); n > 0 {
		result.Oldest = entries[0].Schema.MaxVersion().String()
		result.Latest = entries[n-1].Schema.MaxVersion().String()
	}
	return result
}
