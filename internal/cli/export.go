package cli

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/statemig/internal/wire"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	As string // "json" | "yaml"
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export <schemas-dir>",
		Short: "Re-encode loaded schemas as rule documents",
		Long: `Load every schema file and write it back in the rule-file format, oldest
first. JSON output is one array; YAML output is one document per schema.
Renamed ids are always written in the "old=>new" list form.

Examples:
  statemig export ./schemas
  statemig export ./schemas --as yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.As, "as", "json", "document encoding (json|yaml)")

	return cmd
}

func runExport(opts *ExportOptions, schemasDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.As != "json" && opts.As != "yaml" {
		_ = formatter.Error(ErrCodeInvalidArgument, fmt.Sprintf("invalid --as %q: must be json or yaml", opts.As), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --as %q", opts.As))
	}

	entries, err := LoadSchemas(schemasDir, newLogger(opts.RootOptions, cmd.ErrOrStderr()), nil)
	if err != nil {
		return reportLoadError(formatter, err)
	}

	models := make([]wire.Model, 0, len(entries))
	for _, e := range entries {
		models = append(models, wire.FromSchema(e.Schema))
	}

	if formatter.Format == "json" {
		return formatter.Success(models)
	}

	if opts.As == "yaml" {
		return writeYAMLDocuments(formatter.Writer, models)
	}
	return writeJSONDocument(formatter.Writer, models)
}

func writeJSONDocument(w io.Writer, models []wire.Model) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false) // keep "=>" readable
	return enc.Encode(models)
}

func writeYAMLDocuments(w io.Writer, models []wire.Model) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, m := range models {
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
	}
	return enc.Close()
}
