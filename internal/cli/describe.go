package cli

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/roach88/statemig/internal/schema"
)

// DescribeOptions holds flags for the describe command.
type DescribeOptions struct {
	*RootOptions
	Raw bool // append a go-spew dump of each record
}

// SchemaDescription is the JSON form of one described schema.
type SchemaDescription struct {
	Priority    int    `json:"priority"`
	Path        string `json:"path"`
	MaxVersion  string `json:"max_version"`
	Description string `json:"description"`
	Raw         string `json:"raw,omitempty"`
}

// dumpConfig renders records deterministically for --raw.
var dumpConfig = &spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DescribeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "describe <schemas-dir>",
		Short: "Describe each schema in readable form",
		Long: `Print what each schema changes: block renames, added, removed and renamed
properties, and remapped property values.

Examples:
  statemig describe ./schemas
  statemig describe ./schemas --raw
  statemig describe ./schemas --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDescribe(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "append a raw dump of each decoded schema")

	return cmd
}

func runDescribe(opts *DescribeOptions, schemasDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	entries, err := LoadSchemas(schemasDir, logger, nil)
	if err != nil {
		return reportLoadError(formatter, err)
	}

	out := make([]SchemaDescription, 0, len(entries))
	for _, e := range entries {
		d := SchemaDescription{
			Priority:    e.Priority,
			Path:        e.Path,
			MaxVersion:  e.Schema.MaxVersion().String(),
			Description: schema.Describe(e.Schema),
		}
		if opts.Raw {
			d.Raw = dumpConfig.Sdump(e.Schema)
		}
		out = append(out, d)
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}

	for i, d := range out {
		if i > 0 {
			fmt.Fprintln(formatter.Writer)
		}
		fmt.Fprintf(formatter.Writer, "== %s\n%s\n", d.Path, d.Description)
		if d.Raw != "" {
			fmt.Fprint(formatter.Writer, d.Raw)
		}
	}
	return nil
}
