package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/roach88/statemig/internal/blockstate"
	"github.com/roach88/statemig/internal/schema"
)

// UpgradeOptions holds flags for the upgrade command.
type UpgradeOptions struct {
	*RootOptions
	From  string // dotted version the state was written at
	State string // JSON block state, or "-" for stdin
}

// UpgradeResult is the JSON form of an upgraded state.
type UpgradeResult struct {
	From    string          `json:"from"`
	To      string          `json:"to"`
	Changed bool            `json:"changed"`
	State   json.RawMessage `json:"state"`
}

// NewUpgradeCommand creates the upgrade command.
func NewUpgradeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UpgradeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "upgrade <schemas-dir>",
		Short: "Upgrade one block state to the latest version",
		Long: `Upgrade a block state written at --from through every newer schema and
print the result as canonical JSON.

The state uses the form {"name": ..., "states": {prop: {"type": ..., "value": ...}}}.

Examples:
  statemig upgrade ./schemas --from 1.12 --state '{"name":"minecraft:log","states":{}}'
  cat state.json | statemig upgrade ./schemas --from 1.12 --state -`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpgrade(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "version the state was written at (required)")
	cmd.Flags().StringVar(&opts.State, "state", "", `block state as JSON, or "-" for stdin (required)`)
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("state")

	return cmd
}

func runUpgrade(opts *UpgradeOptions, schemasDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	from, err := schema.ParseVersion(opts.From)
	if err != nil {
		return invalidArgument(formatter, err)
	}

	raw, err := readState(opts.State, cmd.InOrStdin())
	if err != nil {
		return invalidArgument(formatter, err)
	}
	state, err := blockstate.Parse(raw)
	if err != nil {
		return invalidArgument(formatter, fmt.Errorf("invalid --state: %w", err))
	}

	u, err := LoadUpgrader(schemasDir, logger, nil)
	if err != nil {
		return reportLoadError(formatter, err)
	}

	steps := u.UpgradeSteps(state, from)
	upgraded := state.Clone()
	for _, step := range steps {
		formatter.VerboseLog("%s: %s", step.Version, blockstate.Encode(step.State))
		upgraded = step.State
	}

	if formatter.Format == "json" {
		return formatter.Success(UpgradeResult{
			From:    from.String(),
			To:      u.LatestVersion().String(),
			Changed: !upgraded.Equal(state),
			State:   blockstate.Encode(upgraded),
		})
	}

	fmt.Fprintf(formatter.Writer, "%s\n", blockstate.Encode(upgraded))
	return nil
}

// readState returns the --state argument, reading stdin for "-".
func readState(arg string, stdin io.Reader) ([]byte, error) {
	if arg != "-" {
		return []byte(arg), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("read state from stdin: %w", err)
	}
	if strings.TrimSpace(string(data)) == "" {
		return nil, fmt.Errorf("read state from stdin: empty input")
	}
	return data, nil
}

func invalidArgument(f *OutputFormatter, err error) error {
	_ = f.Error(ErrCodeInvalidArgument, err.Error(), nil)
	return WrapExitError(ExitCommandError, "invalid argument", err)
}
