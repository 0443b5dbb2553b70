package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/statemig/internal/metrics"
	"github.com/roach88/statemig/internal/store"
)

// MigrateDBOptions holds flags for the migrate-db command.
type MigrateDBOptions struct {
	*RootOptions
	Database    string
	MetricsFile string

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	RunIDs store.RunIDGenerator
}

// MigrateResult is the JSON form of a migrate-db run.
type MigrateResult struct {
	RunID         string `json:"run_id"`
	TargetVersion string `json:"target_version"`
	SchemaCount   int    `json:"schema_count"`
	Scanned       int    `json:"scanned"`
	Changed       int    `json:"changed"`
}

// NewMigrateDBCommand creates the migrate-db command.
func NewMigrateDBCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MigrateDBOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "migrate-db <schemas-dir>",
		Short: "Upgrade every stale block state in a database",
		Long: `Upgrade every stored block state written before the latest schema version
and stamp it with that version. The batch runs in one transaction and is
recorded under a time-ordered run id.

Example:
  statemig migrate-db ./schemas --db ./states.db
  statemig migrate-db ./schemas --db ./states.db --metrics-file /var/lib/node_exporter/statemig.prom`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrateDB(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "write Prometheus textfile metrics to this path")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runMigrateDB(opts *MigrateDBOptions, schemasDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())
	m := metrics.New()

	logger.Info("loading schemas", "dir", schemasDir)
	u, err := LoadUpgrader(schemasDir, logger, m)
	if err != nil {
		return reportLoadError(formatter, err)
	}

	logger.Info("opening database", "path", opts.Database)
	st, err := store.OpenWithOptions(opts.Database, store.Options{RunIDs: opts.RunIDs})
	if err != nil {
		_ = formatter.Error(ErrCodeIO, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	run, err := st.UpgradeAll(ctx, u, m)
	if err != nil {
		_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "upgrade failed", err)
	}
	logger.Info("upgrade committed",
		"run_id", run.ID,
		"scanned", run.Scanned,
		"changed", run.Changed,
	)

	if opts.MetricsFile != "" {
		if err := m.WriteTextfile(opts.MetricsFile); err != nil {
			_ = formatter.Error(ErrCodeWriteFailed, err.Error(), nil)
			return WrapExitError(ExitCommandError, "failed to write metrics", err)
		}
		logger.Debug("metrics written", "path", opts.MetricsFile)
	}

	result := MigrateResult{
		RunID:         run.ID,
		TargetVersion: run.TargetVersion.String(),
		SchemaCount:   run.SchemaCount,
		Scanned:       run.Scanned,
		Changed:       run.Changed,
	}

	if formatter.Format == "json" {
		return formatter.SuccessWithRun(result, run.ID)
	}

	fmt.Fprintf(formatter.Writer, "✓ Run %s: %d stale state(s), %d changed, now at %s\n",
		result.RunID, result.Scanned, result.Changed, result.TargetVersion)
	return nil
}
