package main

import (
	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/pipeline"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Process the input directory, then keep processing new or changed files",
	Long: `Run the batch once, then watch the input directory and write a record
for every matching file that is created or rewritten. A file is processed
once its change events have been quiet for WATCH_SETTLE. Files whose
content is unchanged since they were last processed are skipped.

Stops on Ctrl+C or SIGTERM.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}

		w := pipeline.NewWatcher(newRunner(cfg, cmd.OutOrStdout(), log), cfg.WatchSettle, log)
		report, err := w.Run(cmd.Context())
		if err != nil {
			log.Error("watch failed", "error", err)
			return err
		}

		c := report.Snapshot().Counts
		log.Info("watch summary", "run_id", report.RunID, "total", c.Total,
			"completed", c.Completed, "degraded", c.Degraded, "write_failed", c.WriteFailed)
		return nil
	},
}
