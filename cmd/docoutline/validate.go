package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docoutline/internal/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check outline records against the output schema",
	Long: `Validate every *.json file in dir (default: the output directory)
against the outline record schema. Prints one line per invalid file and
exits non-zero if any file is invalid.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup(cmd)
		if err != nil {
			return err
		}
		dir := cfg.OutputDir
		if len(args) == 1 {
			dir = args[0]
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("read %s: %w", dir, err)
		}

		out := cmd.OutOrStdout()
		var checked, invalid int
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
				continue
			}
			checked++
			data, err := os.ReadFile(filepath.Join(dir, e.Name()))
			if err == nil {
				err = schema.Validate(data)
			}
			if err != nil {
				invalid++
				fmt.Fprintf(out, "Invalid %s: %v\n", e.Name(), err)
			}
		}

		log.Info("validation complete", "dir", dir, "checked", checked, "invalid", invalid)
		if invalid > 0 {
			return fmt.Errorf("%d of %d records invalid", invalid, checked)
		}
		fmt.Fprintf(out, "%d records valid\n", checked)
		return nil
	},
}
