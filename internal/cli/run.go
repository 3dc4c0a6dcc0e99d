package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KirillLvov/userfs/internal/logging"
	"github.com/KirillLvov/userfs/internal/scenario"
)

// ErrScenarioFailed is returned when at least one step missed its expectation.
var ErrScenarioFailed = errors.New("scenario failed")

var runCmd = &cobra.Command{
	Use:   "run <scenario.yaml>...",
	Short: "Replay scenario files against a fresh filesystem",
	Long: `Run each scenario file against its own fresh filesystem and print a
per-step report. Every step without an expect block must succeed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScenarios,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runScenarios(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	verbose := getVerboseFlag(cmd) || cfg.Verbose
	logger := logging.NewWriterLogger(cmd.ErrOrStderr(), verbose)

	out := cmd.OutOrStdout()
	styles := newReportStyles(useColor(out))

	failed := 0
	for _, path := range args {
		s, err := scenario.Load(path)
		if err != nil {
			return err
		}
		logger.Verbose("running %s (%d steps)", s.Name, len(s.Steps))

		rep, err := scenario.Run(s, cfg.Options(logger))
		if err != nil {
			return err
		}
		renderReport(out, rep, styles)
		failed += rep.Failed()
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d step(s) did not meet expectations", ErrScenarioFailed, failed)
	}
	return nil
}
