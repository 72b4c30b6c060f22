package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"canary/internal/frame"
	"canary/internal/observ"
	"canary/internal/record"
	"canary/internal/report"
	"canary/internal/scenario"
	"canary/internal/version"
)

func init() {
	rootCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	rootCmd.Flags().String("config", "", "TOML file with [[scenario]] tables")
	rootCmd.Flags().Bool("sweep", false, "run the write-length sweep (5, 6, 8, 10, 12 bytes)")
	rootCmd.Flags().Int("steps", frame.Size, "number of sequential bytes to write")
	rootCmd.Flags().String("record", "", "save the finished runs to this file for replay")
	rootCmd.Flags().Bool("verify", false, "run every scenario a second time and compare")
	rootCmd.Flags().String("ui", "off", "step through the timeline interactively (auto|on|off)")
	rootCmd.MarkFlagsMutuallyExclusive("config", "sweep", "steps")
}

func runDemo(cmd *cobra.Command, _ []string) error {
	cfg, err := loadScenarios(cmd)
	if err != nil {
		return err
	}
	renderer, err := newRenderer(cmd)
	if err != nil {
		return err
	}
	recordPath, err := cmd.Flags().GetString("record")
	if err != nil {
		return fmt.Errorf("failed to get record flag: %w", err)
	}
	verify, err := cmd.Flags().GetBool("verify")
	if err != nil {
		return fmt.Errorf("failed to get verify flag: %w", err)
	}
	useUI, err := readUIFlag(cmd)
	if err != nil {
		return err
	}
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var timer *observ.Timer
	if timings {
		timer = observ.NewTimer()
	}
	if err := renderer.Begin(frame.Describe()); err != nil {
		return err
	}
	runner := &scenario.Runner{Reporter: renderer, Timer: timer}
	res, err := runner.Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if verify {
		for _, sc := range cfg.Scenarios {
			vr, err := scenario.Verify(cmd.Context(), sc)
			if err != nil {
				return err
			}
			if err := renderer.Verified(vr); err != nil {
				return err
			}
			if !vr.Identical {
				return fmt.Errorf("scenario %q is not reproducible: %s", sc.Name, vr.Mismatch)
			}
		}
	}
	if err := renderer.Finish(); err != nil {
		return err
	}

	if recordPath != "" {
		if err := record.Save(recordPath, record.New(res, version.Version)); err != nil {
			return fmt.Errorf("record %s: %w", recordPath, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "recorded %d run(s) to %s\n", len(res.Runs), recordPath)
	}
	printTimings(cmd.ErrOrStderr(), timer)

	if useUI {
		return runTimelineUI("canary", res)
	}
	return nil
}

func loadScenarios(cmd *cobra.Command) (scenario.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return scenario.Config{}, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return scenario.LoadConfig(path)
	}
	sweep, err := cmd.Flags().GetBool("sweep")
	if err != nil {
		return scenario.Config{}, fmt.Errorf("failed to get sweep flag: %w", err)
	}
	if sweep {
		return scenario.Sweep(), nil
	}
	cfg := scenario.Default()
	if cmd.Flags().Changed("steps") {
		steps, err := cmd.Flags().GetInt("steps")
		if err != nil {
			return scenario.Config{}, fmt.Errorf("failed to get steps flag: %w", err)
		}
		cfg.Scenarios[0].Name = fmt.Sprintf("write-%d", steps)
		cfg.Scenarios[0].Steps = steps
	}
	if err := cfg.Validate(); err != nil {
		return scenario.Config{}, err
	}
	return cfg, nil
}

func newRenderer(cmd *cobra.Command) (*report.Renderer, error) {
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return nil, fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := report.ParseFormat(formatStr)
	if err != nil {
		return nil, err
	}
	colorStr, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := report.ParseColorMode(colorStr)
	if err != nil {
		return nil, err
	}
	return report.New(cmd.OutOrStdout(), report.Options{
		Format:    format,
		Color:     format == report.FormatPretty && mode.Enabled(func() bool { return isTerminal(os.Stdout) }),
		Takeaways: format == report.FormatPretty,
	}), nil
}

func readUIFlag(cmd *cobra.Command) (bool, error) {
	value, err := cmd.Flags().GetString("ui")
	if err != nil {
		return false, fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(value)
	if err != nil {
		return false, err
	}
	return shouldUseTUI(mode), nil
}
