package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mverel/caseplan/app"
	"github.com/mverel/caseplan/config"
	"github.com/mverel/caseplan/pkg/export"
)

var (
	cfgPath      string
	casesPath    string
	sessionsPath string
	outPath      string
	outFormat    string
)

var rootCmd = &cobra.Command{
	Use:   "caseplan",
	Short: "Assign weekly appointment cases to available sessions",
	RunE:  run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file")
	rootCmd.PersistentFlags().StringVar(&casesPath, "cases", "cases.csv", "case source CSV")
	rootCmd.PersistentFlags().StringVar(&sessionsPath, "sessions", "sessions.csv", "session source CSV")
	rootCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	rootCmd.Flags().StringVarP(&outFormat, "format", "f", "json", "output format: json or csv")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	planner, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	report, err := planner.Run(ctx, casesPath, sessionsPath)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	switch outFormat {
	case "json":
		return export.WriteJSON(out, report)
	case "csv":
		return export.WriteCSV(out, report)
	default:
		return fmt.Errorf("unsupported output format: %s", outFormat)
	}
}
