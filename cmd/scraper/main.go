package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go-jobinja-notifier/internal/app"
	"go-jobinja-notifier/internal/config"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "scraper",
		Short:        "Scrape jobinja.ir company pages and send matching postings to Telegram",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to the YAML config file")

	root.AddCommand(newRunCmd(&configPath), newConfigCmd(&configPath))
	return root
}

func newRunCmd(configPath *string) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log.Printf("🔧 Config loaded. Keywords: %v", cfg.Keywords)

			var opts []app.Option
			if dryRun {
				log.Println("🧪 Dry run: messages are printed, not sent")
				opts = append(opts, app.WithNotifier(app.PrintNotifier{W: cmd.OutOrStdout()}))
			}

			runner, err := app.Build(cfg, opts...)
			if err != nil {
				return err
			}
			defer runner.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RunTimeout)
			defer cancel()

			log.Println("🚀 Starting jobinja notifier...")
			report := runner.Run(ctx)
			if report.Aborted {
				return fmt.Errorf("run aborted at %s: %w", report.Stage, report.Err())
			}
			log.Println("🏁 Execution finished.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print messages to stdout instead of sending them")
	return cmd
}

func newConfigCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the resolved config with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(cfg.Masked())
		},
	}
}
