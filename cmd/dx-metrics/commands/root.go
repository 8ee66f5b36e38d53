package commands

import (
	"context"
	"fmt"
	"time"

	"dx-metrics/internal/config"
	"dx-metrics/internal/events"
	"dx-metrics/internal/github"
	"dx-metrics/internal/logging"
	"dx-metrics/internal/metrics"
	"dx-metrics/internal/sinks"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig

	period       string
	orgFilter    []string
	includeRepos []string
	excludeRepos []string
)

var rootCmd = &cobra.Command{
	Use:   "dx-metrics",
	Short: "dx-metrics aggregates engineering-health metrics for GitHub repositories",
	Long: `Collects per-issue lifecycle metrics (time to first contact, time to close,
time to resolve, open-item counts) across a set of repositories, rolls them up
into per-repository summaries, and publishes them to reporting sinks.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("dx-metrics starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		p := metrics.Period(period)
		if p != metrics.Daily && p != metrics.Weekly {
			return fmt.Errorf("invalid period %q: must be %q or %q", period, metrics.Daily, metrics.Weekly)
		}

		window := metrics.RunNowWindow(p, time.Now())
		return runCollection(cmd.Context(), window)
	},
}

// runCollection wires the collaborators for one run and executes it.
func runCollection(ctx context.Context, window metrics.Window) error {
	repoList, err := config.LoadRepos(cfg.ReposFile)
	if err != nil {
		return err
	}
	repos := repoList.Select(orgFilter, includeRepos, excludeRepos)

	ghCfg := cfg.GitHub
	ghCfg.Since = window.StaleCutoff
	source := github.NewClient(ghCfg)

	deriver := metrics.NewDeriver(events.NewProcessor(cfg.Admins), cfg.Admins)
	collector := metrics.NewCollector(
		source,
		deriver,
		sinks.NewSheetsSink(cfg.Sheets),
		sinks.NewDatadogSink(cfg.Datadog),
		metrics.WithWorkers(cfg.Workers),
	)

	return collector.Run(ctx, repos, window)
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringSliceVarP(&orgFilter, "org", "o", nil, "organizations to run on (default: all)")
	rootCmd.PersistentFlags().StringSliceVarP(&includeRepos, "include", "i", nil, "repositories to include")
	rootCmd.PersistentFlags().StringSliceVarP(&excludeRepos, "exclude", "e", nil, "repositories to exclude")
	rootCmd.Flags().StringVarP(&period, "period", "p", "", "reporting period: daily or weekly")
	_ = rootCmd.MarkFlagRequired("period")
}
