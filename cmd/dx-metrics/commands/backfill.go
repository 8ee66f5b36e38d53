package commands

import (
	"fmt"
	"time"

	"dx-metrics/internal/metrics"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	backfillStart string
	backfillEnd   string
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Replay weekly metric runs over a historical date range",
	Long: `Runs one weekly collection per report date, stepping seven days at a time
from the range start to the range end. Every run recomputes from scratch; no
state is carried between steps.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		start, err := time.Parse(metrics.DateFormat, backfillStart)
		if err != nil {
			return fmt.Errorf("invalid --start date: %w", err)
		}

		end := time.Now()
		if backfillEnd != "" {
			end, err = time.Parse(metrics.DateFormat, backfillEnd)
			if err != nil {
				return fmt.Errorf("invalid --end date: %w", err)
			}
		}

		for reportDate := start; !reportDate.After(end); reportDate = reportDate.AddDate(0, 0, 7) {
			window := metrics.NewWindow(start, reportDate, metrics.Weekly, time.Now())
			log.Info().
				Str("reportDate", reportDate.Format(metrics.DateFormat)).
				Msg("Backfill step starting")

			if err := runCollection(cmd.Context(), window); err != nil {
				return fmt.Errorf("backfill step %s: %w", reportDate.Format(metrics.DateFormat), err)
			}
		}

		return nil
	},
}

func init() {
	backfillCmd.Flags().StringVar(&backfillStart, "start", "", "first report date (YYYY-MM-DD)")
	backfillCmd.Flags().StringVar(&backfillEnd, "end", "", "last report date (YYYY-MM-DD), default today")
	_ = backfillCmd.MarkFlagRequired("start")
	rootCmd.AddCommand(backfillCmd)
}
