package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/abm-reporter/internal/aggregate"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Fetch all sources once and print aggregation totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("refresh"); err != nil {
			return err
		}

		agg, err := newAggregator()
		if err != nil {
			return err
		}

		list, err := agg.Aggregate(cmd.Context(), aggregate.Options{ForceRefresh: true})
		if err != nil {
			return err
		}

		stats := aggregate.Summarize(list.Accounts)
		zap.L().Info("aggregation complete", zap.Int("accounts", list.TotalCount))

		fmt.Printf("Accounts:            %d\n", stats.TotalAccounts)
		fmt.Printf("Total pipeline:      $%.2f\n", stats.TotalPipeline)
		fmt.Printf("Total contacts:      %d\n", stats.TotalContacts)
		fmt.Printf("Website sessions:    %d\n", stats.TotalWebsiteSessions)
		fmt.Printf("Form submissions:    %d\n", stats.TotalFormSubmissions)
		fmt.Printf("Open opportunities:  %d\n", stats.OpenOpportunities)
		fmt.Printf("Org LinkedIn reach:  %d impressions\n", list.OrgEngagement.TotalImpressions)
		fmt.Printf("Last synced:         %s\n", list.LastSynced.Format("2006-01-02 15:04:05 MST"))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(refreshCmd)
}
