package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/abm-reporter/internal/aggregate"
	"github.com/sells-group/abm-reporter/internal/csvimport"
	"github.com/sells-group/abm-reporter/internal/model"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List aggregated accounts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("refresh"); err != nil {
			return err
		}

		agg, err := newAggregator()
		if err != nil {
			return err
		}

		forceRefresh, _ := cmd.Flags().GetBool("refresh")
		list, err := agg.Aggregate(cmd.Context(), aggregate.Options{ForceRefresh: forceRefresh})
		if err != nil {
			return eris.Wrap(err, "accounts list")
		}

		merged, err := applyCSVFlags(cmd, list.Accounts)
		if err != nil {
			return err
		}

		filter, err := filterFromFlags(cmd)
		if err != nil {
			return err
		}
		accounts := aggregate.Query(merged, filter)

		if len(accounts) == 0 {
			fmt.Fprintln(os.Stderr, "No accounts matched.")
			return nil
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(accounts)
		}

		formatAccounts(os.Stdout, accounts)
		return nil
	},
}

// applyCSVFlags folds optional Fibbler and LinkedIn Ads exports into the
// account list before filtering, filling only fields the APIs left at zero.
func applyCSVFlags(cmd *cobra.Command, accounts []model.CanonicalAccount) ([]model.CanonicalAccount, error) {
	if path, _ := cmd.Flags().GetString("fibbler-csv"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "open fibbler export")
		}
		records, err := csvimport.ParseFibbler(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		accounts = csvimport.MergeFibbler(accounts, records)
	}
	if path, _ := cmd.Flags().GetString("linkedin-ads-csv"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "open linkedin ads export")
		}
		records, err := csvimport.ParseLinkedInAds(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		accounts = csvimport.MergeLinkedInAds(accounts, records)
	}
	return accounts, nil
}

func filterFromFlags(cmd *cobra.Command) (model.AccountFilter, error) {
	var f model.AccountFilter

	f.SearchQuery, _ = cmd.Flags().GetString("search")
	f.SortBy, _ = cmd.Flags().GetString("sort")
	f.SortOrder, _ = cmd.Flags().GetString("order")
	f.Page, _ = cmd.Flags().GetInt("page")
	f.PageSize, _ = cmd.Flags().GetInt("page-size")

	if cmd.Flags().Changed("min-pipeline") {
		v, _ := cmd.Flags().GetFloat64("min-pipeline")
		f.MinPipeline = &v
	}
	if cmd.Flags().Changed("min-contacts") {
		v, _ := cmd.Flags().GetInt("min-contacts")
		f.MinContacts = &v
	}
	if cmd.Flags().Changed("open-opps") {
		v, _ := cmd.Flags().GetBool("open-opps")
		f.HasOpenOpportunities = &v
	}
	if industries, _ := cmd.Flags().GetString("industries"); industries != "" {
		for _, industry := range strings.Split(industries, ",") {
			if industry = strings.TrimSpace(industry); industry != "" {
				f.Industries = append(f.Industries, industry)
			}
		}
	}

	return f, nil
}

func formatAccounts(out io.Writer, accounts []model.CanonicalAccount) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ACCOUNT\tDOMAINS\tCONTACTS\tPIPELINE\tSESSIONS\tFORMS\tOPEN OPPS")
	for _, a := range accounts {
		fmt.Fprintf(w, "%s\t%s\t%d\t$%.0f\t%d\t%d\t%d\n",
			a.AccountName,
			strings.Join(a.Domains, ","),
			a.TotalContacts,
			a.PipelineValue,
			a.WebsiteSessions,
			a.FormSubmissions,
			a.OpenOpportunities,
		)
	}
	w.Flush()
}

func init() {
	accountsCmd.Flags().String("search", "", "filter by account name or domain substring")
	accountsCmd.Flags().Float64("min-pipeline", 0, "minimum pipeline value")
	accountsCmd.Flags().Int("min-contacts", 0, "minimum total contacts")
	accountsCmd.Flags().Bool("open-opps", false, "only accounts with open opportunities")
	accountsCmd.Flags().String("industries", "", "comma-separated industry filter")
	accountsCmd.Flags().String("sort", model.SortByPipelineValue, "sort field")
	accountsCmd.Flags().String("order", model.SortDesc, "sort order (asc/desc)")
	accountsCmd.Flags().Int("page", 1, "page number")
	accountsCmd.Flags().Int("page-size", model.DefaultPageSize, "page size")
	accountsCmd.Flags().String("fibbler-csv", "", "merge a Fibbler CSV export into the results")
	accountsCmd.Flags().String("linkedin-ads-csv", "", "merge a LinkedIn Ads CSV export into the results")
	accountsCmd.Flags().Bool("refresh", false, "bypass the result cache")
	accountsCmd.Flags().Bool("json", false, "output JSON")
	rootCmd.AddCommand(accountsCmd)
}
