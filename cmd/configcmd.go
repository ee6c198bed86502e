package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/abm-reporter/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long:  "Prints the resolved configuration (defaults, config file, environment) as YAML with credentials redacted.",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := yaml.Marshal(redacted(cfg))
		if err != nil {
			return eris.Wrap(err, "marshal config")
		}
		fmt.Print(string(out))
		return nil
	},
}

// redacted masks credential fields so the command is safe to paste into
// bug reports.
func redacted(c *config.Config) config.Config {
	out := *c
	if out.HubSpot.Token != "" {
		out.HubSpot.Token = "[redacted]"
	}
	if out.LinkedIn.Token != "" {
		out.LinkedIn.Token = "[redacted]"
	}
	if out.Factors.Key != "" {
		out.Factors.Key = "[redacted]"
	}
	return out
}

func init() {
	rootCmd.AddCommand(configCmd)
}
