// Package cli implements the carbonwise command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/carbonwise/backend/config"
	"github.com/carbonwise/backend/internal/logging"
)

// options is shared by every subcommand; cfg is set in PersistentPreRunE
type options struct {
	debug bool
	cfg   *config.Config
}

// NewRootCmd creates the root command. Configuration and logging are set up before
// any subcommand runs; log output goes to stderr so stdout stays machine readable.
func NewRootCmd(ver string) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "carbonwise",
		Short:         "Estimate the carbon footprint of online products",
		Long:          "CarbonWise scrapes a product page, estimates its footprint in kg CO2e and suggests lower-footprint alternatives.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			level := cfg.Logging.Level
			if opts.debug {
				level = "debug"
			}
			logging.InitWithWriter(level, cfg.Logging.Format, cmd.ErrOrStderr())

			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.AddCommand(
		newAnalyzeCmd(opts),
		newRecommendCmd(opts),
		newMaterialsCmd(opts),
		newServeCmd(opts),
	)

	return cmd
}

const rootCmdExample = `  # Analyze a product page
  carbonwise analyze https://www.amazon.in/dp/B0EXAMPLE

  # Lower-footprint alternatives below 2.5 kg CO2e
  carbonwise recommend "stainless steel water bottle" --baseline 2.5

  # List known materials
  carbonwise materials

  # Start the HTTP API
  carbonwise serve`

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
