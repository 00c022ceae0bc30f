package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/carbonwise/backend/internal/app"
)

func newAnalyzeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <url>",
		Short: "Estimate the footprint of a product page",
		Long:  "Scrapes the product page, estimates its footprint and prints the analysis as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(opts.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			resp := a.Analysis.Analyze(cmd.Context(), args[0])
			if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
			if !resp.Success {
				return errors.New(resp.Error)
			}
			return nil
		},
	}
}
