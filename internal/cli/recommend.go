package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carbonwise/backend/internal/app"
	"github.com/carbonwise/backend/internal/usecase"
)

func newRecommendCmd(opts *options) *cobra.Command {
	var baseline float64

	cmd := &cobra.Command{
		Use:   "recommend <product name>",
		Short: "List lower-footprint alternatives from the catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tables := app.NewTables(opts.cfg)
			service := usecase.NewAnalysisService(nil, nil, tables, nil, usecase.AnalysisServiceConfig{})

			var limit *float64
			if cmd.Flags().Changed("baseline") {
				limit = &baseline
			}

			resp := service.Recommendations(cmd.Context(), strings.Join(args, " "), limit)
			if err := printJSON(cmd.OutOrStdout(), resp); err != nil {
				return err
			}
			if !resp.Success {
				return errors.New(resp.Error)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&baseline, "baseline", 0, "only list alternatives below this footprint in kg CO2e")

	return cmd
}
