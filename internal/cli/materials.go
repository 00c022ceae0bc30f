package cli

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/carbonwise/backend/internal/app"
	"github.com/carbonwise/backend/internal/domain"
)

func newMaterialsCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "materials",
		Short: "Print the emission factor table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			factors, err := app.NewTables(opts.cfg).Factors()
			if err != nil {
				return err
			}

			entries := factors.Entries()
			sort.Slice(entries, func(i, j int) bool { return entries[i].Material < entries[j].Material })

			if asJSON {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			return renderMaterials(cmd, entries)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")

	return cmd
}

func renderMaterials(cmd *cobra.Command, entries []domain.EmissionFactor) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MATERIAL\tKG CO2E PER KG")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%g\n", e.Material, e.Factor)
	}
	return tw.Flush()
}
