package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/abadmin/internal/domain"
)

var variantCmd = &cobra.Command{
	Use:   "variant",
	Short: "Manage experiment variants",
}

var variantAddCmd = &cobra.Command{
	Use:   "add <experiment> <name>",
	Short: "Add a variant to an experiment",
	Long: `Add a variant to an experiment. Names are unique within an experiment.

Examples:
  abadmin variant add checkout-button orange --allocation 2`,
	Args: cobra.ExactArgs(2),
	RunE: runVariantAdd,
}

var (
	variantDescription string
	variantAllocation  int
)

func init() {
	variantCmd.AddCommand(variantAddCmd)

	variantAddCmd.Flags().StringVarP(&variantDescription, "description", "d", "", "Description of the variant")
	variantAddCmd.Flags().IntVarP(&variantAllocation, "allocation", "a", domain.DefaultAllocation, "Relative allocation weight")
}

func runVariantAdd(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		exp, err := app.Experiments.Resolve(ctx, args[0])
		if err != nil {
			return err
		}
		v, err := app.Experiments.AddVariant(ctx, exp.ID, args[1], variantDescription, variantAllocation)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added variant %s to %s with allocation %d\n", v.Name, exp.Name, v.Allocation)
		return nil
	})
}
