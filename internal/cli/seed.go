package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo data",
}

var seedButtonCmd = &cobra.Command{
	Use:   "button",
	Short: "Create the button color and text experiment",
	Long: `Create the landing page experiment with its five variants and spread
demo participants across them. Set BUTTON_EXPERIMENT_UUID to the printed id,
or leave it empty to have the landing page look the experiment up by name.

Examples:
  abadmin seed button --participants 12`,
	Args: cobra.NoArgs,
	RunE: runSeedButton,
}

var seedParticipants int

func init() {
	seedCmd.AddCommand(seedButtonCmd)

	seedButtonCmd.Flags().IntVarP(&seedParticipants, "participants", "n", 0, "Number of demo participants")
}

func runSeedButton(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		res, err := app.Experiments.SeedButtonExperiment(ctx, seedParticipants)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %s (%s) with %d variants and %d participants\n",
			res.Experiment.Name, res.Experiment.ID, len(res.Variants), len(res.ParticipantIDs))
		return nil
	})
}
