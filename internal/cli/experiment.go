package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/abadmin/internal/domain"
	"github.com/emiliopalmerini/abadmin/internal/experiments"
	"github.com/emiliopalmerini/abadmin/internal/util"
)

var experimentCmd = &cobra.Command{
	Use:   "experiment",
	Short: "Manage experiments",
	Long:  `Create and inspect experiments and move them through their lifecycle.`,
}

var experimentCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a draft experiment",
	Long: `Create a new experiment in draft status.

Examples:
  abadmin experiment create "checkout-button" --description "Green vs orange"`,
	Args: cobra.ExactArgs(1),
	RunE: runExperimentCreate,
}

var experimentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all experiments",
	Args:  cobra.NoArgs,
	RunE:  runExperimentList,
}

var experimentShowCmd = &cobra.Command{
	Use:   "show <id|name>",
	Short: "Show an experiment with its variant shares",
	Args:  cobra.ExactArgs(1),
	RunE:  runExperimentShow,
}

var experimentAllocateCmd = &cobra.Command{
	Use:   "allocate <id|name> <variant>=<allocation>...",
	Short: "Set variant allocations",
	Long: `Set the allocation weight of one or more variants.

Examples:
  abadmin experiment allocate checkout-button control=2 orange=1`,
	Args: cobra.MinimumNArgs(2),
	RunE: runExperimentAllocate,
}

var expDescription string

func init() {
	experimentCmd.AddCommand(experimentCreateCmd)
	experimentCmd.AddCommand(experimentListCmd)
	experimentCmd.AddCommand(experimentShowCmd)
	experimentCmd.AddCommand(experimentAllocateCmd)
	for _, a := range domain.Actions {
		experimentCmd.AddCommand(newTransitionCmd(a))
	}

	experimentCreateCmd.Flags().StringVarP(&expDescription, "description", "d", "", "Description of the experiment")
}

func newTransitionCmd(action domain.Action) *cobra.Command {
	verb := strings.ToLower(string(action))
	return &cobra.Command{
		Use:   verb + " <id|name>",
		Short: fmt.Sprintf("Apply the %s action to an experiment", action),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *AppContext) error {
				exp, err := app.Experiments.Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				from := exp.Status
				exp, err = app.Experiments.Transition(ctx, exp.ID, action)
				if err != nil {
					return err
				}
				if exp.Status == from {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is already %s\n", exp.Name, statusBadge(exp.Status))
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", exp.Name, statusBadge(from), statusBadge(exp.Status))
				return nil
			})
		},
	}
}

func runExperimentCreate(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		exp, err := app.Experiments.CreateExperiment(ctx, args[0], expDescription)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created experiment %s (%s)\n", exp.Name, exp.ID)
		return nil
	})
}

func runExperimentList(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		exps, err := app.Experiments.List(ctx)
		if err != nil {
			return err
		}
		if len(exps) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No experiments found")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSTATUS\tVARIANTS\tSTARTED\tENDED")
		fmt.Fprintln(w, "--\t----\t------\t--------\t-------\t-----")
		for _, e := range exps {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
				e.ID, e.Name, statusBadge(e.Status), len(e.VariantIDs),
				util.FormatDateTime(e.StartDate), util.FormatDateTime(e.EndDate))
		}
		return w.Flush()
	})
}

func runExperimentShow(cmd *cobra.Command, args []string) error {
	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		exp, err := app.Experiments.Resolve(ctx, args[0])
		if err != nil {
			return err
		}
		summary, err := app.Experiments.Summary(ctx, exp.ID)
		if err != nil {
			return err
		}
		printSummary(cmd, summary)
		return nil
	})
}

func printSummary(cmd *cobra.Command, s *experiments.Summary) {
	out := cmd.OutOrStdout()
	exp := s.Experiment

	fmt.Fprintf(out, "%s %s\n", headingStyle.Render(exp.Name), statusBadge(exp.Status))
	if exp.Description != "" {
		fmt.Fprintln(out, exp.Description)
	}
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("id %s · started %s · ended %s",
		exp.ID, util.FormatDateTime(exp.StartDate), util.FormatDateTime(exp.EndDate))))
	fmt.Fprintln(out)

	if len(s.Variants) == 0 {
		fmt.Fprintln(out, "No variants")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VARIANT\tALLOCATION\tEXPECTED\tPARTICIPANTS\tOBSERVED")
	fmt.Fprintln(w, "-------\t----------\t--------\t------------\t--------")
	for _, v := range s.Variants {
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%s\n",
			v.Variant.Name, v.Variant.Allocation, util.FormatPercent(v.AllocationPct),
			v.ParticipantCount, util.FormatPercent(v.ParticipantPct))
	}
	fmt.Fprintf(w, "TOTAL\t%d\t\t%d\t\n", s.TotalAllocation, s.TotalParticipants)
	_ = w.Flush()
}

func runExperimentAllocate(cmd *cobra.Command, args []string) error {
	pairs, err := parseAllocationArgs(args[1:])
	if err != nil {
		return err
	}

	return withApp(cmd, func(ctx context.Context, app *AppContext) error {
		exp, err := app.Experiments.Resolve(ctx, args[0])
		if err != nil {
			return err
		}
		variants, err := app.Experiments.Variants(ctx, exp)
		if err != nil {
			return err
		}

		updates := make([]experiments.AllocationUpdate, 0, len(pairs))
		for _, p := range pairs {
			v := domain.FindVariantByName(variants, p.name)
			if v == nil {
				return fmt.Errorf("%w: %q", domain.ErrVariantNotFound, p.name)
			}
			updates = append(updates, experiments.AllocationUpdate{VariantID: v.ID, Allocation: p.allocation})
		}
		if err := app.Experiments.UpdateAllocations(ctx, exp.ID, updates); err != nil {
			return err
		}

		summary, err := app.Experiments.Summary(ctx, exp.ID)
		if err != nil {
			return err
		}
		printSummary(cmd, summary)
		return nil
	})
}

type allocationArg struct {
	name       string
	allocation int
}

func parseAllocationArgs(args []string) ([]allocationArg, error) {
	out := make([]allocationArg, 0, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("expected <variant>=<allocation>, got %q", arg)
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("allocation for %s is not a whole number: %q", name, value)
		}
		out = append(out, allocationArg{name: strings.TrimSpace(name), allocation: n})
	}
	return out, nil
}
