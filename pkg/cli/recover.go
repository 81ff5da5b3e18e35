package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getchaosd/chaosd/pkg/cli/internal/output"
)

var recoverAll bool

var recoverCmd = &cobra.Command{
	Use:   "recover [fault-id...]",
	Short: "Remove injected faults",
	Long: `Remove faults from the emulator by id, or clear all of them at once.

Targeted removal deletes each fault individually and reports the ones that
could not be removed. --all clears the emulator's entire fault set in one
call, including faults injected by other tools.`,
	Example: `  # Remove one fault
  chaosd recover 6a2038bc

  # Remove everything
  chaosd recover --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		ctx := cmd.Context()

		if recoverAll {
			active, err := client.ListFaults(ctx)
			if err != nil {
				return formatConnectionError(err)
			}
			if err := client.ClearFaults(ctx); err != nil {
				return formatConnectionError(err)
			}
			if jsonOutput {
				return output.JSON(map[string]int{"cleared": len(active)})
			}
			output.Success("Cleared %d fault(s)", len(active))
			return nil
		}

		if len(args) == 0 {
			return fmt.Errorf("specify fault ids to remove, or --all")
		}

		var failed []string
		for _, id := range args {
			if err := client.DeleteFault(ctx, id); err != nil {
				failed = append(failed, id)
				output.Warn("could not remove %s: %v", id, formatConnectionError(err))
				continue
			}
			if !jsonOutput {
				output.Success("Fault %s removed", id)
			}
		}
		if jsonOutput {
			_ = output.JSON(map[string]any{
				"removed": len(args) - len(failed),
				"failed":  failed,
			})
		}
		if len(failed) > 0 {
			return errors.New("some faults could not be removed; try 'chaosd recover --all'")
		}
		return nil
	},
}

func init() {
	recoverCmd.Flags().BoolVar(&recoverAll, "all", false, "Clear every fault on the emulator")
	rootCmd.AddCommand(recoverCmd)
}
