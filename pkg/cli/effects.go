package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/getchaosd/chaosd/pkg/cli/internal/output"
	"github.com/getchaosd/chaosd/pkg/faults"
)

var (
	effectsLatency time.Duration
	effectsReset   bool
)

var effectsCmd = &cobra.Command{
	Use:   "effects",
	Short: "Show or set network effects",
	Long: `Show or set emulator-wide network effects.

Unlike faults, effects have no ids and apply to all traffic at once.
Setting a latency replaces the previous value; --reset removes it.`,
	Example: `  # Slow everything down by 500ms
  chaosd effects --latency 500ms

  # Back to normal
  chaosd effects --reset

  # Show the current effects
  chaosd effects`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		ctx := cmd.Context()

		switch {
		case effectsReset:
			if err := client.SetEffects(ctx, faults.Effects{}); err != nil {
				return formatConnectionError(err)
			}
			if !jsonOutput {
				output.Success("Network effects reset")
				return nil
			}
		case effectsLatency > 0:
			e := faults.Effects{Latency: int(effectsLatency.Milliseconds())}
			if err := client.SetEffects(ctx, e); err != nil {
				return formatConnectionError(err)
			}
			if !jsonOutput {
				output.Success("Latency of %s applied to all traffic", effectsLatency)
				return nil
			}
		}

		current, err := client.GetEffects(ctx)
		if err != nil {
			return formatConnectionError(err)
		}
		if jsonOutput {
			return output.JSON(current)
		}
		if current.Latency == 0 {
			fmt.Println("No network effects active.")
		} else {
			fmt.Printf("Latency: %dms on all traffic\n", current.Latency)
		}
		return nil
	},
}

func init() {
	effectsCmd.Flags().DurationVar(&effectsLatency, "latency", 0, "Latency to add to every request (e.g. 500ms)")
	effectsCmd.Flags().BoolVar(&effectsReset, "reset", false, "Remove all network effects")
	rootCmd.AddCommand(effectsCmd)
}
