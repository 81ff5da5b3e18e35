package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/getchaosd/chaosd/pkg/cli/internal/output"
)

// StatusOutput represents the JSON output format for status.
type StatusOutput struct {
	Endpoint  string            `json:"endpoint"`
	Reachable bool              `json:"reachable"`
	Faults    int               `json:"faults"`
	LatencyMS int               `json:"latencyMs"`
	Services  map[string]string `json:"services,omitempty"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show emulator health and active chaos",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		ctx := cmd.Context()

		out := StatusOutput{Endpoint: endpoint}
		services, err := client.Health(ctx)
		if err != nil {
			if jsonOutput {
				return output.JSON(out)
			}
			fmt.Printf("Emulator:  %s\n", endpoint)
			fmt.Printf("Status:    unreachable (%v)\n", formatConnectionError(err))
			return nil
		}
		out.Reachable = true
		out.Services = services

		if active, err := client.ListFaults(ctx); err == nil {
			out.Faults = len(active)
		}
		if effects, err := client.GetEffects(ctx); err == nil {
			out.LatencyMS = effects.Latency
		}

		if jsonOutput {
			return output.JSON(out)
		}

		fmt.Printf("Emulator:  %s\n", endpoint)
		fmt.Printf("Status:    reachable\n")
		fmt.Printf("Faults:    %d active\n", out.Faults)
		if out.LatencyMS > 0 {
			fmt.Printf("Latency:   %dms injected on all traffic\n", out.LatencyMS)
		}

		if len(services) > 0 {
			names := make([]string, 0, len(services))
			for name := range services {
				names = append(names, name)
			}
			sort.Strings(names)

			w := output.Table()
			fmt.Fprintln(w, "\nSERVICE\tSTATE")
			for _, name := range names {
				fmt.Fprintf(w, "%s\t%s\n", name, services[name])
			}
			return w.Flush()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
