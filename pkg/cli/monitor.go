package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/getchaosd/chaosd/internal/cliconfig"
	"github.com/getchaosd/chaosd/pkg/monitor"
)

var (
	monitorInterval time.Duration
	monitorServices []string
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Live dashboard of faults and service health",
	Long: `Open a full-screen dashboard that polls the emulator, showing active
faults, injected latency, per-service health, and availability over time.

Run it in a second terminal while 'chaosd run' drives a scenario.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services := monitorServices
		if len(services) == 0 {
			services = cliconfig.DefaultServices
		}
		return monitor.Run(monitor.Config{
			Endpoint: endpoint,
			Region:   region,
			Services: services,
			Interval: monitorInterval,
		})
	},
}

func init() {
	monitorCmd.Flags().DurationVar(&monitorInterval, "interval", monitor.DefaultInterval, "Polling interval")
	monitorCmd.Flags().StringSliceVar(&monitorServices, "services", nil, "Services to watch")
	rootCmd.AddCommand(monitorCmd)
}
