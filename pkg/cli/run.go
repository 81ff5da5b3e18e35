package cli

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/getchaosd/chaosd/internal/cliconfig"
	"github.com/getchaosd/chaosd/pkg/cli/internal/output"
	"github.com/getchaosd/chaosd/pkg/faults"
	"github.com/getchaosd/chaosd/pkg/loadgen"
	"github.com/getchaosd/chaosd/pkg/probe"
	"github.com/getchaosd/chaosd/pkg/scenario"
)

var (
	runList            bool
	runConfigFile      string
	runMetricsAddr     string
	runService         string
	runSecondaryRegion string
	runProbability     float64
	runErrorCode       int
	runLatency         time.Duration
	runResource        string
	runRate            int
	runBatches         int
	runInterval        time.Duration
	runServices        []string
)

var runCmd = &cobra.Command{
	Use:   "run [scenario]",
	Short: "Run a chaos scenario with guaranteed fault cleanup",
	Long: `Run a named chaos scenario: inject faults, observe the effect on the
emulated services, and recover.

Every fault injected during a run is tracked and removed when the run
finishes, including on Ctrl-C. If targeted removal partially fails, the
emulator's entire fault set is cleared in one call as a fallback.`,
	Example: `  # See what is available
  chaosd run --list

  # Take s3 down and watch callers fail
  chaosd run service-outage --service s3

  # Throttle dynamodb with a 20 req/s limit
  chaosd run api-throttling --service dynamodb --rate 20

  # Expose probe metrics while the scenario runs
  chaosd run network-partition --metrics-addr :9400`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if runList || len(args) == 0 {
			return listScenarios()
		}

		s, ok := scenario.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown scenario %q; run 'chaosd run --list' to see what is available", args[0])
		}

		cfg, err := cliconfig.Load(runConfigFile)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("endpoint") {
			endpoint = cfg.Endpoint
		}
		if !cmd.Flags().Changed("region") {
			region = cfg.Region
		}

		logger := newLogger()
		client := faults.NewClient(endpoint, faults.WithTimeout(cfg.Timeout))
		manager := faults.NewManager(client, faults.WithLogger(logger))

		// Remove every injected fault on the way out, whether the run ends
		// normally or on SIGINT/SIGTERM.
		stop := manager.InstallCleanupHandler()
		defer stop()
		defer func() {
			rep := manager.Cleanup()
			if rep.Attempted > 0 && !rep.Clean() {
				output.Warn("cleanup removed %d/%d fault(s); the emulator may retain stale faults", rep.Removed, rep.Attempted)
			}
		}()

		metrics := loadgen.NewMetrics()
		if runMetricsAddr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			go func() {
				if err := http.ListenAndServe(runMetricsAddr, mux); err != nil {
					logger.Error("metrics server failed", "addr", runMetricsAddr, "error", err)
				}
			}()
			fmt.Printf("metrics: http://localhost%s/metrics\n", runMetricsAddr)
		}

		services := runServices
		if len(services) == 0 {
			services = cfg.Services
		}

		env := &scenario.Env{
			Manager:  manager,
			Client:   client,
			Prober:   probe.New(endpoint, probe.WithRegion(region)),
			Metrics:  metrics,
			Logger:   logger,
			Out:      os.Stdout,
			Endpoint: endpoint,
			RunID:    uuid.NewString(),
			Opts: scenario.Options{
				Service:         runService,
				Region:          region,
				SecondaryRegion: runSecondaryRegion,
				Probability:     runProbability,
				ErrorCode:       runErrorCode,
				Latency:         runLatency,
				Resource:        runResource,
				Rate:            runRate,
				Batches:         runBatches,
				Interval:        runInterval,
				Services:        services,
				Dependencies:    cfg.Dependencies,
			},
		}

		fmt.Printf("scenario: %s\nrun id:   %s\nendpoint: %s\n", s.Name, env.RunID, endpoint)
		return s.Run(cmd.Context(), env)
	},
}

func listScenarios() error {
	all := scenario.All()
	if jsonOutput {
		type item struct {
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		items := make([]item, 0, len(all))
		for _, s := range all {
			items = append(items, item{s.Name, s.Description})
		}
		return output.JSON(items)
	}

	w := output.Table()
	fmt.Fprintln(w, "SCENARIO\tDESCRIPTION")
	for _, s := range all {
		fmt.Fprintf(w, "%s\t%s\n", s.Name, s.Description)
	}
	return w.Flush()
}

func init() {
	runCmd.Flags().BoolVar(&runList, "list", false, "List available scenarios")
	runCmd.Flags().StringVar(&runConfigFile, "config", "", "Path to a chaosd.yaml config file")
	runCmd.Flags().StringVar(&runMetricsAddr, "metrics-addr", "", "Serve Prometheus probe metrics on this address while running")
	runCmd.Flags().StringVar(&runService, "service", "", "Service the scenario targets")
	runCmd.Flags().StringVar(&runSecondaryRegion, "secondary-region", "", "Healthy region for failover comparisons")
	runCmd.Flags().Float64Var(&runProbability, "probability", 0, "Fault probability override (0.0-1.0)")
	runCmd.Flags().IntVar(&runErrorCode, "status", 0, "HTTP status code override")
	runCmd.Flags().DurationVar(&runLatency, "latency", 0, "Latency for the latency scenario")
	runCmd.Flags().StringVar(&runResource, "resource", "", "Resource type for the exhaustion scenario")
	runCmd.Flags().IntVar(&runRate, "rate", 0, "Simulated request rate limit")
	runCmd.Flags().IntVar(&runBatches, "batches", 0, "Number of load batches")
	runCmd.Flags().DurationVar(&runInterval, "interval", 0, "Pacing between observation probes")
	runCmd.Flags().StringSliceVar(&runServices, "services", nil, "Services for multi-service scenarios")
	rootCmd.AddCommand(runCmd)
}
