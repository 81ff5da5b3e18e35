package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/getchaosd/chaosd/pkg/cli/internal/output"
	"github.com/getchaosd/chaosd/pkg/faults"
	"github.com/getchaosd/chaosd/pkg/scenario"
)

var (
	injectService     string
	injectOperation   string
	injectProbability float64
	injectStatus      int
	injectCode        string
	injectMessage     string
	injectDuration    time.Duration
)

var injectCmd = &cobra.Command{
	Use:   "inject",
	Short: "Inject a fault into the emulator",
	Long: `Inject a single fault descriptor into the emulator's chaos API.

The fault stays active until it is removed with 'chaosd recover'. With
--duration the fault is held for that long and then removed automatically,
including on Ctrl-C.`,
	Example: `  # Make every s3 call in the default region fail with 503
  chaosd inject --service s3

  # Throttle 30% of dynamodb calls
  chaosd inject --service dynamodb --probability 0.3 --status 429

  # Fail a whole region
  chaosd inject --region eu-west-1 --service ""

  # Hold a fault for two minutes, then recover automatically
  chaosd inject --service lambda --duration 2m`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if injectService == "" && region == "" {
			return fmt.Errorf("at least --service or --region must be specified")
		}

		code := injectCode
		if code == "" && injectService != "" {
			code = scenario.OutageCode(injectService, injectStatus)
		}
		spec := faults.FaultSpec{
			Service:     injectService,
			Region:      region,
			Operation:   injectOperation,
			Probability: injectProbability,
			Error: &faults.ErrorSpec{
				StatusCode: injectStatus,
				Code:       code,
				Message:    injectMessage,
			},
		}

		client := newClient()
		if injectDuration > 0 {
			return injectHeld(cmd, client, spec)
		}

		fault, err := client.AddFault(cmd.Context(), spec)
		if err != nil {
			return formatConnectionError(err)
		}

		if jsonOutput {
			return output.JSON(fault)
		}
		output.Success("Fault injected: %s", fault.ID)
		fmt.Printf("  target:      %s\n", fault.Target())
		fmt.Printf("  probability: %.0f%%\n", fault.Probability*100)
		fmt.Printf("  error:       HTTP %d (%s)\n", spec.Error.StatusCode, spec.Error.Code)
		fmt.Printf("\nRemove it with: chaosd recover %s\n", fault.ID)
		return nil
	},
}

// injectHeld injects through a lifecycle manager, holds the fault for the
// requested duration, and removes it on the way out, interrupt included.
func injectHeld(cmd *cobra.Command, client *faults.Client, spec faults.FaultSpec) error {
	manager := faults.NewManager(client, faults.WithLogger(newLogger()))
	stop := manager.InstallCleanupHandler()
	defer stop()

	id, err := manager.Inject(cmd.Context(), spec)
	if err != nil {
		return formatConnectionError(err)
	}
	output.Success("Fault injected: %s (held for %s, Ctrl-C to recover early)", id, injectDuration)

	select {
	case <-cmd.Context().Done():
	case <-time.After(injectDuration):
	}

	rep := manager.Cleanup()
	if !rep.Clean() {
		output.Warn("removed %d/%d fault(s); the emulator may retain stale faults", rep.Removed, rep.Attempted)
		return nil
	}
	output.Success("Fault %s removed", id)
	return nil
}

func init() {
	injectCmd.Flags().StringVar(&injectService, "service", "s3", "Service to fault (empty targets the whole region)")
	injectCmd.Flags().StringVar(&injectOperation, "operation", "", "Restrict the fault to one API operation")
	injectCmd.Flags().Float64Var(&injectProbability, "probability", 1.0, "Probability of the fault firing (0.0-1.0)")
	injectCmd.Flags().IntVar(&injectStatus, "status", 503, "HTTP status code to return")
	injectCmd.Flags().StringVar(&injectCode, "code", "", "Service error code (default: derived from service and status)")
	injectCmd.Flags().StringVar(&injectMessage, "message", "", "Error message returned to callers")
	injectCmd.Flags().DurationVar(&injectDuration, "duration", 0, "Hold the fault this long, then recover automatically")
	rootCmd.AddCommand(injectCmd)
}
