package cli

import (
	"errors"
	"fmt"

	"github.com/getchaosd/chaosd/pkg/faults"
)

// formatConnectionError turns a chaos API error into something actionable.
// Connection refusals get a hint about the emulator not running; everything
// else passes through.
func formatConnectionError(err error) error {
	var apiErr *faults.APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode == "connection_error" {
		return fmt.Errorf("cannot reach the emulator at %s (is it running?): %w", endpoint, err)
	}
	return err
}
