package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getchaosd/chaosd/pkg/cli/internal/output"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List active faults",
	RunE: func(cmd *cobra.Command, args []string) error {
		faultList, err := newClient().ListFaults(cmd.Context())
		if err != nil {
			return formatConnectionError(err)
		}

		if jsonOutput {
			return output.JSON(faultList)
		}

		if len(faultList) == 0 {
			fmt.Println("No active faults.")
			return nil
		}

		w := output.Table()
		fmt.Fprintln(w, "ID\tTARGET\tPROBABILITY\tERROR")
		for _, f := range faultList {
			errCol := "-"
			if f.Error != nil {
				errCol = fmt.Sprintf("HTTP %d %s", f.Error.StatusCode, f.Error.Code)
			}
			fmt.Fprintf(w, "%s\t%s\t%.0f%%\t%s\n", f.ID, f.Target(), f.Probability*100, errCol)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
