package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the application version, overridable at build time via
// -ldflags "-X github.com/roach88/investcrm/internal/cli.Version=...".
var Version = "1.0"

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}
