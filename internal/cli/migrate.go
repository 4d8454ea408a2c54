package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/investcrm/internal/store"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or migrate the database and exit",
		Long: `Create or migrate the database and exit.

Opening the store applies the schema and any pending migrations; this
command exists so deployments can run migrations separately from serving.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "database ready: %s\n", cfg.Database.Path)
			return nil
		},
	}
}
