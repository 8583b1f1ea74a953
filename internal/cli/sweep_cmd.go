package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSweepCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-attributions",
		Short: "Delete expired temporary attributions",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := env.open(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			result, err := app.Attributions.SweepExpired(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d expired attributions\n", result.Deleted)
			return nil
		},
	}
}
