package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/edt-api/internal/models"
	"github.com/noah-isme/edt-api/internal/service"
)

func newCreateUserCmd(env *Env) *cobra.Command {
	var email, password, fullName, role string

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account, typically the first administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := env.open(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			user, err := app.Auth.CreateUser(cmd.Context(), service.CreateUserRequest{
				Email:    email,
				Password: password,
				FullName: fullName,
				Role:     models.UserRole(role),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s user %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&password, "password", "", "Password, at least 8 characters")
	cmd.Flags().StringVar(&fullName, "name", "", "Display name")
	cmd.Flags().StringVar(&role, "role", string(models.RoleAdmin), "ADMIN, CHEF or PROFESSOR")

	return cmd
}
