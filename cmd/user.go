package main

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/contract-costs/internal/model"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var (
	userName     string
	userEmail    string
	userPassword string
	userRole     string
)

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an active user account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		nu, err := newUserFromFlags()
		if err != nil {
			return err
		}

		env, err := initApp(ctx, "user")
		if err != nil {
			return err
		}
		defer env.Close()

		u, err := env.Services.Auth.Register(ctx, nu)
		if err != nil {
			return eris.Wrap(err, "create user")
		}

		zap.L().Info("user created",
			zap.Int64("id", u.ID),
			zap.String("username", u.Username),
			zap.String("role", string(u.Role)),
		)
		fmt.Fprintf(cmd.OutOrStdout(), "created user %s (id %d, role %s)\n", u.Username, u.ID, u.Role)
		return nil
	},
}

// newUserFromFlags builds the account from the create flags. The role is
// checked here so a typo fails before connecting to the database.
func newUserFromFlags() (model.NewUser, error) {
	role := model.Role(strings.ToLower(strings.TrimSpace(userRole)))
	if !role.Valid() {
		return model.NewUser{}, eris.Errorf("invalid role %q (want comercial, suprimentos, diretoria, cliente or admin)", userRole)
	}
	nu := model.NewUser{
		Username: userName,
		Password: userPassword,
		Role:     role,
	}
	if userEmail != "" {
		email := userEmail
		nu.Email = &email
	}
	return nu, nil
}

func init() {
	userCreateCmd.Flags().StringVar(&userName, "username", "", "login name (required)")
	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "email address")
	userCreateCmd.Flags().StringVar(&userPassword, "password", "", "initial password (required)")
	userCreateCmd.Flags().StringVar(&userRole, "role", string(model.RoleComercial), "user role")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("password")

	userCmd.AddCommand(userCreateCmd)
	rootCmd.AddCommand(userCmd)
}
