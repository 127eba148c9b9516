package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"taskhub/internal/config"
	"taskhub/internal/db/repository"
	"taskhub/internal/service"
)

func newTokenCmd() *cobra.Command {
	var (
		email string
		ttl   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an access token for an existing account",
		Long: "Signs an HS256 access token for the given account using the " +
			"JWT_SECRET environment variable. Intended for development and " +
			"scripting; production clients log in over the API.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}
			secret := os.Getenv("JWT_SECRET")
			if secret == "" {
				return fmt.Errorf("JWT_SECRET must be set")
			}

			db, closeDB, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			users := repository.NewUserRepo(db)

			// The token only authenticates if the account exists and is
			// active, so fail early here instead of at first use.
			user, err := users.GetByEmail(cmd.Context(), email)
			if err != nil {
				return err
			}
			if !user.IsActive {
				return fmt.Errorf("account %s is deactivated", email)
			}

			token, err := service.NewAuthService(users, secret, ttl).IssueToken(user.Email)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (required)")
	cmd.Flags().DurationVar(&ttl, "ttl", config.DefaultTokenTTL, "token validity window")

	return cmd
}
