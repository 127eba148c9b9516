package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"taskhub/internal/db/repository"
	"taskhub/internal/domain"
)

func newCreateAdminCmd() *cobra.Command {
	var (
		email    string
		name     string
		password string
	)

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account, or promote an existing one",
		Long: "Creates an admin account with the given email. If the email already " +
			"belongs to an account, it is promoted to admin instead. Safe to run " +
			"repeatedly.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if email == "" {
				return fmt.Errorf("--email is required")
			}

			db, closeDB, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer closeDB()

			ctx := cmd.Context()
			users := repository.NewUserRepo(db)

			existing, err := users.GetByEmail(ctx, email)
			if err == nil {
				if existing.IsAdmin {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is already an admin\n", email)
					return nil
				}
				on := true
				if _, err := users.Update(ctx, existing.ID, &domain.UpdateUserRequest{IsAdmin: &on}, ""); err != nil {
					return fmt.Errorf("promote %s: %w", email, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "promoted %s to admin\n", email)
				return nil
			}
			var notFound *domain.NotFoundError
			if !errors.As(err, &notFound) {
				return err
			}

			if password == "" {
				password, err = promptPassword()
				if err != nil {
					return err
				}
			}

			req := &domain.CreateUserRequest{
				Email:       email,
				DisplayName: name,
				Password:    password,
				IsAdmin:     true,
			}
			if err := req.Validate(); err != nil {
				return err
			}

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}

			created, err := users.Create(ctx, &domain.User{
				Email:        email,
				DisplayName:  name,
				PasswordHash: string(hash),
				IsActive:     true,
				IsAdmin:      true,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (id %d)\n", created.Email, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email (required)")
	cmd.Flags().StringVar(&name, "name", "Administrator", "display name")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")

	return cmd
}

// promptPassword reads the password twice from the terminal without echo.
func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	first, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	fmt.Fprint(os.Stderr, "Confirm password: ")
	second, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	if string(first) != string(second) {
		return "", fmt.Errorf("passwords do not match")
	}
	return string(first), nil
}
