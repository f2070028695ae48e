package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fintrack-dev/fintrack/internal/config"
	"github.com/fintrack-dev/fintrack/internal/store"
)

func newInitCommand() *cobra.Command {
	var username string
	var account string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a fintrack database and config",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), absDir, username, account)
		},
	}

	cmd.Flags().StringVar(&username, "user", "default", "initial username")
	cmd.Flags().StringVar(&account, "account", "Imported", "initial account name")

	return cmd
}

func runInit(ctx context.Context, dir, username, account string) error {
	cfg := config.Default()
	cfg.Database.Path = filepath.Join(dir, "fintrack.db")
	cfg.Import.DefaultAccount = account

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	users := store.NewUserRepo(db)
	user, err := users.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("looking up user: %w", err)
	}
	var userID int64
	if user != nil {
		userID = user.ID
	} else {
		userID, err = users.Create(ctx, username, username+"@localhost")
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
	}

	accounts := store.NewAccountRepo(db)
	if _, err := accounts.FindOrCreate(ctx, userID, account, "bank"); err != nil {
		return fmt.Errorf("creating account: %w", err)
	}

	if err := config.Save(filepath.Join(dir, "fintrack.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Initialized fintrack at %s (user %q, account %q)\n", dir, username, account)
	return nil
}
