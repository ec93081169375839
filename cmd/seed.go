package cmd

import (
	"context"
	"fmt"

	"github.com/Greenfield-Taster/ChatService/modules/api"
	"github.com/Greenfield-Taster/ChatService/modules/store"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert demo admins and users",
	Long: `seed upserts a fixed set of demo admins and users by email. When a JWT
secret is configured it also prints a websocket token for each of them.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := store.Open(cfg.DB.Path, cfg.DB.Debug)
		if err != nil {
			return err
		}
		st := store.New(db)
		defer st.Close()

		users, err := st.Seed(context.Background(), store.DemoUsers)
		if err != nil {
			return err
		}

		var tokens *api.TokenVerifier
		if cfg.AuthEnabled() {
			tokens = api.NewTokenVerifier(cfg.Auth.JWTSecret)
		}

		out := cmd.OutOrStdout()
		for _, u := range users {
			fmt.Fprintf(out, "%-6s %-36s %s\n", u.Role, u.ID, u.Email)
			if tokens == nil {
				continue
			}
			token, err := tokens.Issue(u.ID, cfg.Auth.TokenTTL)
			if err != nil {
				return fmt.Errorf("failed to issue token for %s: %w", u.Email, err)
			}
			fmt.Fprintf(out, "       token: %s\n", token)
		}
		return nil
	},
}
