package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/capitalsync-io/capsync/internal/models"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Invalidate and forget the cached session",
	RunE: func(cmd *cobra.Command, args []string) error {

		identity, _ := cmd.Flags().GetString("email")
		if len(identity) == 0 {
			identity = cfg.Login.Identity
		}
		if len(identity) == 0 {
			return fmt.Errorf("no account email configured. Pass --email or set login.identity")
		}

		c, err := newClient()
		if err != nil {
			return err
		}

		// Rehydrate so Logout knows which record to drop. A missing
		// cache record makes this a no-op.
		if err := c.Login(context.Background(), models.Credential{Identity: identity}); err != nil {
			logrus.WithError(err).Debugln("No cached session to rehydrate")
		}

		if err := c.Logout(); err != nil {
			return err
		}

		fmt.Println(successStyle.Render("Logged out."))
		return nil
	},
}

func init() {
	logoutCmd.Flags().String("email", "", "Account email (defaults to login.identity from config)")
	rootCmd.AddCommand(logoutCmd)
}
