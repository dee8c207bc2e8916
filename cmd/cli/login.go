package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/capitalsync-io/capsync/internal/models"
)

var loginCmd = &cobra.Command{
	Use:   "login <email>",
	Short: "Authenticate with the dashboard",
	Long: `Runs the login handshake against the dashboard and caches the
resulting session. If the dashboard does not recognize this device it
sends a two-factor code by text; enter it when prompted.

With a valid cached session this command makes no network calls.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

func runLogin(cmd *cobra.Command, args []string) error {

	// Set up signal handling for graceful cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nLogin cancelled.")
		cancel()
	}()

	identity := args[0]

	secret, err := promptForSecret()
	if err != nil {
		return err
	}

	c, err := newClient()
	if err != nil {
		return err
	}

	err = c.Login(ctx, models.Credential{
		Identity:  identity,
		Secret:    secret,
		TwoFactor: models.DeliverySMS,
	})

	switch {
	case err == nil:
	case errors.Is(err, models.ErrInvalidCredentials):
		fmt.Println(errorStyle.Render("The dashboard rejected your email or password."))
		return err
	case errors.Is(err, models.ErrChallengeExhausted):
		fmt.Println(errorStyle.Render("Too many incorrect codes. Start the login again."))
		return err
	default:
		fmt.Println(errorStyle.Render("Login failed."))
		return err
	}

	fmt.Println()
	fmt.Println(successStyle.Render("Login successful!"))
	if sessionStore != nil {
		fmt.Println(mutedStyle.Render("Session cached for future runs."))
	}

	return nil
}

func init() {
	rootCmd.AddCommand(loginCmd)
}
