package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/capitalsync-io/capsync/internal/client"
	"github.com/capitalsync-io/capsync/internal/models"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Show the current accounts snapshot",
	Long: `Queries the dashboard for all linked accounts and their balances.
Uses the cached session when one exists; otherwise prompts for the
password and runs the full login handshake first.`,
	RunE: runAccounts,
}

func runAccounts(cmd *cobra.Command, args []string) error {

	ctx := context.Background()

	c, err := readyClient(ctx, cmd)
	if err != nil {
		return err
	}

	snapshot, err := c.GetAccounts(ctx)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render("Accounts"))
	for _, account := range snapshot.Accounts {
		balance := fmt.Sprintf("%14.2f", account.Balance)
		if account.Balance < 0 {
			balance = negativeStyle.Render(balance)
		}
		fmt.Printf("%s  %s  %s\n",
			balance,
			headerStyle.Render(account.FirmName),
			account.Name)
	}
	fmt.Println()
	fmt.Printf("%s %.2f\n", headerStyle.Render("Net worth:"), snapshot.NetWorth)

	return nil
}

// readyClient returns a logged-in client, preferring the cached
// session and falling back to an interactive handshake.
func readyClient(ctx context.Context, cmd *cobra.Command) (*client.Client, error) {

	identity, _ := cmd.Flags().GetString("email")
	if len(identity) == 0 {
		identity = cfg.Login.Identity
	}
	if len(identity) == 0 {
		return nil, fmt.Errorf("no account email configured. Pass --email or set login.identity")
	}

	c, err := newClient()
	if err != nil {
		return nil, err
	}

	credential := models.Credential{
		Identity:  identity,
		TwoFactor: models.DeliverySMS,
	}

	err = c.Login(ctx, credential)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, models.ErrInvalidArgument) {
		return nil, err
	}

	// No cached session; run the full handshake interactively.
	fmt.Println(infoStyle.Render("No cached session, logging in."))

	credential.Secret, err = promptForSecret()
	if err != nil {
		return nil, err
	}

	if err := c.Login(ctx, credential); err != nil {
		return nil, err
	}

	return c, nil
}

func init() {
	accountsCmd.Flags().String("email", "", "Account email (defaults to login.identity from config)")
	rootCmd.AddCommand(accountsCmd)
}
