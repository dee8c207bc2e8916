package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/capitalsync-io/capsync/internal/client"
)

var transactionsCmd = &cobra.Command{
	Use:   "transactions",
	Short: "List transactions for a date range",
	Long: `Queries the dashboard for user transactions between --from and
--to (inclusive). Dates use the 2006-01-02 layout; the range defaults
to the last thirty days.`,
	RunE: runTransactions,
}

func runTransactions(cmd *cobra.Command, args []string) error {

	ctx := context.Background()

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")

	if len(to) == 0 {
		to = time.Now().Format(client.DateFormat)
	}
	if len(from) == 0 {
		from = time.Now().AddDate(0, 0, -30).Format(client.DateFormat)
	}

	c, err := readyClient(ctx, cmd)
	if err != nil {
		return err
	}

	transactions, err := c.GetTransactions(ctx, from, to)
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("Transactions %s to %s", from, to)))
	for _, txn := range transactions {
		amount := fmt.Sprintf("%10.2f", txn.Amount)
		if !txn.IsCredit {
			amount = negativeStyle.Render(amount)
		}
		fmt.Printf("%s  %s  %s  %s\n",
			mutedStyle.Render(txn.TransactionDate),
			amount,
			headerStyle.Render(txn.AccountName),
			txn.Description)
	}
	fmt.Println()
	fmt.Printf("%d transactions\n", len(transactions))

	return nil
}

func init() {
	transactionsCmd.Flags().String("email", "", "Account email (defaults to login.identity from config)")
	transactionsCmd.Flags().String("from", "", "Start date, 2006-01-02 (default: 30 days ago)")
	transactionsCmd.Flags().String("to", "", "End date, 2006-01-02 (default: today)")
	rootCmd.AddCommand(transactionsCmd)
}
