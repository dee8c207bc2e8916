package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/capitalsync-io/capsync/internal/models"
)

const (
	accountsPath     = "/api/newaccount/getAccounts2"
	transactionsPath = "/api/transaction/getUserTransactions"
)

// DateFormat is the calendar date layout the transactions endpoint
// expects.
const DateFormat = "2006-01-02"

// GetAccounts returns the current accounts snapshot.
func (c *Client) GetAccounts(ctx context.Context) (*models.AccountsSnapshot, error) {

	data, err := c.Call(ctx, accountsPath, nil)
	if err != nil {
		return nil, err
	}

	var snapshot models.AccountsSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: undecodable accounts payload: %v",
			models.ErrProtocol, err)
	}

	return &snapshot, nil
}

// GetTransactions returns the transactions between two calendar
// dates, inclusive. Both dates must be well formed and startDate must
// not be after endDate; violations fail before any network call.
func (c *Client) GetTransactions(ctx context.Context, startDate, endDate string) ([]models.Transaction, error) {

	start, err := time.Parse(DateFormat, startDate)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed start date %q", models.ErrInvalidArgument, startDate)
	}

	end, err := time.Parse(DateFormat, endDate)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed end date %q", models.ErrInvalidArgument, endDate)
	}

	if start.After(end) {
		return nil, fmt.Errorf("%w: start date %s is after end date %s",
			models.ErrInvalidArgument, startDate, endDate)
	}

	data, err := c.Call(ctx, transactionsPath, map[string]string{
		"startDate": startDate,
		"endDate":   endDate,
	})
	if err != nil {
		return nil, err
	}

	var page models.TransactionsPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("%w: undecodable transactions payload: %v",
			models.ErrProtocol, err)
	}

	return page.Transactions, nil
}
