package models

import "encoding/json"

// Account is a read-only projection of one entry in the accounts
// snapshot. Fields mirror the dashboard's JSON; anything the server
// adds beyond these is preserved in Raw.
type Account struct {
	UserAccountID int64   `json:"userAccountId"`
	Name          string  `json:"name"`
	FirmName      string  `json:"firmName"`
	AccountType   string  `json:"accountType"`
	Balance       float64 `json:"balance"`
	Currency      string  `json:"currency"`
	ClosedDate    string  `json:"closedDate,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// AccountsSnapshot is the spData payload of the accounts query.
type AccountsSnapshot struct {
	NetWorth float64   `json:"networth"`
	Accounts []Account `json:"accounts"`
}

// Transaction is a read-only projection of one user transaction.
type Transaction struct {
	UserTransactionID int64   `json:"userTransactionId"`
	AccountName       string  `json:"accountName"`
	TransactionDate   string  `json:"transactionDate"`
	Description       string  `json:"description"`
	Amount            float64 `json:"amount"`
	IsCredit          bool    `json:"isCredit"`
	CategoryID        int64   `json:"categoryId"`
}

// TransactionsPage is the spData payload of the transactions query.
type TransactionsPage struct {
	StartDate    string        `json:"startDate"`
	EndDate      string        `json:"endDate"`
	Transactions []Transaction `json:"transactions"`
}
