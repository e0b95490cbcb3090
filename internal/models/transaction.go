package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types recorded against an account.
const (
	TxOpening     = "opening"
	TxDeposit     = "deposit"
	TxWithdrawal  = "withdrawal"
	TxTransferOut = "transfer_out"
	TxTransferIn  = "transfer_in"
)

// Transaction represents a single signed balance movement. Credits carry
// a positive amount, debits a negative one. Reference links the two legs
// of a transfer and is empty for everything else.
type Transaction struct {
	ID        int64           `json:"id"`
	AccountID int64           `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Type      string          `json:"type"`
	Reference string          `json:"reference,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}
