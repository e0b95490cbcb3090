package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a monetary account in the system
type Account struct {
	ID        int64           `json:"id"`
	OwnerName string          `json:"owner_name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
