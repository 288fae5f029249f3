// Package domain models exchange-rate quotes.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is one observed bid price for a currency pair.
type Quote struct {
	Pair   string          `json:"pair"`
	Bid    decimal.Decimal `json:"bid"`
	At     time.Time       `json:"at"`
	Source string          `json:"source"`
}

// IsZero reports an unset quote.
func (q Quote) IsZero() bool {
	return q.Pair == "" && q.Bid.IsZero()
}
