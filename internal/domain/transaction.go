package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes buys from sells.
type TransactionType string

const (
	TransactionBuy  TransactionType = "buy"
	TransactionSell TransactionType = "sell"
)

// BuyTransaction records the purchase that opened a lot.
type BuyTransaction struct {
	ExternalID   string           `json:"external_id,omitempty"`
	Ticker       string           `json:"ticker"`
	Quantity     decimal.Decimal  `json:"quantity"`
	PricePerUnit decimal.Decimal  `json:"price_per_unit"`
	Fee          decimal.Decimal  `json:"fee"`
	Date         time.Time        `json:"date"`
	Account      string           `json:"account"`
	Treatment    AccountTreatment `json:"treatment"`
}

// LotConsumption is one (lot, quantity) pair consumed by a sell.
type LotConsumption struct {
	LotID    string          `json:"lot_id"`
	Quantity decimal.Decimal `json:"quantity"`
}

// SellTransaction is the realized result of a finalized sale. The sum of
// quantities across LotsUsed always equals Quantity; a sale that cannot be
// fully covered is rejected before one of these is produced.
type SellTransaction struct {
	ExternalID   string          `json:"external_id,omitempty"`
	Ticker       string          `json:"ticker"`
	Quantity     decimal.Decimal `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Fee          decimal.Decimal `json:"fee"`
	Date         time.Time       `json:"date"`
	Account      string          `json:"account"`

	CostBasis     decimal.Decimal  `json:"cost_basis"`
	Proceeds      decimal.Decimal  `json:"proceeds"`
	RealizedGain  decimal.Decimal  `json:"realized_gain"`
	HoldingPeriod HoldingPeriod    `json:"holding_period"`
	LotsUsed      []LotConsumption `json:"lots_used"`

	// WashSale is an advisory flag; it never blocks the sale.
	WashSale bool `json:"wash_sale"`
}
