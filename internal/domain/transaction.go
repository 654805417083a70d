package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// Transaction is one payment as returned by the Square Payments API,
// normalized into the shape of the transactions table. Amount is kept in
// minor currency units exactly as the platform reports it.
type Transaction struct {
	ID            string    // payment ID, primary key
	Amount        int64     // minor units (cents)
	Currency      string    // ISO currency code, e.g. "USD"
	CreatedAt     time.Time // payment creation time, zone-aware
	Status        string    // COMPLETED, CANCELED, ...
	OrderID       string    // empty when the payment has no order
	ReceiptNumber string
	SourceType    string
}

// SalesLine is one product line derived from a transaction's order. A
// transaction without a resolvable order still yields exactly one synthetic
// line (UnknownProduct, quantity 1, the payment's own total); downstream
// reporting relies on that.
type SalesLine struct {
	TransactionID string
	StoreID       string
	Date          civil.Date // local business date
	Time          string     // HH:MM:SS local time
	ProductName   string
	Category      Category
	Quantity      float64
	UnitPrice     float64 // major units
	TotalAmount   float64 // major units
}

// UnknownProduct is the placeholder product name used when a transaction
// carries no order line items.
const UnknownProduct = "未知商品"
