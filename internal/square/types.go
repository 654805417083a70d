package square

import "fmt"

// Money is an integer amount of minor currency units plus a currency code,
// exactly as the platform transmits it.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Major converts minor units to major units (cents to dollars).
func (m Money) Major() float64 {
	return float64(m.Amount) / 100.0
}

// Payment is one entry from the ListPayments endpoint.
type Payment struct {
	ID            string `json:"id"`
	AmountMoney   Money  `json:"amount_money"`
	TotalMoney    Money  `json:"total_money"`
	CreatedAt     string `json:"created_at"` // RFC 3339
	Status        string `json:"status"`
	OrderID       string `json:"order_id,omitempty"`
	ReceiptNumber string `json:"receipt_number,omitempty"`
	SourceType    string `json:"source_type,omitempty"`
	LocationID    string `json:"location_id,omitempty"`
}

// LineItem is one product entry within an order. Quantity is transmitted as a
// decimal string.
type LineItem struct {
	Name           string `json:"name"`
	Quantity       string `json:"quantity"`
	BasePriceMoney Money  `json:"base_price_money"`
	TotalMoney     Money  `json:"total_money"`
}

// Order is the subset of the order object the fetcher needs.
type Order struct {
	ID        string     `json:"id"`
	LineItems []LineItem `json:"line_items"`
}

// Address is the location address subset shown by the check-store command.
type Address struct {
	AddressLine1 string `json:"address_line_1"`
	Locality     string `json:"locality"`
	Country      string `json:"country"`
}

// Location is one physical point-of-sale.
type Location struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   Address `json:"address"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
}

// Merchant is the business owning the locations.
type Merchant struct {
	ID           string `json:"id"`
	BusinessName string `json:"business_name"`
	Country      string `json:"country"`
	LanguageCode string `json:"language_code"`
	Currency     string `json:"currency"`
}

// ListPaymentsResponse carries one page of payments plus the continuation
// cursor; an empty cursor means the page is the last one.
type ListPaymentsResponse struct {
	Payments []Payment `json:"payments"`
	Cursor   string    `json:"cursor"`
	Errors   []Error   `json:"errors,omitempty"`
}

// RetrieveOrderResponse wraps a single order.
type RetrieveOrderResponse struct {
	Order  *Order  `json:"order"`
	Errors []Error `json:"errors,omitempty"`
}

// ListLocationsResponse wraps the location list.
type ListLocationsResponse struct {
	Locations []Location `json:"locations"`
	Errors    []Error    `json:"errors,omitempty"`
}

// ListMerchantsResponse wraps the merchant list.
type ListMerchantsResponse struct {
	Merchants []Merchant `json:"merchants"`
	Errors    []Error    `json:"errors,omitempty"`
}

// Error is one platform error entry.
type Error struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail"`
	Field    string `json:"field,omitempty"`
}

// APIError is the failure side of every call: a non-2xx status or an error
// envelope in the body. Callers branch on it with errors.As.
type APIError struct {
	StatusCode int
	Errors     []Error
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("square: status %d: %s: %s", e.StatusCode, e.Errors[0].Code, e.Errors[0].Detail)
	}
	return fmt.Sprintf("square: status %d", e.StatusCode)
}
