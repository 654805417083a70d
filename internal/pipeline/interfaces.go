package pipeline

import (
	"context"
	"time"

	"github.com/taiwanway/sales-tracker/internal/domain"
	"github.com/taiwanway/sales-tracker/internal/square"
)

// PaymentsAPI is the slice of the Square client the fetcher needs. Declared
// here so tests can swap in a fake without standing up an HTTP server.
type PaymentsAPI interface {
	ListPayments(ctx context.Context, p square.ListPaymentsParams) (*square.ListPaymentsResponse, error)
	RetrieveOrder(ctx context.Context, orderID string) (*square.RetrieveOrderResponse, error)
}

// Store is the persistence surface the pipeline writes to.
type Store interface {
	UpsertTransactions(ctx context.Context, txns []*domain.Transaction) error
	InsertSalesLines(ctx context.Context, lines []domain.SalesLine) error
	LatestCreatedAt(ctx context.Context) (time.Time, bool, error)
}
