// Package pipeline pulls payments out of the Square API and turns them into
// transactions and sales lines in the local store. Everything is sequential:
// one page at a time, one order lookup at a time, no retries. A failing page
// fetch ends the run with whatever was collected so far; a failing order
// lookup degrades that payment to a single synthetic sales line.
package pipeline

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/civil"

	"github.com/taiwanway/sales-tracker/internal/category"
	"github.com/taiwanway/sales-tracker/internal/domain"
	"github.com/taiwanway/sales-tracker/internal/logger"
	"github.com/taiwanway/sales-tracker/internal/square"
)

// Fetcher downloads payments for one location and derives sales lines.
type Fetcher struct {
	api        PaymentsAPI
	locationID string
	tz         *time.Location
}

// NewFetcher builds a Fetcher. The client is injected; the Fetcher never
// constructs its own.
func NewFetcher(api PaymentsAPI, locationID string, tz *time.Location) *Fetcher {
	return &Fetcher{api: api, locationID: locationID, tz: tz}
}

// DownloadPayments follows the pagination cursor until the API stops handing
// one back. An API failure mid-run is logged and ends the loop; the payments
// collected up to that point are returned, indistinguishable from a complete
// result. That no-retry, keep-partial policy is inherited deliberately.
func (f *Fetcher) DownloadPayments(ctx context.Context, begin, end time.Time) []square.Payment {
	log := logger.FromContext(ctx)

	var all []square.Payment
	cursor := ""
	for {
		resp, err := f.api.ListPayments(ctx, square.ListPaymentsParams{
			BeginTime:  begin.Format(time.RFC3339),
			EndTime:    end.Format(time.RFC3339),
			LocationID: f.locationID,
			Cursor:     cursor,
			Limit:      square.DefaultPageSize,
		})
		if err != nil {
			log.Error().Err(err).Int("collected", len(all)).Msg("Listing payments failed, stopping pagination")
			break
		}

		all = append(all, resp.Payments...)
		log.Debug().Int("page", len(resp.Payments)).Int("total", len(all)).Msg("Fetched payments page")

		cursor = resp.Cursor
		if cursor == "" {
			break
		}
	}
	return all
}

// Transactions converts raw payments into store rows. A payment whose
// created_at does not parse is skipped and logged; the batch continues.
func (f *Fetcher) Transactions(ctx context.Context, payments []square.Payment) []*domain.Transaction {
	log := logger.FromContext(ctx)

	txns := make([]*domain.Transaction, 0, len(payments))
	for _, p := range payments {
		created, err := time.Parse(time.RFC3339, p.CreatedAt)
		if err != nil {
			log.Warn().Str("payment_id", p.ID).Str("created_at", p.CreatedAt).Msg("Unparsable payment timestamp, skipping")
			continue
		}
		txns = append(txns, &domain.Transaction{
			ID:            p.ID,
			Amount:        p.AmountMoney.Amount,
			Currency:      p.AmountMoney.Currency,
			CreatedAt:     created,
			Status:        p.Status,
			OrderID:       p.OrderID,
			ReceiptNumber: p.ReceiptNumber,
			SourceType:    p.SourceType,
		})
	}
	return txns
}

// SalesLines derives sales lines for every payment. Each payment contributes
// at least one line: real line items when the order resolves, otherwise a
// single synthetic 未知商品 line carrying the payment's own total.
func (f *Fetcher) SalesLines(ctx context.Context, payments []square.Payment) []domain.SalesLine {
	log := logger.FromContext(ctx)

	var lines []domain.SalesLine
	for _, p := range payments {
		created, err := time.Parse(time.RFC3339, p.CreatedAt)
		if err != nil {
			log.Warn().Str("payment_id", p.ID).Str("created_at", p.CreatedAt).Msg("Unparsable payment timestamp, skipping sales lines")
			continue
		}
		local := created.In(f.tz)

		items := f.lineItems(ctx, p)
		if len(items) == 0 {
			lines = append(lines, f.syntheticLine(p, local))
			continue
		}
		for _, item := range items {
			lines = append(lines, f.itemLine(p, item, local))
		}
	}
	return lines
}

// lineItems resolves a payment's order. Any failure, a payment without an
// order ID included, yields nil so the caller falls back to the synthetic
// line.
func (f *Fetcher) lineItems(ctx context.Context, p square.Payment) []square.LineItem {
	if p.OrderID == "" {
		return nil
	}

	log := logger.FromContext(ctx)
	resp, err := f.api.RetrieveOrder(ctx, p.OrderID)
	if err != nil {
		log.Warn().Err(err).Str("payment_id", p.ID).Str("order_id", p.OrderID).Msg("Order lookup failed, falling back to synthetic sales line")
		return nil
	}
	if resp.Order == nil {
		return nil
	}
	return resp.Order.LineItems
}

func (f *Fetcher) itemLine(p square.Payment, item square.LineItem, local time.Time) domain.SalesLine {
	name := item.Name
	if name == "" {
		name = domain.UnknownProduct
	}
	return domain.SalesLine{
		TransactionID: p.ID,
		StoreID:       f.locationID,
		Date:          civil.DateOf(local),
		Time:          local.Format("15:04:05"),
		ProductName:   name,
		Category:      category.Classify(name),
		Quantity:      parseQuantity(item.Quantity),
		UnitPrice:     item.BasePriceMoney.Major(),
		TotalAmount:   item.TotalMoney.Major(),
	}
}

func (f *Fetcher) syntheticLine(p square.Payment, local time.Time) domain.SalesLine {
	total := p.AmountMoney.Major()
	return domain.SalesLine{
		TransactionID: p.ID,
		StoreID:       f.locationID,
		Date:          civil.DateOf(local),
		Time:          local.Format("15:04:05"),
		ProductName:   domain.UnknownProduct,
		Category:      domain.CategoryOther,
		Quantity:      1,
		UnitPrice:     total,
		TotalAmount:   total,
	}
}

// parseQuantity reads the API's decimal-string quantity, defaulting to 0 on
// malformed input rather than dropping the line.
func parseQuantity(q string) float64 {
	f, err := strconv.ParseFloat(q, 64)
	if err != nil {
		return 0
	}
	return f
}

// Run executes one full download: resolve the window, page through payments,
// upsert transactions, derive and append sales lines. Returns how many of
// each were written.
func Run(ctx context.Context, f *Fetcher, store Store, mode Mode, now time.Time) (txns, lines int, err error) {
	log := logger.FromContext(ctx)

	begin, end := ResolveWindow(ctx, store, mode, now, f.tz)
	log.Info().Time("begin", begin).Time("end", end).Msg("Downloading payments")

	payments := f.DownloadPayments(ctx, begin, end)
	if len(payments) == 0 {
		log.Warn().Msg("No payments found in window")
		return 0, 0, nil
	}

	transactions := f.Transactions(ctx, payments)
	if err := store.UpsertTransactions(ctx, transactions); err != nil {
		return 0, 0, fmt.Errorf("pipeline.Run: upserting transactions: %w", err)
	}

	salesLines := f.SalesLines(ctx, payments)
	if err := store.InsertSalesLines(ctx, salesLines); err != nil {
		return len(transactions), 0, fmt.Errorf("pipeline.Run: inserting sales lines: %w", err)
	}

	return len(transactions), len(salesLines), nil
}
