package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/taiwanway/sales-tracker/internal/config"
	"github.com/taiwanway/sales-tracker/internal/domain"
	"github.com/taiwanway/sales-tracker/internal/logger"
	"github.com/taiwanway/sales-tracker/internal/pipeline"
	"github.com/taiwanway/sales-tracker/internal/report"
	"github.com/taiwanway/sales-tracker/internal/square"
)

func main() {
	var (
		days = flag.Int("days", 7, "how many days back to analyze")
		top  = flag.Int("top", 5, "how many top products to show")
	)
	flag.Parse()

	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := cfg.RequireSquareToken(); err != nil {
		log.Fatal().Err(err).Msg("Missing credentials")
	}

	client := square.NewClient(cfg.SquareAccessToken, cfg.SquareEnvironment)
	tz := pipeline.BusinessZone()
	fetcher := pipeline.NewFetcher(client, cfg.SquareLocationID, tz)

	ctx := logger.WithContext(context.Background(), log)

	end := time.Now()
	begin := end.AddDate(0, 0, -*days)

	log.Info().Time("begin", begin).Time("end", end).Msg("Fetching payments for analysis")

	payments := fetcher.DownloadPayments(ctx, begin, end)
	if len(payments) == 0 {
		fmt.Println("期間內沒有交易資料")
		return
	}

	lines := fetcher.SalesLines(ctx, payments)
	printReport(lines, *days, *top)
}

func printReport(lines []domain.SalesLine, days, top int) {
	fmt.Printf("=== 營業分析報告（最近 %d 天）===\n\n", days)

	stats := report.TransactionStats(lines)
	fmt.Println("【交易統計】")
	fmt.Printf("  交易筆數: %d\n", stats.Count)
	fmt.Printf("  總營業額: %.0f\n", stats.Total)
	fmt.Printf("  平均客單價: %.1f\n", stats.Mean)
	fmt.Printf("  最高單筆: %.0f\n", stats.Max)
	fmt.Printf("  最低單筆: %.0f\n\n", stats.Min)

	fmt.Println("【每日營業額】")
	for _, d := range report.DailyTotals(lines) {
		fmt.Printf("  %s: %.0f\n", d.Date, d.Total)
	}
	fmt.Println()

	fmt.Println("【分類銷售】")
	for _, c := range report.CategoryBreakdown(lines) {
		fmt.Printf("  %s: 營業額 %.0f, 數量 %.0f, 交易數 %d\n", c.Category, c.Revenue, c.Quantity, c.Transactions)
	}
	fmt.Println()

	fmt.Printf("【熱銷品項 TOP %d】\n", top)
	for i, p := range report.TopProducts(lines, top) {
		fmt.Printf("  %d. %s: 營業額 %.0f, 數量 %.0f\n", i+1, p.Name, p.Revenue, p.Quantity)
	}
	fmt.Println()

	fmt.Println("【時段人流】")
	for _, h := range report.HourlyTraffic(lines) {
		fmt.Printf("  %02d 時: %d 筆\n", h.Hour, h.Transactions)
	}
	if peak, ok := report.PeakHour(lines); ok {
		fmt.Printf("  尖峰時段: %02d 時\n", peak)
	}
	if best, avg, ok := report.BestAverageHour(lines); ok {
		fmt.Printf("  客單價最高時段: %02d 時（%.1f）\n", best, avg)
	}
}
