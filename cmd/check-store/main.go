package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/taiwanway/sales-tracker/internal/config"
	"github.com/taiwanway/sales-tracker/internal/logger"
	"github.com/taiwanway/sales-tracker/internal/square"
)

// Prints the locations and merchants visible to the configured access token.
// Used to find the store ID to put in SQUARE_LOCATION_ID.
func main() {
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
	ctx := context.Background()

	locs, err := client.ListLocations(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list locations")
	}

	fmt.Printf("=== 店家資訊（%d 間）===\n", len(locs.Locations))
	for _, l := range locs.Locations {
		fmt.Printf("\nID:       %s\n", l.ID)
		fmt.Printf("名稱:     %s\n", l.Name)
		fmt.Printf("狀態:     %s\n", l.Status)
		if l.Address.AddressLine1 != "" || l.Address.Locality != "" {
			fmt.Printf("地址:     %s %s\n", l.Address.Locality, l.Address.AddressLine1)
		}
		fmt.Printf("建立時間: %s\n", l.CreatedAt)
	}

	merchants, err := client.ListMerchants(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list merchants")
	}

	fmt.Printf("\n=== 商家帳號（%d 個）===\n", len(merchants.Merchants))
	for _, m := range merchants.Merchants {
		fmt.Printf("\nID:       %s\n", m.ID)
		fmt.Printf("名稱:     %s\n", m.BusinessName)
		fmt.Printf("國家:     %s\n", m.Country)
		fmt.Printf("幣別:     %s\n", m.Currency)
	}
}
