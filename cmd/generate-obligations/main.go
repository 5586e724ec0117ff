// generate-obligations runs the monthly obligation batch for every active
// lease, the same work the cron endpoint triggers. Useful for manual runs
// and for backfilling a missed month.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//     go run ./cmd/generate-obligations -year 2025 -month 7
//
// Omitting -year/-month targets the current calendar month.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rentaspace/rentals_backend/config"
	"github.com/rentaspace/rentals_backend/models"
)

func main() {
	now := time.Now().UTC()
	year := flag.Int("year", now.Year(), "target year")
	month := flag.Int("month", int(now.Month()), "target month (1-12)")
	flag.Parse()

	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	results, err := models.GenerateForAllLeases(ctx, *year, *month)
	if err != nil {
		fmt.Fprintf(os.Stderr, "batch generation failed: %v\n", err)
		os.Exit(1)
	}

	ok := 0
	failed := 0
	for _, result := range results {
		if result.Status == models.BatchStatusOk {
			ok++
			continue
		}
		failed++
		fmt.Fprintf(os.Stderr, "lease %d: %s\n", result.LeaseId, result.Error)
	}
	fmt.Printf("%d/%d generated for %d-%02d (%d failed)\n", ok, len(results), *year, *month, failed)
	if failed > 0 {
		os.Exit(2)
	}
}
