package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/loquia/loquia-billing-sync/stripe/db"
	"github.com/loquia/loquia-billing-sync/stripe/types"
)

var (
	driver  = flag.String("driver", envOr("BILLING_DB_DRIVER", db.DriverMySQL), "Database driver (mysql or sqlite3)")
	dsn     = flag.String("dsn", os.Getenv("BILLING_DSN"), "Database connection string")
	timeout = flag.Duration("timeout", 10*time.Second, "Query timeout")
)

type stats interface {
	CountSubscriptionsByStatus(ctx context.Context) (map[string]int, error)
	CountEvents(ctx context.Context) (db.EventCounts, error)
	ListUnlinkedPayments(ctx context.Context) ([]types.PaymentRecord, error)
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func main() {
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if *dsn == "" {
		logger.Fatal("No database connection string given")
	}

	d, err := db.New(*driver, *dsn)
	if err != nil {
		logger.Fatal("Error connecting to database", zap.String("driver", *driver), zap.Error(err))
	}
	defer d.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, d, os.Stdout); err != nil {
		logger.Fatal("Error building report", zap.Error(err))
	}
}

func run(ctx context.Context, s stats, w io.Writer) error {
	byStatus, err := s.CountSubscriptionsByStatus(ctx)
	if err != nil {
		return fmt.Errorf("error counting subscriptions: %w", err)
	}

	events, err := s.CountEvents(ctx)
	if err != nil {
		return fmt.Errorf("error counting events: %w", err)
	}

	unlinked, err := s.ListUnlinkedPayments(ctx)
	if err != nil {
		return fmt.Errorf("error listing unlinked payments: %w", err)
	}

	report(w, byStatus, events, len(unlinked))
	return nil
}

func report(w io.Writer, byStatus map[string]int, events db.EventCounts, unlinked int) {
	statuses := lo.Keys(byStatus)
	slices.Sort(statuses)

	fmt.Fprintf(w, "Total subscriptions:    %03d\n", lo.Sum(lo.Values(byStatus)))
	for _, s := range statuses {
		fmt.Fprintf(w, "  %-20s %03d\n", s+":", byStatus[s])
	}
	fmt.Fprintf(w, "Events journaled:       %03d\n", events.Total)
	fmt.Fprintf(w, "Events processed:       %03d\n", events.Processed)
	fmt.Fprintf(w, "Events pending:         %03d\n", events.Pending)
	fmt.Fprintf(w, "Events dead-lettered:   %03d\n", events.DeadLettered)
	fmt.Fprintf(w, "Unlinked payments:      %03d\n", unlinked)
}
