package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"

	"github.com/loquia/loquia-billing-sync/stripe/db"
	"github.com/loquia/loquia-billing-sync/stripe/listener"
	"github.com/loquia/loquia-billing-sync/stripe/processor"
	"github.com/loquia/loquia-billing-sync/stripe/replay"
	"github.com/loquia/loquia-billing-sync/stripe/sync"
	"github.com/loquia/loquia-billing-sync/version"
)

var (
	stripeSecretKey string
	driver          string
	dsn             string
	once            bool
	syncDrift       bool
	interval        time.Duration
	maxAttempts     int
	batchSize       int
	debug           bool
	versionflag     bool
)

func init() {
	flag.StringVar(&stripeSecretKey, "secret-key", os.Getenv("STRIPE_SECRET_KEY"), "Stripe API secret key")
	flag.StringVar(&driver, "driver", envOr("BILLING_DB_DRIVER", db.DriverMySQL), "Database driver (mysql or sqlite3)")
	flag.StringVar(&dsn, "dsn", os.Getenv("BILLING_DSN"), "Database connection string")
	flag.BoolVar(&once, "once", false, "Run a single sweep and exit")
	flag.BoolVar(&syncDrift, "sync", false, "Also compare live subscriptions with Stripe after each sweep")
	flag.DurationVar(&interval, "interval", 5*time.Minute, "Time between sweeps")
	flag.IntVar(&maxAttempts, "max-attempts", 5, "Sweeps an event may fail before it is dead-lettered")
	flag.IntVar(&batchSize, "batch-size", 100, "Events replayed per sweep")
	flag.BoolVar(&debug, "debug", false, "Human readable debug logging")
	flag.BoolVar(&versionflag, "version", false, "Print the version and exit")
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func main() {
	flag.Parse()

	if versionflag {
		version.PrintVersion(os.Stdout)
		return
	}

	logger, _ := zap.NewProduction()
	if debug {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	if stripeSecretKey == "" {
		logger.Fatal("No Stripe secret key given")
	}
	if dsn == "" {
		logger.Fatal("No database connection string given")
	}

	d, err := db.New(driver, dsn)
	if err != nil {
		logger.Fatal("Error connecting to database", zap.Error(err))
	}
	defer d.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := processor.New(processor.Config{Key: stripeSecretKey, MaxRetries: 2}, logger)
	l := listener.New(listener.Config{}, d, p, logger)
	r := replay.New(replay.Config{
		BatchSize:   batchSize,
		MaxAttempts: maxAttempts,
		Interval:    interval,
	}, d, l, logger)

	drift := func() {
		if !syncDrift {
			return
		}
		res, err := sync.Run(ctx, d, p, l, logger)
		if err != nil {
			logger.Error("Drift sync finished with errors", zap.Error(err))
		}
		logger.Info(
			"Drift sync done",
			zap.Int("checked", res.Checked),
			zap.Int("resynced", res.Resynced),
			zap.Int("canceled", res.Canceled),
		)
	}

	if once {
		res, err := r.Sweep(ctx)
		if err != nil {
			logger.Fatal("Replay sweep failed", zap.Error(err))
		}
		logger.Info(
			"Replay sweep done",
			zap.Int("replayed", res.Replayed),
			zap.Int("failed", res.Failed),
			zap.Int("dead_lettered", res.DeadLettered),
		)
		drift()
		return
	}

	logger.Info("Starting replay worker", append(version.Fields(), zap.Duration("interval", interval))...)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := r.Run(ctx); err != nil {
			logger.Error("Replay worker stopped", zap.Error(err))
		}
	}()

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		drift()
		select {
		case <-ctx.Done():
			<-done
			return
		case <-t.C:
		}
	}
}
