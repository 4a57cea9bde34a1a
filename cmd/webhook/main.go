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
	"github.com/loquia/loquia-billing-sync/version"
)

var (
	stripeEndpointSecret string
	stripeSecretKey      string
	listenAddr           string
	listenEndpoint       string
	driver               string
	dsn                  string
	tolerance            time.Duration
	debug                bool
	versionflag          bool
)

func init() {
	flag.StringVar(&stripeEndpointSecret, "endpoint-secret", os.Getenv("STRIPE_WEBHOOK_SECRET"), "Stripe endpoint secret")
	flag.StringVar(&stripeSecretKey, "secret-key", os.Getenv("STRIPE_SECRET_KEY"), "Stripe API secret key")
	flag.StringVar(&listenAddr, "listen-address", envOr("LISTEN_ADDRESS", "127.0.0.1:8081"), "Address to listen on")
	flag.StringVar(&listenEndpoint, "listen-endpoint", listener.DefaultEndpoint, "Endpoint of the listener")
	flag.StringVar(&driver, "driver", envOr("BILLING_DB_DRIVER", db.DriverMySQL), "Database driver (mysql or sqlite3)")
	flag.StringVar(&dsn, "dsn", os.Getenv("BILLING_DSN"), "Database connection string")
	flag.DurationVar(&tolerance, "tolerance", 5*time.Minute, "Maximum age of a signed webhook")
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

	if stripeEndpointSecret == "" {
		logger.Fatal("No Stripe endpoint secret given")
	}
	if stripeSecretKey == "" {
		logger.Fatal("No Stripe secret key given")
	}
	if dsn == "" {
		logger.Fatal("No database connection string given")
	}

	logger.Info("Starting webhook receiver", version.Fields()...)

	d, err := db.New(driver, dsn)
	if err != nil {
		logger.Fatal("Error connecting to database", zap.Error(err))
	}
	defer d.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := d.Migrate(ctx); err != nil {
		logger.Fatal("Error migrating database", zap.Error(err))
	}

	p := processor.New(processor.Config{Key: stripeSecretKey, MaxRetries: 2}, logger)
	l := listener.New(listener.Config{
		Secret:     stripeEndpointSecret,
		ListenAddr: listenAddr,
		Endpoint:   listenEndpoint,
		Tolerance:  tolerance,
	}, d, p, logger)

	if err := l.Start(ctx); err != nil {
		logger.Fatal("Error after calling listener.Start", zap.Error(err))
	}
}
