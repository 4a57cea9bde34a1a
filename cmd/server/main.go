package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/loquia/loquia-billing-sync/server"
	"github.com/loquia/loquia-billing-sync/stripe/db"
	"github.com/loquia/loquia-billing-sync/version"
)

var (
	port        int
	crt         string
	key         string
	ca          string
	driver      string
	dsn         string
	debug       bool
	versionflag bool
)

func init() {
	flag.IntVar(&port, "port", 50051, "The server port")
	flag.StringVar(&crt, "crt", "certs/server.crt", "Path to the server certificate")
	flag.StringVar(&key, "key", "certs/server.key", "Path to the server private key")
	flag.StringVar(&ca, "ca", "certs/root_ca.crt", "Path to CA root certificate")
	flag.StringVar(&driver, "driver", envOr("BILLING_DB_DRIVER", db.DriverMySQL), "Database driver (mysql or sqlite3)")
	flag.StringVar(&dsn, "dsn", os.Getenv("BILLING_DSN"), "Database DSN")
	flag.BoolVar(&debug, "debug", false, "Human readable debug logging")
	flag.BoolVar(&versionflag, "version", false, "Print the version and exit")
}

func envOr(k, fallback string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
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

	if dsn == "" {
		logger.Fatal("No database connection string given")
	}

	d, err := db.New(driver, dsn)
	if err != nil {
		logger.Fatal("Error connecting to database", zap.Error(err))
	}
	defer d.Close()

	creds, err := server.ServerCredentials(crt, key, ca)
	if err != nil {
		logger.Fatal("Error loading TLS credentials", zap.Error(err))
	}

	s, hs := server.New(server.NewService(d, logger), logger, grpc.Creds(creds))

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		logger.Fatal("Couldn't listen", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		hs.SetServingStatus(server.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
		s.GracefulStop()
	}()

	logger.Info("Server listening", append(version.Fields(), zap.Stringer("address", lis.Addr()))...)
	if err := s.Serve(lis); err != nil {
		logger.Fatal("Error serving", zap.Error(err))
	}
}
