package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"

	"github.com/loquia/loquia-billing-sync/server"
	"github.com/loquia/loquia-billing-sync/version"
)

var (
	addr        = flag.String("addr", "localhost:50051", "address to connect to")
	crt         = flag.String("crt", "certs/client.crt", "Path to the client certificate")
	key         = flag.String("key", "certs/client.key", "Path to the client private key")
	ca          = flag.String("ca", "certs/root_ca.crt", "Path to the CA root certificate")
	tenant      = flag.String("tenant", os.Getenv("TENANT_ID"), "Tenant whose subscription is printed")
	payments    = flag.Bool("payments", false, "Print the tenant's payment history as well")
	timeout     = flag.Duration("timeout", 5*time.Second, "Request timeout")
	versionflag = flag.Bool("version", false, "Print the version and exit")
)

func main() {
	flag.Parse()

	if *versionflag {
		version.PrintVersion(os.Stdout)
		return
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if *tenant == "" {
		logger.Fatal("No tenant given")
	}

	creds, err := server.ClientCredentials(*addr, *crt, *key, *ca)
	if err != nil {
		logger.Fatal("Error loading TLS credentials", zap.Error(err))
	}

	conn, err := grpc.NewClient(*addr, grpc.WithTransportCredentials(creds))
	if err != nil {
		logger.Fatal("Couldn't connect", zap.Error(err))
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	c := server.NewClient(conn)
	sub, err := c.GetSubscription(ctx, *tenant)
	if err != nil {
		logger.Fatal("Request failed", zap.Error(err))
	}
	printMessage(sub)

	if !*payments {
		return
	}

	list, err := c.ListPayments(ctx, *tenant)
	if err != nil {
		logger.Fatal("Request failed", zap.Error(err))
	}
	printMessage(list)
}

func printMessage(m proto.Message) {
	out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(m)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error encoding response: %s\n", err)
		return
	}
	fmt.Println(string(out))
}
