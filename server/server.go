package server

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/url"
	"os"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// New builds a gRPC server exposing svc and the standard health service.
func New(svc SubscriptionsServer, logger *zap.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := grpc.NewServer(append(opts, grpc.ChainUnaryInterceptor(LogRequests(logger)))...)
	RegisterSubscriptionsServer(s, svc)

	hs := health.NewServer()
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	return s, hs
}

// ServerCredentials requires clients to present a certificate signed by ca.
func ServerCredentials(crt, key, ca string) (credentials.TransportCredentials, error) {
	cert, err := tls.LoadX509KeyPair(crt, key)
	if err != nil {
		return nil, fmt.Errorf("error loading certs: %w", err)
	}

	certPool, err := loadCA(ca)
	if err != nil {
		return nil, err
	}

	return credentials.NewTLS(&tls.Config{
		ClientAuth:   tls.RequireAndVerifyClientCert,
		Certificates: []tls.Certificate{cert},
		ClientCAs:    certPool,
		MinVersion:   tls.VersionTLS12,
	}), nil
}

func ClientCredentials(addr, crt, key, ca string) (credentials.TransportCredentials, error) {
	cert, err := tls.LoadX509KeyPair(crt, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load client cert: %w", err)
	}

	certPool, err := loadCA(ca)
	if err != nil {
		return nil, err
	}

	serverUrl := url.URL{Host: addr}
	return credentials.NewTLS(&tls.Config{
		ServerName:   serverUrl.Hostname(),
		Certificates: []tls.Certificate{cert},
		RootCAs:      certPool,
		MinVersion:   tls.VersionTLS12,
	}), nil
}

func loadCA(ca string) (*x509.CertPool, error) {
	caBytes, err := os.ReadFile(ca)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", ca, err)
	}

	certPool := x509.NewCertPool()
	if !certPool.AppendCertsFromPEM(caBytes) {
		return nil, fmt.Errorf("failed to parse %q", ca)
	}
	return certPool, nil
}
