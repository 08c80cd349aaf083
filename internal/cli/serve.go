package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/themizzi/storefront-e2e/internal/config"
	"github.com/themizzi/storefront-e2e/internal/handlers"
	"github.com/themizzi/storefront-e2e/internal/models"
	"github.com/themizzi/storefront-e2e/internal/services"
)

// ServerDependencies holds all dependencies needed for the stand-in storefront
type ServerDependencies struct {
	ServerConfig config.ServerConfig
	Storefront   http.Handler
	Static       http.Handler
	Log          *zap.Logger
}

// BuildServerDependencies wires the storefront over orders, which is either
// the Postgres or the in-memory order repository.
func BuildServerDependencies(cfg config.ServerConfig, orders services.OrderRepository, log *zap.Logger) (ServerDependencies, error) {
	if log == nil {
		log = zap.NewNop()
	}
	store := services.NewStore(models.DefaultCatalog(), services.NewOrderService(orders), log.Named("store"))
	storefront, err := handlers.NewStorefront(store, log.Named("http"))
	if err != nil {
		return ServerDependencies{}, fmt.Errorf("failed to create storefront: %w", err)
	}
	return ServerDependencies{
		ServerConfig: cfg,
		Storefront:   storefront,
		Static:       handlers.Static(),
		Log:          log,
	}, nil
}

// RunServe starts the stand-in storefront and blocks until SIGINT or SIGTERM
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	return WaitForShutdown(server, nil, deps.logger())
}

func (d ServerDependencies) logger() *zap.Logger {
	if d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}

// StartServer creates and starts the HTTP server, returning the listener and server
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	log := deps.logger()

	mux := http.NewServeMux()
	mux.Handle("/", deps.Storefront)
	mux.Handle("/static/", deps.Static)

	addr := fmt.Sprintf(":%s", deps.ServerConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("storefront listening", zap.String("addr", listener.Addr().String()))
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", zap.Error(err))
		}
	}()

	return listener, server, nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server.
// If shutdown is nil, a channel registered for SIGINT and SIGTERM is used.
func WaitForShutdown(server *http.Server, shutdown chan os.Signal, log *zap.Logger) error {
	return WaitForShutdownWithTimeout(server, shutdown, 30*time.Second, log)
}

// WaitForShutdownWithTimeout is WaitForShutdown with a custom grace period.
func WaitForShutdownWithTimeout(server *http.Server, shutdown chan os.Signal, shutdownTimeout time.Duration, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(shutdown)
	}

	sig := <-shutdown
	log.Info("shutting down server", zap.Stringer("signal", sig))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		// http.Server.Close does not report listener close errors, so this
		// only fails when the server cannot be torn down at all.
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	log.Info("server stopped")
	return nil
}
