package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-ordering-system/internal/config"
	"food-ordering-system/internal/database"
	"food-ordering-system/internal/gateway"
	"food-ordering-system/internal/logger"
	"food-ordering-system/internal/messaging"
	"food-ordering-system/internal/services/core"
	"food-ordering-system/internal/services/notification"
	"food-ordering-system/internal/services/order"
	"food-ordering-system/internal/services/payment"
	"food-ordering-system/internal/store"
	"food-ordering-system/internal/web"
)

func main() {
	var (
		mode       = flag.String("mode", "", "Service mode (gateway, core-service, transaction-service, notification-subscriber)")
		port       = flag.Int("port", 0, "HTTP port (defaults per mode)")
		configPath = flag.String("config", "config.yaml", "Path to config file")
		prefetch   = flag.Int("prefetch", 1, "RabbitMQ prefetch count")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", fmt.Sprintf("Starting %s", *mode), requestID, map[string]interface{}{
		"mode": *mode,
		"port": *port,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", "Received shutdown signal", requestID, nil)
		cancel()
	}()

	switch *mode {
	case "gateway":
		err = runGateway(ctx, cfg, log, portOrDefault(*port, 5000))
	case "core-service":
		err = runCoreService(ctx, cfg, log, portOrDefault(*port, 5002))
	case "transaction-service":
		err = runTransactionService(ctx, cfg, log, portOrDefault(*port, 5003))
	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, log, *prefetch)
	default:
		log.Error("validation_failed", fmt.Sprintf("Unknown mode: %s", *mode), requestID, nil, nil)
		os.Exit(1)
	}

	if err != nil {
		log.Error("service_failed", fmt.Sprintf("%s failed", *mode), requestID, err, nil)
		os.Exit(1)
	}

	log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
}

func portOrDefault(port, fallback int) int {
	if port > 0 {
		return port
	}
	return fallback
}

// runGateway serves the load-balancing reverse proxy.
func runGateway(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	nodes := cfg.TransactionNodeList()
	if cfg.Gateway.CoreURL == "" || len(nodes) == 0 {
		return fmt.Errorf("gateway config requires core_url and transaction_nodes")
	}

	table := gateway.NewRoutingTable(cfg.Gateway.CoreURL, nodes)
	proxy := gateway.NewProxy(table, cfg.GatewayRequestTimeout(), log)
	server := proxy.Server()

	go func() {
		log.Info("service_started", fmt.Sprintf("Gateway started on port %d", port), requestID, map[string]interface{}{
			"port":              port,
			"core_url":          cfg.Gateway.CoreURL,
			"transaction_nodes": len(nodes),
		})
		if err := server.ListenAndServe(fmt.Sprintf(":%d", port)); err != nil {
			log.Error("server_failed", "Gateway server failed", requestID, err, nil)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return server.ShutdownWithContext(shutdownCtx)
}

// runCoreService serves the auth/admin/hotel catalog.
func runCoreService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	repo := core.NewRepository(db)
	handler := core.NewHandler(repo, cfg.Admin, log)

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.HandleFunc("GET /health", healthHandler(db, "core-service"))

	return serveHTTP(ctx, log, requestID, "Core Service", port, mux)
}

// runTransactionService serves one replicated pool node hosting the
// order, payment and notification sub-services.
func runTransactionService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info("db_connected", "Connected to PostgreSQL database", requestID, nil)

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	log.Info("rabbitmq_connected", "Connected to RabbitMQ", requestID, nil)
	publisher := messaging.NewPublisher(conn, log)

	mailer, err := notification.NewMailer(&cfg.SMTP, log)
	if err != nil {
		return fmt.Errorf("failed to initialize mailer: %w", err)
	}

	var tally *store.PaymentTally
	if cfg.Redis.Addr != "" {
		tally = store.NewPaymentTally(cfg.Redis.Addr)
		defer tally.Close()

		pingCtx, pingCancel := context.WithTimeout(ctx, 3*time.Second)
		if err := tally.Ping(pingCtx); err != nil {
			log.Error("redis_unreachable", "Payment tally store unreachable, continuing without it", requestID, err, nil)
		}
		pingCancel()
	}

	orderRepo := order.NewRepository(db)
	orderService := order.NewService(orderRepo, payment.LocalAuthorizer{}, mailer, publisher, log, cfg.SMTP.BillingEmail)
	defer orderService.Wait()

	mux := http.NewServeMux()
	order.NewHandler(orderService, log).Register(mux)
	payment.NewHandler(payment.LocalAuthorizer{}, tally, log).Register(mux)
	notification.NewHandler(mailer, log).Register(mux)
	mux.HandleFunc("GET /health", healthHandler(db, "transaction-service"))

	return serveHTTP(ctx, log, requestID, "Transaction Service", port, mux)
}

// runNotificationSubscriber consumes the order-placed activity feed.
func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, messaging.OrderEventsQueue, "notification-subscriber", prefetch)
	subscriber := notification.NewSubscriber(consumer, log)
	defer subscriber.Close()

	return subscriber.Start(ctx)
}

// serveHTTP runs an HTTP server until the context is cancelled.
func serveHTTP(ctx context.Context, log *logger.Logger, requestID, name string, port int, mux *http.ServeMux) error {
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		log.Info("service_started", fmt.Sprintf("%s started on port %d", name, port), requestID, map[string]interface{}{
			"port": port,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", "HTTP server failed", requestID, err, nil)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}

// healthHandler reports liveness plus backing store reachability.
func healthHandler(db *database.DB, service string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		healthy := true
		if err := db.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			healthy = false
		}

		web.WriteJSON(w, status, map[string]interface{}{
			"service":   service,
			"healthy":   healthy,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
