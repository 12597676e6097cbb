package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"brokee-go/internal/avatar"
	"brokee-go/internal/chat"
	"brokee-go/internal/config"
	"brokee-go/internal/courses"
	"brokee-go/internal/database"
	"brokee-go/internal/events"
	"brokee-go/internal/gamification"
	"brokee-go/internal/logger"
	"brokee-go/internal/market"
	"brokee-go/internal/portfolio"
	"brokee-go/internal/trading"
	"go.uber.org/zap"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// Initialize database. Instruments are reset on every boot; everything
	// else (positions, transactions, balance, badges, progress) survives.
	db, err := database.NewDatabase(&cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if _, err := database.EnsureAccount(db, cfg.Trading.StartingBalance); err != nil {
		log.Fatal("Failed to initialize account", zap.Error(err))
	}
	log.Info("Database connection successful and schema migrated.")

	bus := events.NewBus(log)
	store := database.NewBlobStore(db)

	feed := market.NewFeed(log, &cfg, db, bus, 0)
	if err := feed.Seed(); err != nil {
		log.Fatal("Failed to seed instruments", zap.Error(err))
	}

	ledger := portfolio.NewLedger(log, db)
	gamify, err := gamification.NewService(log, &cfg, db, store, bus)
	if err != nil {
		log.Fatal("Failed to initialize gamification", zap.Error(err))
	}
	engine := trading.NewEngine(log, &cfg, db, feed, ledger, gamify, bus)
	courseSvc := courses.NewService(log, store, gamify)
	avatarSvc := avatar.NewService(log)
	chatClient := chat.NewClient(&cfg.Chat, log)

	// Positions track the live feed: every tick revalues the ledger.
	bus.Subscribe(events.PricesTicked, func() {
		instruments, err := feed.Instruments()
		if err != nil {
			log.Error("Failed to load instruments for revaluation", zap.Error(err))
			return
		}
		prices := make(map[string]float64, len(instruments))
		for _, inst := range instruments {
			prices[inst.Symbol] = inst.Price
		}
		if err := ledger.Revalue(prices); err != nil {
			log.Error("Failed to revalue positions", zap.Error(err))
		}
	})

	// Setup HTTP server
	mux := http.NewServeMux()

	apiHandler := &APIHandler{
		log:          log,
		feed:         feed,
		engine:       engine,
		ledger:       ledger,
		gamification: gamify,
		courses:      courseSvc,
		avatar:       avatarSvc,
		chat:         chatClient,
	}

	// API endpoints
	mux.HandleFunc("/api/health", apiHandler.HealthHandler)
	mux.HandleFunc("/api/market", apiHandler.MarketHandler)
	mux.HandleFunc("/api/orders", apiHandler.OrdersHandler)
	mux.HandleFunc("/api/portfolio", apiHandler.PortfolioHandler)
	mux.HandleFunc("/api/transactions", apiHandler.TransactionsHandler)
	mux.HandleFunc("/api/gamification", apiHandler.GamificationHandler)
	mux.HandleFunc("/api/visits", apiHandler.VisitsHandler)
	mux.HandleFunc("/api/courses", apiHandler.CoursesHandler)
	mux.HandleFunc("/api/courses/complete", apiHandler.CompleteCourseHandler)
	mux.HandleFunc("/api/avatar", apiHandler.AvatarHandler)
	mux.HandleFunc("/api/outfits", apiHandler.OutfitsHandler)
	mux.HandleFunc("/api/chat", apiHandler.ChatHandler)

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Run the price feed simulator
	go feed.Run(ctx)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Info("Starting web server", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Web server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Web server shutdown failed", zap.Error(err))
	}

	log.Info("Server has been shut down.")
}
