package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/retvizor/invest-backend/internal/common/clients/moex"
	"github.com/retvizor/invest-backend/internal/common/clients/tips"
	"github.com/retvizor/invest-backend/internal/common/config"
	"github.com/retvizor/invest-backend/internal/common/repositories/postgres"
	"github.com/retvizor/invest-backend/internal/portfolio"
	"github.com/retvizor/invest-backend/internal/quotes"
	"github.com/retvizor/invest-backend/internal/scheduler"
	"github.com/retvizor/invest-backend/internal/server"
	"github.com/retvizor/invest-backend/pkg/goosemigrate"
	"github.com/retvizor/invest-backend/pkg/log"
	"go.uber.org/zap"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "prod.yaml", "service config path")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())

	_ = godotenv.Load()

	cfg := config.GetConfig(configPath)

	if err := log.Init(cfg.Log.Level, cfg.Log.Encoding); err != nil {
		log.Fatal("log init failed", zap.Error(err))
	}

	log.Info("service starting...")

	log.Info("init postgres...")
	pool, err := pgxpool.New(ctx, cfg.GetPostgresURL())
	if err != nil {
		log.Fatal("postgres init failed", zap.Error(err))
	}

	if err := goosemigrate.NewMigrator(cfg.GetPostgresURL(), "migrations", cfg.Postgres.Schema).Up(); err != nil {
		log.Fatal("migrations up failed", zap.Error(err))
	}

	usersRepository := postgres.NewUsersRepository(pool)
	instrumentsRepository := postgres.NewInstrumentsRepository(pool)
	userInstrumentsRepository := postgres.NewUserInstrumentsRepository(pool)
	transactionsRepository := postgres.NewTransactionsRepository(pool)
	quotesRepository := postgres.NewQuotesRepository(pool)
	recommendationsRepository := postgres.NewRecommendationsRepository(pool)

	log.Info("init clients...")
	moexClient := moex.NewClient(&cfg.Moex)
	tipsClient := tips.NewClient(&cfg.Tips)

	portfolioService := portfolio.NewService(transactionsRepository, quotesRepository, moexClient)
	reconciler := quotes.NewReconciler(quotesRepository, moexClient)

	log.Info("init scheduler...")
	sched := scheduler.New()
	if err := sched.AddJob(cfg.Quotes.RefreshSpec, quotes.NewRefreshJob(reconciler)); err != nil {
		log.Fatal("failed to register quotes refresh job", zap.Error(err))
	}
	sched.Start()

	log.Info("init http server...")
	srv := server.New(&cfg.HTTP, cfg.Quotes.StocksTTL, &server.Dependencies{
		Users:           usersRepository,
		Instruments:     instrumentsRepository,
		UserInstruments: userInstrumentsRepository,
		Transactions:    transactionsRepository,
		Quotes:          quotesRepository,
		Recommendations: recommendationsRepository,
		Portfolio:       portfolioService,
		Reconciler:      reconciler,
		Moex:            moexClient,
		Tips:            tipsClient,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	log.Info("service starting complete")

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-done
	log.Info("service shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}

	sched.Stop()
	pool.Close()

	if err := log.Sync(); err != nil {
		log.Error("log sync failed", zap.Error(err))
	}

	cancel()

	log.Info("service shut down complete")
}
