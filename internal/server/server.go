package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/retvizor/invest-backend/internal/common/config"
	"github.com/retvizor/invest-backend/internal/common/domain"
	"github.com/retvizor/invest-backend/pkg/cache"
	"github.com/retvizor/invest-backend/pkg/log"
	"go.uber.org/zap"
)

// PortfolioService processes buy and sell requests over the user's lots.
type PortfolioService interface {
	Buy(ctx context.Context, userInstrument *domain.UserInstrument, count int, price float64, comment string) error
	Sell(ctx context.Context, userID, ticker string, count int, comment string) error
}

// QuoteReconciler refreshes stored daily candles from the market-data
// provider.
type QuoteReconciler interface {
	ReconcileAll(ctx context.Context) error
}

// IntradayClient serves the intraday candle proxy endpoint.
type IntradayClient interface {
	GetIntradayCandles(ctx context.Context, ticker string, day time.Time) ([]*domain.Candle, error)
}

// TipsClient fetches recommendations for user instruments; every caller
// treats a failure as "no tip".
type TipsClient interface {
	GetInstrumentTip(ctx context.Context, userInstrumentID string) (*domain.InstrumentTip, error)
}

type Dependencies struct {
	Users           domain.UsersRepository
	Instruments     domain.InstrumentsRepository
	UserInstruments domain.UserInstrumentsRepository
	Transactions    domain.TransactionsRepository
	Quotes          domain.QuotesRepository
	Recommendations domain.RecommendationsRepository

	Portfolio  PortfolioService
	Reconciler QuoteReconciler
	Moex       IntradayClient
	Tips       TipsClient
}

type Server struct {
	router *chi.Mux
	server *http.Server

	stocksCache *cache.Cache

	deps *Dependencies
}

func New(cfg *config.HTTP, stocksTTL time.Duration, deps *Dependencies) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		stocksCache: cache.New(stocksTTL, stocksTTL/2),
		deps:        deps,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

func (s *Server) setupMiddlewares() {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
}

func (s *Server) setupRoutes() {
	s.router.Get("/health-check", s.handleHealthCheck)

	s.router.Post("/user", s.handleSignIn)
	s.router.Get("/user/{userId}", s.handleGetUser)
	s.router.Get("/user/{userId}/transactions", s.handleGetTransactions)
	s.router.Get("/user/{userId}/journal", s.handleGetJournal)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/instruments", s.handleGetStocks)

		r.Get("/user/{userId}/instruments", s.handleGetUserInstruments)
		r.Route("/user/instruments", func(r chi.Router) {
			r.Post("/", s.handleCreateUserInstrument)
			r.Post("/sell", s.handleSell)
			r.Get("/{id}", s.handleGetUserInstrumentDetails)
			r.Delete("/{id}", s.handleDeleteUserInstrument)
		})

		r.Get("/quotes/daily/{ticker}", s.handleGetDailyQuotes)
		r.Get("/recomendations/stocks", s.handleGetRecommendations)
		r.Get("/popular/stocks", s.handleGetPopularStocks)
	})

	s.router.Route("/admin", func(r chi.Router) {
		r.Route("/instruments", func(r chi.Router) {
			r.Get("/", s.handleGetInstruments)
			r.Post("/", s.handleCreateInstrument)
			r.Post("/batch", s.handleBatchCreateInstruments)
			r.Patch("/", s.handleUpdateInstrument)
			r.Delete("/{id}", s.handleDeleteInstrument)
		})

		r.Post("/quotes/refresh", s.handleRefreshQuotes)
	})
}

func (s *Server) Start() error {
	log.Info("starting http server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("shutting down http server")

	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		log.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
