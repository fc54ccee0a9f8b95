package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"loanflow-backend/internal/adapter/checkout"
	httpadp "loanflow-backend/internal/adapter/http"
	appmw "loanflow-backend/internal/adapter/middleware"
	mongorepo "loanflow-backend/internal/adapter/repository/mongo"
	"loanflow-backend/internal/config"
	"loanflow-backend/internal/infrastructure/cache"
	"loanflow-backend/internal/infrastructure/db"
	loanuc "loanflow-backend/internal/usecase/loan"
	paymentuc "loanflow-backend/internal/usecase/payment"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	client, database, err := db.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	loans := mongorepo.NewLoanRepository(database)
	sessions := mongorepo.NewSessionRepository(database)
	provider := checkout.NewClient(cfg.StripeSecretKey)

	loanUC := loanuc.NewUsecase(loans)
	payUC := paymentuc.NewUsecase(loans, sessions, provider, paymentuc.Config{
		FeeAmountCents: cfg.FeeAmountCents,
		FeeCurrency:    cfg.FeeCurrency,
		ClientBaseURL:  cfg.ClientBaseURL,
	})

	h := httpadp.NewHandler()
	lh := httpadp.NewLoanHandler(loanUC)
	ph := httpadp.NewPaymentHandler(payUC, cfg.StripeWebhookSecret)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	idem := appmw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	// routes
	e.GET("/health", h.Health)
	e.POST("/loan-applications", lh.CreateLoan, idem)
	e.GET("/loan-applications", lh.ListLoans)
	e.GET("/loan-applications/:loan_id", lh.GetLoan)
	e.PATCH("/loan-applications/:loan_id", lh.UpdateLoanStatus)
	e.DELETE("/loan-applications/:loan_id", lh.DeleteLoan)
	e.POST("/create-checkout-session", ph.CreateCheckoutSession, idem)
	// Raw body required for signature verification; no extra middleware here.
	e.POST("/webhook", ph.Webhook)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
