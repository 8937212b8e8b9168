package main

import (
	"context"
	"encoding/base64"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"printshop-backend/internal/config"
	"printshop-backend/internal/db"
	"printshop-backend/internal/handler"
	"printshop-backend/internal/notify"
	"printshop-backend/internal/repository"
	"printshop-backend/internal/server"
	"printshop-backend/internal/service"
	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	// Firebase (optional): auth for Google sign-in, messaging for push.
	var firebaseAuth *fbauth.Client
	var firebaseMsg *messaging.Client
	if cfg.FirebaseProjectID != "" {
		app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, firebaseOptions(cfg)...)
		if err != nil {
			logger.Error("failed to init firebase app", "err", err)
			os.Exit(1)
		}
		if firebaseAuth, err = app.Auth(ctx); err != nil {
			logger.Error("failed to init firebase auth", "err", err)
			os.Exit(1)
		}
		if firebaseMsg, err = app.Messaging(ctx); err != nil {
			logger.Error("failed to init firebase messaging", "err", err)
			os.Exit(1)
		}
	}

	// repositories
	userRepo := repository.UserRepository{DB: pg}
	orderRepo := repository.OrderRepository{DB: pg}
	installmentRepo := repository.InstallmentRepository{DB: pg}
	financeRepo := repository.FinanceRepository{DB: pg}
	fixedExpenseRepo := repository.FixedExpenseRepository{DB: pg}
	productRepo := repository.ProductRepository{DB: pg}
	customerRepo := repository.CustomerRepository{DB: pg}
	sellerRepo := repository.SellerRepository{DB: pg}
	settingsRepo := repository.SettingsRepository{DB: pg}
	dashboardRepo := repository.DashboardRepository{DB: pg}
	notificationRepo := repository.NotificationRepository{DB: pg}
	fcmRepo := repository.FCMRepository{DB: pg}

	sink := notify.Sink{
		Notifications: notificationRepo,
		Tokens:        fcmRepo,
		Messaging:     firebaseMsg,
		Logger:        logger,
	}

	// services
	authSvc := service.AuthService{Config: cfg, Users: userRepo, Logger: logger, FirebaseAuth: firebaseAuth}
	orderSvc := service.OrderService{Orders: orderRepo, Sink: sink, Logger: logger}
	installmentSvc := service.InstallmentService{Installments: installmentRepo, Logger: logger}
	commissionSvc := service.CommissionService{Orders: orderRepo, Expenses: financeRepo, Sink: sink, Logger: logger}

	// handlers
	healthHandler := handler.HealthHandler{DB: pg}
	authHandler := handler.AuthHandler{Service: &authSvc}
	orderHandler := handler.OrderHandler{Service: orderSvc, Currency: cfg.DefaultCurrency}
	installmentHandler := handler.InstallmentHandler{Service: installmentSvc}
	commissionHandler := handler.CommissionHandler{Service: commissionSvc, Settings: settingsRepo}
	financeHandler := handler.FinanceHandler{Repo: financeRepo}
	fixedExpenseHandler := handler.FixedExpenseHandler{Repo: fixedExpenseRepo}
	productHandler := handler.ProductHandler{Repo: productRepo, Currency: cfg.DefaultCurrency}
	customerHandler := handler.CustomerHandler{Repo: customerRepo}
	sellerHandler := handler.SellerHandler{Repo: sellerRepo}
	settingsHandler := handler.SettingsHandler{Repo: settingsRepo}
	dashboardHandler := handler.DashboardHandler{Repo: dashboardRepo}
	notificationHandler := handler.NotificationHandler{Repo: notificationRepo}
	fcmHandler := handler.FCMHandler{Repo: fcmRepo}
	docsHandler := handler.DocsHandler{OpenAPIPath: "api/openapi.yaml"}
	homeHandler := handler.HomeHandler{}

	router := server.NewRouter(cfg, logger,
		healthHandler, authHandler, orderHandler, installmentHandler, commissionHandler,
		financeHandler, fixedExpenseHandler, productHandler, customerHandler, sellerHandler,
		settingsHandler, dashboardHandler, notificationHandler, fcmHandler, docsHandler, homeHandler)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}

func firebaseOptions(cfg config.Config) []option.ClientOption {
	if cfg.FirebaseCredFile == "" {
		return nil
	}

	cred := cfg.FirebaseCredFile
	// Allow inline JSON or base64-encoded JSON in env to avoid writing a file.
	if strings.HasPrefix(strings.TrimSpace(cred), "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cred))}
	}
	if decoded, err := base64.StdEncoding.DecodeString(cred); err == nil && strings.HasPrefix(strings.TrimSpace(string(decoded)), "{") {
		return []option.ClientOption{option.WithCredentialsJSON(decoded)}
	}

	return []option.ClientOption{option.WithCredentialsFile(cred)}
}
