package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/okapibank/okapi/internal/account"
	"github.com/okapibank/okapi/internal/admin"
	"github.com/okapibank/okapi/internal/audit"
	"github.com/okapibank/okapi/internal/auth"
	"github.com/okapibank/okapi/internal/beneficiary"
	"github.com/okapibank/okapi/internal/config"
	"github.com/okapibank/okapi/internal/customer"
	"github.com/okapibank/okapi/internal/middleware"
	"github.com/okapibank/okapi/internal/transfer"
	"github.com/okapibank/okapi/internal/user"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Outside development, running on in-memory repositories is a
	// misconfiguration, not a fallback.
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLog(d.Logger))

	RegisterHealthRoutes(app, d)

	// Repositories: Postgres when configured, in-memory otherwise.
	var (
		userRepo user.Repository
		acctRepo account.Repository
		benRepo  beneficiary.Repository
		txRepo   transfer.Repository
		custRepo customer.Repository
		recorder audit.Recorder
	)
	if d.DB != nil {
		userRepo = user.NewPostgresRepository(d.DB)
		acctRepo = account.NewPostgresRepository(d.DB)
		benRepo = beneficiary.NewPostgresRepository(d.DB)
		txRepo = transfer.NewPostgresRepository(d.DB)
		custRepo = customer.NewPostgresRepository(d.DB)
		recorder = audit.NewPostgresRecorder(d.DB, d.Logger)
	} else {
		userRepo = user.NewMemoryRepository()
		acctRepo = account.NewMemoryRepository()
		benRepo = beneficiary.NewMemoryRepository()
		txRepo = transfer.NewMemoryRepository()
		custRepo = customer.NewMemoryRepository()
		recorder = audit.NewLogRecorder(d.Logger)
	}

	// Services and handlers.
	users := user.NewService(userRepo)
	accounts := account.NewService(acctRepo)
	beneficiaries := beneficiary.NewService(benRepo)
	transfers := transfer.NewService(accounts, beneficiaries, txRepo, recorder)

	issuer := auth.NewIssuer(d.Cfg.JWTSecret, d.Cfg.TokenTTL)
	authSvc := auth.NewService(users, accounts, issuer, recorder, d.Cfg.OpeningBalance)
	passwordReset := user.NewPasswordReset(userRepo, user.LogCodeSender{Logger: d.Logger})

	authHandler := auth.NewHandler(authSvc, users, passwordReset)
	accountHandler := account.NewHandler(accounts)
	beneficiaryHandler := beneficiary.NewHandler(beneficiaries)
	transferHandler := transfer.NewHandler(transfers)
	customerHandler := customer.NewHandler(customer.NewService(custRepo, userRepo))
	adminHandler := admin.NewHandler(admin.NewService(userRepo, txRepo))

	api := app.Group("/api")

	// Public auth surface.
	loginLimiter := middleware.LoginRateLimit(d.Cache, 5)
	authGroup := api.Group("/auth")
	authGroup.Post("/login/customer", loginLimiter, authHandler.LoginCustomer)
	authGroup.Post("/login/admin", loginLimiter, authHandler.LoginAdmin)
	authGroup.Post("/register/customer", authHandler.RegisterCustomer)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	// Protected surface.
	jwtmw := middleware.JWTAuth(issuer, userRepo)
	protected := api.Group("", jwtmw)
	protected.Get("/auth/me", authHandler.Me)

	accountsGroup := protected.Group("/accounts")
	accountsGroup.Get("/balance", accountHandler.Balance)
	accountsGroup.Get("/beneficiaries", beneficiaryHandler.List)
	accountsGroup.Post("/beneficiaries", beneficiaryHandler.Add)

	transfersGroup := protected.Group("/transfers")
	if d.Cache != nil {
		transfersGroup.Post("/beneficiary", middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger), transferHandler.ToBeneficiary)
	} else {
		transfersGroup.Post("/beneficiary", transferHandler.ToBeneficiary)
	}
	transfersGroup.Get("/history", transferHandler.History)

	customerGroup := protected.Group("/customer-details")
	customerGroup.Get("", customerHandler.Get)
	customerGroup.Post("/add", customerHandler.Save)

	adminGroup := protected.Group("/admin", middleware.RequireRole(user.RoleAdmin))
	adminGroup.Get("/users", adminHandler.Users)
	adminGroup.Get("/users/:id", adminHandler.UserByID)
	adminGroup.Get("/transactions", adminHandler.Transactions)
	adminGroup.Get("/transactions/:id", adminHandler.TransactionByID)

	return nil
}
