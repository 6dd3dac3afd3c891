package handler

import (
	"loan-ledger/internal/adapter/http/middleware"
	redisStore "loan-ledger/internal/adapter/storage/redis"
	"loan-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	LoanSvc        ports.LoanService
	PaymentSvc     ports.PaymentService
	SavingsSvc     ports.SavingsService
	SettingsSvc    ports.SettingsService
	ReportingSvc   ports.ReportingService
	Coordinator    ports.LedgerCoordinator
	Reconciliation ports.ReconciliationService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	AuditSvc       ports.AuditService // nil = audit logging disabled
	ServiceName    string             // non-empty enables otelgin spans
	Mode           string
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	if deps.Mode != "" {
		gin.SetMode(deps.Mode)
	}
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	if deps.ServiceName != "" {
		r.Use(otelgin.Middleware(deps.ServiceName))
	}
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20))

	// Audit logging (after response)
	if deps.AuditSvc != nil {
		r.Use(middleware.AuditLog(deps.AuditSvc))
	}

	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	rules := middleware.DefaultRateLimitRules()
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	v1 := r.Group("/api/v1", jwtAuth)

	// --- Member routes ---
	loanHandler := NewLoanHandler(deps.LoanSvc, deps.PaymentSvc)
	loans := v1.Group("/loans")
	{
		loans.GET("/options", rl("read"), loanHandler.Options)
		loans.POST("", rl("submit"), loanHandler.Submit)
		loans.GET("/current", rl("read"), loanHandler.ListCurrent)
		loans.GET("/:txn_id/quote", rl("read"), loanHandler.Quote)
	}

	paymentHandler := NewPaymentHandler(deps.PaymentSvc)
	v1.POST("/payments", rl("submit"), paymentHandler.Submit)

	savingsHandler := NewSavingsHandler(deps.SavingsSvc)
	savings := v1.Group("/savings")
	{
		savings.POST("/deposits", rl("submit"), savingsHandler.Deposit)
		savings.POST("/withdrawals", rl("submit"), savingsHandler.Withdraw)
	}

	historyHandler := NewHistoryHandler(deps.ReportingSvc)
	v1.GET("/transactions", rl("read"), historyHandler.Mine)

	settingsHandler := NewSettingsHandler(deps.SettingsSvc)
	v1.GET("/settings", rl("read"), settingsHandler.Current)

	// --- Staff console ---
	consoleHandler := NewConsoleHandler(deps.ReportingSvc, deps.Coordinator, deps.Reconciliation)
	console := v1.Group("/console", middleware.RequireStaff(), rl("console"))
	{
		console.GET("/pending", consoleHandler.ListPending)
		console.POST("/resolve", consoleHandler.Resolve)
		console.POST("/reconcile", rl("reconcile"), consoleHandler.Reconcile)
		console.GET("/resolutions/incomplete", consoleHandler.ListIncomplete)
		console.GET("/funds", consoleHandler.Funds)
		console.PUT("/settings", settingsHandler.Update)
		console.GET("/members/:member_id/transactions", historyHandler.ForMember)
	}

	return r
}
