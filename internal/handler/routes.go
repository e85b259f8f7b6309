package handler

import (
	"net/http"

	"github.com/dafibh/finanzas/finanzas-backend/internal/middleware"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Handlers groups every HTTP handler mounted by RegisterRoutes
type Handlers struct {
	Account     *AccountHandler
	Transaction *TransactionHandler
	Recurring   *RecurringHandler
	Report      *ReportHandler
	Dashboard   *DashboardHandler
	Analysis    *AnalysisHandler
	Savings     *SavingsHandler
	Goals       *GoalsHandler
	Settings    *SettingsHandler
	WebSocket   *WebSocketHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, rateLimiter *middleware.RateLimiter, h Handlers) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", ServeOpenAPI3Spec)
	if h.WebSocket != nil {
		e.GET("/ws", h.WebSocket.HandleWS)
	}

	// API version 1
	api := e.Group("/api/v1")
	if rateLimiter != nil {
		api.Use(middleware.RateLimitMiddleware(rateLimiter))
	}

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("/summary", h.Dashboard.GetSummary)
	dashboard.GET("/budget", h.Dashboard.GetBudget)

	// Analysis routes
	analysis := api.Group("/analysis")
	analysis.GET("/monthly", h.Analysis.GetMonthlyAnalysis)
	analysis.GET("/annual", h.Analysis.GetAnnualAnalysis)

	// Account routes
	accounts := api.Group("/accounts")
	accounts.POST("", h.Account.CreateAccount)
	accounts.GET("", h.Account.GetAccounts)
	accounts.PUT("/:id", h.Account.UpdateAccount)
	accounts.DELETE("/:id", h.Account.DeleteAccount)
	accounts.POST("/:id/deposit", h.Account.Deposit)
	accounts.POST("/:id/withdraw", h.Account.Withdraw)

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)

	// Recurring expense routes
	recurring := api.Group("/recurring")
	recurring.POST("", h.Recurring.CreateRecurring)
	recurring.GET("", h.Recurring.GetRecurring)
	recurring.PUT("/:id", h.Recurring.UpdateRecurring)
	recurring.DELETE("/:id", h.Recurring.DeleteRecurring)

	// Monthly report routes
	reports := api.Group("/reports")
	reports.GET("", h.Report.GetMonthlyReports)
	reports.GET("/export", h.Report.ExportMonthlyReports)
	reports.GET("/:year/:month", h.Report.GetMonthlyReport)
	reports.POST("/:year/:month/regenerate", h.Report.RegenerateMonthlyReport)

	// Savings routes
	api.GET("/savings/:year/:month", h.Savings.GetRealSavings)

	// Goals routes
	goals := api.Group("/goals")
	goals.GET("", h.Goals.GetGoals)
	goals.PUT("", h.Goals.UpdateGoals)
	goals.GET("/progress", h.Goals.GetProgress)

	// Settings routes
	settings := api.Group("/settings")
	settings.GET("", h.Settings.GetSettings)
	settings.POST("/categories", h.Settings.AddCategory)
	settings.POST("/expense-types", h.Settings.AddExpenseType)
}
