package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prixfinance-backend-go/internal/core"
	"prixfinance-backend-go/internal/middleware"
)

// SetupRoutes registers every endpoint on router. Global middleware is applied
// by the caller. metrics may be nil, in which case /metrics is not served.
func SetupRoutes(router *gin.Engine, logger *zap.Logger, services *core.Services, metrics *middleware.Metrics) {
	userHandler := NewUserHandler(services.Users, services.Settings, services.Resolver, services.Recorder, logger)
	budgetHandler := NewBudgetHandler(services.Budgets, services.Resolver, services.Recorder, logger)
	transactionHandler := NewTransactionHandler(services.Transactions, services.Resolver, services.Recorder, logger)
	goalHandler := NewGoalHandler(services.Goals, services.Resolver, services.Recorder, logger)
	trophyHandler := NewTrophyHandler(services.Trophies, logger)
	userTrophyHandler := NewUserTrophyHandler(services.UserTrophies, services.Resolver, services.Recorder, logger)
	activityHandler := NewActivityHandler(services.Resolver, services.Recorder, logger)

	users := router.Group("/users")
	{
		users.POST("/create", userHandler.CreateUser)
		users.POST("/get", userHandler.GetUser)
		users.POST("/update", userHandler.UpdateUser)
		users.POST("/settings/get", userHandler.GetSettings)
		users.POST("/settings/update", userHandler.UpdateSettings)
	}

	budgets := router.Group("/budgets")
	{
		budgets.POST("/create", budgetHandler.CreateBudget)
		budgets.POST("/get", budgetHandler.GetBudget)
		budgets.POST("/update", budgetHandler.UpdateBudget)
		budgets.POST("/list", budgetHandler.ListBudgets)
		budgets.POST("/delete", budgetHandler.DeleteBudget)
	}

	transactions := router.Group("/transactions")
	{
		transactions.POST("/create", transactionHandler.CreateTransaction)
		transactions.POST("/get", transactionHandler.GetTransaction)
		transactions.POST("/update", transactionHandler.UpdateTransaction)
		transactions.POST("/list", transactionHandler.ListTransactions)
		transactions.POST("/list-by-category", transactionHandler.ListTransactionsByCategory)
		transactions.POST("/delete", transactionHandler.DeleteTransaction)
	}

	goals := router.Group("/goals")
	{
		goals.POST("/create", goalHandler.CreateGoal)
		goals.POST("/get", goalHandler.GetGoal)
		goals.POST("/update", goalHandler.UpdateGoal)
		goals.POST("/list", goalHandler.ListGoals)
		goals.POST("/list-by-status", goalHandler.ListGoalsByStatus)
		goals.POST("/delete", goalHandler.DeleteGoal)
	}

	trophies := router.Group("/trophies")
	{
		trophies.POST("/create", trophyHandler.CreateTrophy)
		trophies.POST("/get", trophyHandler.GetTrophy)
		trophies.POST("/list", trophyHandler.ListTrophies)
		trophies.POST("/update", trophyHandler.UpdateTrophy)
		trophies.POST("/delete", trophyHandler.DeleteTrophy)
	}

	userTrophies := router.Group("/usersTrophies")
	{
		userTrophies.POST("/earn", userTrophyHandler.EarnTrophy)
		userTrophies.POST("/list", userTrophyHandler.ListUserTrophies)
		userTrophies.POST("/delete", userTrophyHandler.RemoveUserTrophy)
	}

	router.POST("/activity/list", activityHandler.ListActivity)

	router.GET("/hello-world", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello World!")
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, HealthResponse{Status: "UP"})
	})
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	logger.Info("API routes configured", zap.Int("routes", len(router.Routes())))
}
