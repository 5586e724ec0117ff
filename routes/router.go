package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rentaspace/rentals_backend/handlers"
	"github.com/rentaspace/rentals_backend/middlewares"
)

func RegisterRoutes(r *gin.Engine) {
	r.Use(middlewares.AuthMiddleware())

	api := r.Group("/api/v1")

	api.POST("/auth/register", handlers.Register)
	api.POST("/auth/login", handlers.Login)

	// external scheduler; authenticated by shared token, not a session
	api.POST("/cron/obligations", handlers.CronGenerateObligations)

	authed := api.Group("")
	authed.Use(middlewares.RequireAuth())

	authed.POST("/auth/logout", handlers.Logout)
	authed.POST("/auth/logout-all", handlers.LogoutAll)
	authed.GET("/me", handlers.Me)

	authed.GET("/properties", handlers.ListProperties)
	authed.POST("/properties", handlers.CreateProperty)
	authed.GET("/properties/:id", handlers.GetProperty)
	authed.PUT("/properties/:id", handlers.UpdateProperty)
	authed.DELETE("/properties/:id", handlers.DeleteProperty)

	authed.GET("/units", handlers.ListUnits)
	authed.POST("/units", handlers.CreateUnit)
	authed.GET("/units/:id", handlers.GetUnit)
	authed.PUT("/units/:id", handlers.UpdateUnit)
	authed.DELETE("/units/:id", handlers.DeleteUnit)
	authed.GET("/units/:id/statement-preview", handlers.PreviewStatement)
	authed.POST("/units/:id/statements", handlers.CreateStatement)

	authed.GET("/tenants", handlers.ListTenants)
	authed.POST("/tenants", handlers.CreateTenant)
	authed.GET("/tenants/:id", handlers.GetTenant)
	authed.PUT("/tenants/:id", handlers.UpdateTenant)
	authed.DELETE("/tenants/:id", handlers.DeleteTenant)

	authed.GET("/leases", handlers.ListLeases)
	authed.POST("/leases", handlers.CreateLease)
	authed.GET("/leases/:id", handlers.GetLease)
	authed.PUT("/leases/:id", handlers.UpdateLease)
	authed.DELETE("/leases/:id", handlers.DeleteLease)
	authed.GET("/leases/:id/obligations", handlers.ListObligations)
	authed.POST("/leases/:id/obligations", handlers.GenerateObligation)
	authed.POST("/leases/:id/obligations/backfill", handlers.BackfillLeaseObligations)
	authed.POST("/leases/:id/obligations/update", handlers.UpdateObligations)

	authed.GET("/obligations/:id", handlers.GetObligation)
	authed.PATCH("/obligations/:id", handlers.UpdateObligationNote)
	authed.DELETE("/obligations/:id", handlers.DeleteObligation)

	authed.GET("/payments", handlers.ListPayments)
	authed.POST("/payments", handlers.CreatePayment)
	authed.GET("/payments/:id", handlers.GetPayment)
	authed.PUT("/payments/:id", handlers.UpdatePayment)
	authed.DELETE("/payments/:id", handlers.DeletePayment)

	authed.GET("/statement-overrides", handlers.ListStatementOverrides)
	authed.PATCH("/statement-overrides", handlers.UpsertStatementOverride)
	authed.DELETE("/statement-overrides/:id", handlers.DeleteStatementOverride)

	authed.GET("/statements", handlers.ListStatements)
	authed.GET("/statements/:id", handlers.GetStatement)
	authed.PUT("/statements/:id", handlers.UpdateStatement)
	authed.DELETE("/statements/:id", handlers.DeleteStatement)
	authed.GET("/statements/:id/export", handlers.ExportStatement)
}
