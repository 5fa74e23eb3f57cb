package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Controllers struct {
	Auth     *AuthController
	Expense  *ExpenseController
	Feedback *FeedbackController
	Tip      *TipController
}

// RegisterRoutes wires the HTTP surface.
func RegisterRoutes(r *gin.Engine, sessions sessionResolver, accounts accountGetter, ctrl Controllers) {
	r.Use(ResponseTimer())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("/api/v1/auth")
	{
		public.POST("/register", ctrl.Auth.Register)
		public.POST("/login", ctrl.Auth.Login)
		public.POST("/activate", ctrl.Auth.Activate)
		public.POST("/resend", ctrl.Auth.ResendActivation)
	}

	protected := r.Group("/api/v1")
	protected.Use(SessionAuth(sessions))
	{
		protected.POST("/auth/logout", ctrl.Auth.Logout)

		protected.POST("/expenses", ctrl.Expense.Create)
		protected.GET("/expenses", ctrl.Expense.List)
		protected.GET("/summary/weekly", ctrl.Expense.WeeklySummary)
		protected.GET("/summary/monthly", ctrl.Expense.MonthlySummary)
		protected.POST("/goal/adjust", ctrl.Expense.AdjustGoal)
		protected.PUT("/goal", ctrl.Expense.UpdateGoal)

		protected.GET("/tip", ctrl.Tip.Get)
		protected.POST("/tip/feedback", ctrl.Feedback.TipReaction)
		protected.POST("/feedback", ctrl.Feedback.Submit)
	}

	admin := protected.Group("/admin")
	admin.Use(AdminOnly(accounts))
	{
		admin.GET("/feedback", ctrl.Feedback.AdminList)
		admin.GET("/tip-feedback", ctrl.Feedback.AdminTipReactions)
	}
}
