package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"max.ks1230/spendwise/internal/entity/expense"
	"max.ks1230/spendwise/internal/model/auth"
	"max.ks1230/spendwise/internal/model/customerr"
	"max.ks1230/spendwise/internal/model/ledger"
	"max.ks1230/spendwise/internal/model/summary"
)

type ExpenseController struct {
	ledger  *ledger.Service
	summary *summary.Service
	auth    *auth.Service
}

func NewExpenseController(ledgerSvc *ledger.Service, summarySvc *summary.Service, authSvc *auth.Service) *ExpenseController {
	return &ExpenseController{ledger: ledgerSvc, summary: summarySvc, auth: authSvc}
}

type createExpenseRequest struct {
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (ctrl *ExpenseController) Create(c *gin.Context) {
	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, customerr.NewValidation("invalid request body"))
		return
	}

	date := time.Now()
	if req.Date != "" {
		var err error
		date, err = time.Parse(expense.DateLayout, req.Date)
		if err != nil {
			respondError(c, customerr.NewValidation("date must be YYYY-MM-DD"))
			return
		}
	}

	rec := expense.Record{
		Date:        date,
		Category:    req.Category,
		Amount:      req.Amount,
		Description: req.Description,
	}
	if err := ctrl.ledger.Append(c.Request.Context(), currentUser(c), rec); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "expense logged"})
}

type expenseResponse struct {
	Date        string `json:"date"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

func (ctrl *ExpenseController) List(c *gin.Context) {
	exps, err := ctrl.ledger.ListByUser(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	res := make([]expenseResponse, 0, len(exps))
	for _, exp := range exps {
		res = append(res, expenseResponse{
			Date:        exp.Date.Format(expense.DateLayout),
			Category:    exp.Category,
			Amount:      exp.Amount.StringFixed(2),
			Description: exp.Description,
		})
	}
	c.JSON(http.StatusOK, gin.H{"expenses": res})
}

func (ctrl *ExpenseController) WeeklySummary(c *gin.Context) {
	report, err := ctrl.summary.Weekly(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, formatReport(report))
}

func (ctrl *ExpenseController) MonthlySummary(c *gin.Context) {
	report, err := ctrl.summary.Monthly(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, formatReport(report))
}

func formatReport(report summary.Report) gin.H {
	byCategory := make(map[string]string, len(report.ByCategory))
	for cat, amount := range report.ByCategory {
		byCategory[cat] = amount.StringFixed(2)
	}
	return gin.H{
		"period":      report.Period,
		"since":       report.Since.Format(expense.DateLayout),
		"by_category": byCategory,
		"total":       report.Total.StringFixed(2),
		"goal":        report.Goal.StringFixed(2),
		"savings":     report.Savings.StringFixed(2),
	}
}

// AdjustGoal is the explicit monthly-goal drift. Viewing a summary
// never mutates anything; this endpoint does.
func (ctrl *ExpenseController) AdjustGoal(c *gin.Context) {
	adj, err := ctrl.summary.ApplyMonthlyGoalAdjustment(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_spent": adj.TotalSpent.StringFixed(2),
		"old_goal":    adj.OldGoal.StringFixed(2),
		"new_goal":    adj.NewGoal.StringFixed(2),
	})
}

type updateGoalRequest struct {
	Goal decimal.Decimal `json:"goal"`
}

func (ctrl *ExpenseController) UpdateGoal(c *gin.Context) {
	var req updateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, customerr.NewValidation("invalid request body"))
		return
	}

	if err := ctrl.auth.UpdateGoal(c.Request.Context(), currentUser(c), req.Goal); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "goal updated"})
}
