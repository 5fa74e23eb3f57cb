package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"max.ks1230/spendwise/internal/model/tips"
)

type TipController struct {
	provider *tips.Provider
}

func NewTipController(provider *tips.Provider) *TipController {
	return &TipController{provider: provider}
}

// Get never fails: the provider degrades to its fallback pool.
func (ctrl *TipController) Get(c *gin.Context) {
	tip := ctrl.provider.DailyTip(c.Request.Context(), currentUser(c))
	c.JSON(http.StatusOK, gin.H{"tip": tip})
}
