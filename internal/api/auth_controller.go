package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"max.ks1230/spendwise/internal/model/auth"
	"max.ks1230/spendwise/internal/model/customerr"
)

type AuthController struct {
	auth     *auth.Service
	sessions *auth.Sessions
}

func NewAuthController(authSvc *auth.Service, sessions *auth.Sessions) *AuthController {
	return &AuthController{auth: authSvc, sessions: sessions}
}

type registerRequest struct {
	Username string          `json:"username"`
	Password string          `json:"password"`
	Email    string          `json:"email"`
	Purpose  string          `json:"purpose"`
	Goal     decimal.Decimal `json:"goal"`
}

func (ctrl *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, customerr.NewValidation("invalid request body"))
		return
	}

	res, err := ctrl.auth.Register(c.Request.Context(), req.Username, req.Password, req.Email, req.Purpose, req.Goal)
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{"message": "account created, activation required", "mail_sent": res.MailSent}
	if !res.MailSent {
		// mail did not go out, surface the code in the response
		body["activation_code"] = res.ActivationCode
	}
	c.JSON(http.StatusCreated, body)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (ctrl *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, customerr.NewValidation("invalid request body"))
		return
	}

	if !ctrl.auth.Verify(c.Request.Context(), req.Username, req.Password) {
		respondError(c, customerr.ErrBadCredentials)
		return
	}

	token, err := ctrl.sessions.Start(req.Username)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

type activateRequest struct {
	Username string `json:"username"`
	Code     string `json:"code"`
}

func (ctrl *AuthController) Activate(c *gin.Context) {
	var req activateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, customerr.NewValidation("invalid request body"))
		return
	}

	if err := ctrl.auth.Activate(c.Request.Context(), req.Username, req.Code); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account activated"})
}

type resendRequest struct {
	Username string `json:"username"`
}

func (ctrl *AuthController) ResendActivation(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, customerr.NewValidation("invalid request body"))
		return
	}

	res, err := ctrl.auth.ResendActivation(c.Request.Context(), req.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{"message": "activation code reissued", "mail_sent": res.MailSent}
	if !res.MailSent {
		body["activation_code"] = res.ActivationCode
	}
	c.JSON(http.StatusOK, body)
}

func (ctrl *AuthController) Logout(c *gin.Context) {
	ctrl.sessions.Drop(currentToken(c))
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
