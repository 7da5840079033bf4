package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/application/customer"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AuthHandler handles customer authentication API endpoints
type AuthHandler struct {
	BaseHandler
	customerService *customer.Service
	cookies         *Cookies
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(customerService *customer.Service, cookies *Cookies) *AuthHandler {
	return &AuthHandler{
		customerService: customerService,
		cookies:         cookies,
	}
}

// Login godoc
// @Summary      Sign in
// @Description  Verifies the credentials with the platform and sets the session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body customer.LoginInput true "Credentials"
// @Success      200 {object} dto.Response{data=customer.LoginResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      429 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var in customer.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.customerService.Login(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.cookies.SetSession(c, result.SessionToken, result.ExpiresAt)
	h.Success(c, result)
}

// Register godoc
// @Summary      Create an account
// @Description  Creates the customer and signs them in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body customer.RegisterInput true "Account details"
// @Success      201 {object} dto.Response{data=customer.LoginResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var in customer.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.customerService.Register(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.cookies.SetSession(c, result.SessionToken, result.ExpiresAt)
	h.Created(c, result)
}

// Logout godoc
// @Summary      Sign out
// @Description  Revokes the session and clears the cookie. Succeeds without a session.
// @Tags         auth
// @Produce      json
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if claims, ok := getSession(c); ok {
		if err := h.customerService.Logout(c.Request.Context(), claims); err != nil {
			// The cookie is cleared regardless so the browser is signed out.
			logger.GetGinLogger(c).Warn("Logout incomplete", zap.Error(err))
		}
	}
	h.cookies.ClearSession(c)
	h.NoContent(c)
}

// Recover godoc
// @Summary      Request a password reset email
// @Description  Always accepted, whether or not the address has an account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body customer.RecoverInput true "Account email"
// @Success      202 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/auth/recover [post]
func (h *AuthHandler) Recover(c *gin.Context) {
	var in customer.RecoverInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.BindError(c, err)
		return
	}

	if err := h.customerService.Recover(c.Request.Context(), in); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, gin.H{"message": "If the address has an account, a reset link is on its way."})
}

// Account godoc
// @Summary      The signed-in customer's account
// @Tags         auth
// @Produce      json
// @Success      200 {object} dto.Response{data=customer.AccountResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /api/account [get]
func (h *AuthHandler) Account(c *gin.Context) {
	claims, ok := getSession(c)
	if !ok {
		h.Unauthorized(c, "Sign in required")
		return
	}

	account, err := h.customerService.Account(c.Request.Context(), claims.CustomerToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}
