package httpapi

import (
	"errors"
	"net/http"

	"telecom-care/internal/accounts"
	"telecom-care/internal/auth"
	"telecom-care/internal/rbac"
	"telecom-care/pkg/logger"

	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	AccessToken  string           `json:"accessToken"`
	RefreshToken string           `json:"refreshToken"`
	Account      accounts.Account `json:"user"`
}

// Register creates a staff account. Only an authenticated admin may grant
// a role above agent; public sign-up always yields an agent.
func (h Handlers) Register(c *gin.Context) {
	if h.Accounts == nil || h.Auth == nil {
		notConfigured(c, "auth")
		return
	}
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Role != "" && req.Role != rbac.RoleAgent {
		role, _ := auth.Role(c.Request.Context())
		if !rbac.IsAdmin(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
	}

	acct, err := h.Accounts.Register(c.Request.Context(), req.Email, req.Password, req.Role)
	switch {
	case errors.Is(err, accounts.ErrEmailTaken):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	case errors.Is(err, accounts.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "email, password (min 8 chars) and a valid role required"})
		return
	case err != nil:
		logger.FromGin(c).Error("account registration failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	h.issue(c, http.StatusCreated, acct)
}

// Login exchanges email and password for a token pair.
func (h Handlers) Login(c *gin.Context) {
	if h.Accounts == nil || h.Auth == nil {
		notConfigured(c, "auth")
		return
	}
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}
	acct, err := h.Accounts.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, accounts.ErrInvalidCredentials) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("login failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	h.issue(c, http.StatusOK, acct)
}

// Refresh trades a refresh token for a new pair. The role is reloaded from
// the account so demotions take effect on the next refresh.
func (h Handlers) Refresh(c *gin.Context) {
	if h.Accounts == nil || h.Auth == nil {
		notConfigured(c, "auth")
		return
	}
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "refreshToken required"})
		return
	}
	claims, err := h.Auth.Verify(req.RefreshToken, auth.TokenTypeRefresh, h.now())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	acct, err := h.Accounts.Get(c.Request.Context(), claims.UserID)
	if errors.Is(err, accounts.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("refresh lookup failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}
	h.issue(c, http.StatusOK, acct)
}

func (h Handlers) issue(c *gin.Context, status int, acct accounts.Account) {
	pair, err := h.Auth.IssuePair(h.now(), acct.ID, acct.Email, acct.Role)
	if err != nil {
		logger.FromGin(c).Error("token issuance failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "token issuance failed"})
		return
	}
	c.JSON(status, tokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken, Account: acct})
}

// Me echoes the authenticated identity.
func (h Handlers) Me(c *gin.Context) {
	uid, _ := auth.UserID(c.Request.Context())
	email, _ := auth.Email(c.Request.Context())
	role, _ := auth.Role(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"userId": uid, "email": email, "role": role})
}
