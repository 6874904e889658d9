package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	authapp "bakeshop/internal/app/services/auth"
	domainauth "bakeshop/internal/domain/auth"
)

type AuthHandler struct {
	Service *authapp.Service
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, err := h.Service.Login(c.Request.Context(), authapp.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": string(token)})
}

func (h AuthHandler) Logout(c *gin.Context) {
	token := extractBearerToken(c.GetHeader("Authorization"))
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": domainauth.ErrUnauthorized.Error()})
		return
	}
	if err := h.Service.Logout(c.Request.Context(), domainauth.Token(token)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ AuthHTTP = AuthHandler{}
