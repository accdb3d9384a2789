package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/sampleledger/internal/auth"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type loginResponse struct {
	Token     string         `json:"token"`
	Principal auth.Principal `json:"user"`
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "username and password are required")
		return
	}
	token, p, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.respondErr(c, err)
		return
	}
	ok(c, loginResponse{Token: token, Principal: p})
}

func (h *handlers) logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), c.GetString(ctxToken)); err != nil {
		h.respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Message: "logged out"})
}

func (h *handlers) me(c *gin.Context) {
	ok(c, principal(c))
}
