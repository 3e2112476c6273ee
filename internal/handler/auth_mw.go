package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	authTokenHeader = "x-auth-token"

	userIDCtx = "user-id"
	tokenCtx  = "token"
)

// authMiddleware rejects the request unless it carries a valid, unrevoked
// token and stores the caller's id under userIDCtx.
func (h *Handler) authMiddleware(c *gin.Context) {
	token := tokenFromRequest(c)

	userID, err := h.services.Account.Authenticate(c.Request.Context(), token)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.Set(userIDCtx, userID)
	c.Set(tokenCtx, token)

	c.Next()
}

func tokenFromRequest(c *gin.Context) string {
	if token := strings.TrimSpace(c.GetHeader(authTokenHeader)); token != "" {
		return token
	}

	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func getUserID(c *gin.Context) uuid.UUID {
	userID, _ := c.Get(userIDCtx)

	id, ok := userID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

func getToken(c *gin.Context) string {
	return c.GetString(tokenCtx)
}
