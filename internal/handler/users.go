package handler

import (
	"net/http"

	"github.com/BloggingApp/posts-service/internal/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) usersRegister(c *gin.Context) {
	var input dto.RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	user, err := h.services.Account.Register(c.Request.Context(), input)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) usersLogin(c *gin.Context) {
	var input dto.LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	profile, err := h.services.Account.Login(c.Request.Context(), input)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Handler) usersTokenIsValid(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Account.TokenIsValid(c.Request.Context(), tokenFromRequest(c)))
}

func (h *Handler) usersGet(c *gin.Context) {
	profile, err := h.services.Account.GetCurrentUser(c.Request.Context(), getToken(c))
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Handler) usersLogout(c *gin.Context) {
	if err := h.services.Account.Logout(c.Request.Context(), getToken(c)); err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, "logged out"))
}

func (h *Handler) usersDelete(c *gin.Context) {
	user, err := h.services.Account.Delete(c.Request.Context(), getUserID(c))
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
