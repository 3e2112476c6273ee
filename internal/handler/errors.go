package handler

import (
	"net/http"

	"github.com/BloggingApp/posts-service/internal/dto"
	"github.com/BloggingApp/posts-service/internal/service"
	"github.com/gin-gonic/gin"
)

const errTooManyRequests = "too many requests, please wait"

func statusOf(err error) int {
	switch service.KindOf(err) {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) errorResponse(c *gin.Context, err error) {
	c.JSON(statusOf(err), dto.NewBasicResponse(false, err.Error()))
}

func (h *Handler) abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusOf(err), dto.NewBasicResponse(false, err.Error()))
}
