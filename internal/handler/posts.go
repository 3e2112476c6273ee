package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/BloggingApp/posts-service/internal/dto"
	"github.com/gin-gonic/gin"
)

const postDeletedMessage = "post deleted successfully"

func (h *Handler) postsGet(c *gin.Context) {
	posts, err := h.services.Post.List(c.Request.Context())
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) postsGetByID(c *gin.Context) {
	post, err := h.services.Post.FindByID(c.Request.Context(), c.Param("postID"))
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsCreate(c *gin.Context) {
	var input dto.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	post, err := h.services.Post.Create(c.Request.Context(), getUserID(c), input)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *Handler) postsUpdate(c *gin.Context) {
	var input dto.UpdatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		if authErr := h.services.Post.AuthorizeUpdate(c.Request.Context(), getUserID(c), c.Param("postID")); authErr != nil {
			h.errorResponse(c, authErr)
			return
		}
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	post, err := h.services.Post.Update(c.Request.Context(), getUserID(c), c.Param("postID"), input)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postsDelete(c *gin.Context) {
	if err := h.services.Post.Delete(c.Request.Context(), getUserID(c), c.Param("postID")); err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewMessageResponse(postDeletedMessage))
}

// postsLike toggles the caller's like unless the body names the wanted state.
func (h *Handler) postsLike(c *gin.Context) {
	var input dto.LikePostRequest
	if err := c.ShouldBindJSON(&input); err != nil && !errors.Is(err, io.EOF) {
		if _, findErr := h.services.Post.FindByID(c.Request.Context(), c.Param("postID")); findErr != nil {
			h.errorResponse(c, findErr)
			return
		}
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	post, err := h.services.Post.Like(c.Request.Context(), getUserID(c), c.Param("postID"), input.Liked)
	if err != nil {
		h.errorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}
