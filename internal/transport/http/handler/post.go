package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"miniblog/internal/app"
	"miniblog/internal/transport/http/response"
)

type PostHandler struct {
	postService *app.PostService
}

type CreatePostRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	ImageURL  string `json:"image_url"`
	Published bool   `json:"published"`
}

type UpdatePostRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	ImageURL  string `json:"image_url"`
	Published *bool  `json:"published"`
}

func NewPostHandler(postService *app.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

func (h *PostHandler) List(c *gin.Context) {
	input := app.ListPostsInput{
		AuthorID: c.Query("author_id"),
	}

	if raw := c.Query("published"); raw != "" {
		published, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid published filter")
			return
		}
		input.Published = &published
	}
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid limit")
			return
		}
		input.Limit = parsed
	}
	if raw := c.Query("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid offset")
			return
		}
		input.Offset = parsed
	}

	result, err := h.postService.ListPosts(input)
	if err != nil {
		log.Printf("list posts failed: %v", err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list posts failed")
		return
	}

	response.OK(c, result)
}

func (h *PostHandler) Get(c *gin.Context) {
	post, err := h.postService.GetPost(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid post id")
		case errors.Is(err, app.ErrPostNotFound):
			response.Error(c, http.StatusNotFound, response.CodePostNotFound, err.Error())
		default:
			log.Printf("get post failed: %v", err)
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get post failed")
		}
		return
	}

	response.OK(c, gin.H{"post": post})
}

func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	post, err := h.postService.CreatePost(app.CreatePostInput{
		AuthorID:  userID,
		Title:     req.Title,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		Published: req.Published,
	})
	if err != nil {
		h.renderPostError(c, err, "create post failed")
		return
	}

	response.Created(c, gin.H{"post": post})
}

func (h *PostHandler) Update(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	post, err := h.postService.UpdatePost(userID, c.Param("id"), app.UpdatePostInput{
		Title:     req.Title,
		Content:   req.Content,
		ImageURL:  req.ImageURL,
		Published: req.Published,
	})
	if err != nil {
		h.renderPostError(c, err, "update post failed")
		return
	}

	response.OK(c, gin.H{"post": post})
}

func (h *PostHandler) TogglePublished(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	post, err := h.postService.TogglePublished(userID, c.Param("id"))
	if err != nil {
		h.renderPostError(c, err, "toggle post failed")
		return
	}

	response.OK(c, gin.H{"post": post})
}

func (h *PostHandler) Delete(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token payload")
		return
	}

	if err := h.postService.DeletePost(userID, c.Param("id")); err != nil {
		h.renderPostError(c, err, "delete post failed")
		return
	}

	response.OK(c, gin.H{"message": "post deleted successfully"})
}

func (h *PostHandler) renderPostError(c *gin.Context, err error, fallback string) {
	var fields app.FieldErrors
	switch {
	case errors.As(err, &fields):
		response.ValidationFailed(c, fields)
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrPostNotFound):
		response.Error(c, http.StatusNotFound, response.CodePostNotFound, err.Error())
	default:
		log.Printf("%s: %v", fallback, err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
