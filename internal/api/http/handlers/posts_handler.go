package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/service"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// PostsHandler exposes the post resource endpoints.
type PostsHandler struct {
	posts *service.PostService
}

// NewPostsHandler constructs handler.
func NewPostsHandler(postService *service.PostService) *PostsHandler {
	return &PostsHandler{posts: postService}
}

// List handles GET /posts. Open to everyone.
func (h *PostsHandler) List(c *fiber.Ctx) error {
	posts, err := h.posts.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// Create handles POST /post.
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	var req dto.SavePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Please check your input and try again.", nil)
	}

	post, err := h.posts.Create(c.UserContext(), service.PostInput{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
		Tags:    req.Tags.Normalize(),
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Post created successfully",
		"post":    post,
	})
}

// Update handles PUT /post/:id.
func (h *PostsHandler) Update(c *fiber.Ctx) error {
	var req dto.SavePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Please check your input and try again.", nil)
	}

	post, err := h.posts.Update(c.UserContext(), c.Params("id"), service.PostInput{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
		Tags:    req.Tags.Normalize(),
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Post updated successfully",
		"post":    post,
	})
}

// Delete handles DELETE /post/:id.
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
	postID, err := h.posts.Delete(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Post deleted successfully",
		"postId":  postID,
	})
}
