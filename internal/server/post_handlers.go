package server

import (
	"bloghub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /blog
// @Summary Create a blog post
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.CreatePostInput true "Post"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /blog [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req service.CreatePostInput
	if !parseBody(c, &req) {
		return nil
	}
	req.UserID = callerID(c)

	if _, err := s.postService.CreatePost(c.UserContext(), req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(MessageResponse{Message: service.MsgBlogCreated})
}

// ListPosts handles GET /blogs
// @Summary List every blog post
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} BlogsResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /blogs [get]
func (s *Server) ListPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListPosts(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(BlogsResponse{Blogs: posts})
}

// ListPostsByUsername handles GET /blogs/:username
// @Summary List the posts of one account
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} BlogsResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /blogs/{username} [get]
func (s *Server) ListPostsByUsername(c *fiber.Ctx) error {
	posts, err := s.postService.ListPostsByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(BlogsResponse{Blogs: posts})
}

// UpdatePost handles PUT /blog/edit/:id
// @Summary Edit a blog post
// @Description Only fields present in the body are written.
// @Tags blogs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Param request body service.UpdatePostInput true "Changes"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /blog/edit/{id} [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	var req service.UpdatePostInput
	if !parseBody(c, &req) {
		return nil
	}
	req.UserID = callerID(c)
	req.PostID = c.Params("id")

	if err := s.postService.UpdatePost(c.UserContext(), req); err != nil {
		return respondError(c, err)
	}
	return c.JSON(MessageResponse{Message: service.MsgBlogUpdated})
}

// DeletePost handles DELETE /blog/:id
// @Summary Delete a blog post
// @Tags blogs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Post ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /blog/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	err := s.postService.DeletePost(c.UserContext(), service.DeletePostInput{
		UserID: callerID(c),
		PostID: c.Params("id"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(MessageResponse{Message: service.MsgBlogDeleted})
}
