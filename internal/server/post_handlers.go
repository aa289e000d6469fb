package server

import (
	"brewhub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CreatePostRequest is the body of POST /api/posts.
type CreatePostRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
	RecipeID *uint  `json:"recipe_id,omitempty"`
}

// GetFeed handles GET /api/posts/feed
// @Summary Global feed
// @Description Every post, newest first.
// @Tags posts
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Post
// @Router /posts/feed [get]
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	posts, err := s.feedService.GetFeed(c.UserContext(), page.Limit, page.Offset, nil)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetFollowingFeed handles GET /api/posts/feed/following
// @Summary Following feed
// @Description Posts by the identities the caller follows and by the caller. Empty when the caller follows nobody.
// @Tags posts
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Post
// @Security BearerAuth
// @Router /posts/feed/following [get]
func (s *Server) GetFollowingFeed(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	viewer := currentUserID(c)
	posts, err := s.feedService.GetFeed(c.UserContext(), page.Limit, page.Offset, &viewer)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
// @Summary Get post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Post
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	post, err := s.socialService.GetPost(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// GetUserPosts handles GET /api/posts/user/:userId
// @Summary Posts by user
// @Tags posts
// @Produce json
// @Param userId path int true "User ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Post
// @Router /posts/user/{userId} [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)
	posts, err := s.socialService.ListUserPosts(c.UserContext(), userID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GetPostRecipe handles GET /api/posts/:id/recipe
// @Summary Recipe linked to a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Recipe
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/recipe [get]
func (s *Server) GetPostRecipe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	recipe, err := s.socialService.GetPostRecipe(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(recipe)
}

// CreatePost handles POST /api/posts
// @Summary Create post
// @Description The author's name and email are taken from the token and stored with the post.
// @Tags posts
// @Accept json
// @Produce json
// @Param request body CreatePostRequest true "Post"
// @Success 201 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	caller, err := s.caller(c)
	if err != nil {
		return respondError(c, err)
	}

	author := models.PostAuthor{ID: caller.ID, Name: caller.Name, Email: caller.Email}
	post, err := s.socialService.CreatePost(c.UserContext(), author, req.Content, req.ImageURL, req.RecipeID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete post
// @Tags posts
// @Param id path int true "Post ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Post belongs to another user"
// @Security BearerAuth
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.socialService.DeletePost(c.UserContext(), id, currentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleLike handles POST /api/posts/:id/like
// @Summary Like or unlike a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.LikeToggleResult
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /posts/{id}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	result, err := s.socialService.ToggleLike(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// HasLiked handles GET /api/posts/:id/liked
// @Summary Whether the caller liked a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.LikeToggleResult
// @Security BearerAuth
// @Router /posts/{id}/liked [get]
func (s *Server) HasLiked(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	liked, err := s.socialService.HasLiked(c.UserContext(), id, currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(models.LikeToggleResult{Liked: liked})
}

// GetPostLikes handles GET /api/posts/:id/likes
// @Summary List likes of a post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {array} models.Like
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/likes [get]
func (s *Server) GetPostLikes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	likes, err := s.socialService.ListPostLikes(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(likes)
}
