package server

import (
	"github.com/gofiber/fiber/v2"
)

// Follow handles POST /api/users/:userId/follow
// @Summary Follow a user
// @Tags follows
// @Produce json
// @Param userId path int true "User ID"
// @Success 201 {object} models.FollowToggleResult
// @Failure 400 {object} models.ErrorResponse "Self follow"
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Already following"
// @Security BearerAuth
// @Router /users/{userId}/follow [post]
func (s *Server) Follow(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	if err := s.followService.Follow(c.UserContext(), currentUserID(c), targetID); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"following": true})
}

// Unfollow handles DELETE /api/users/:userId/follow
// @Summary Unfollow a user
// @Tags follows
// @Param userId path int true "User ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse "Not following"
// @Security BearerAuth
// @Router /users/{userId}/follow [delete]
func (s *Server) Unfollow(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	if err := s.followService.Unfollow(c.UserContext(), currentUserID(c), targetID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ToggleFollow handles POST /api/users/:userId/follow/toggle
// @Summary Follow or unfollow a user
// @Tags follows
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} models.FollowToggleResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/{userId}/follow/toggle [post]
func (s *Server) ToggleFollow(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	result, err := s.followService.ToggleFollow(c.UserContext(), currentUserID(c), targetID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// IsFollowing handles GET /api/users/:userId/following
// @Summary Whether the caller follows a user
// @Tags follows
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {object} models.FollowToggleResult
// @Security BearerAuth
// @Router /users/{userId}/following [get]
func (s *Server) IsFollowing(c *fiber.Ctx) error {
	targetID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	following, err := s.followService.IsFollowing(c.UserContext(), currentUserID(c), targetID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"following": following})
}

// GetMyFollowing handles GET /api/users/following
// @Summary Identities the caller follows
// @Tags follows
// @Produce json
// @Success 200 {array} models.Identity
// @Security BearerAuth
// @Router /users/following [get]
func (s *Server) GetMyFollowing(c *fiber.Ctx) error {
	identities, err := s.followService.ListFollowing(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(identities)
}

// GetMyFollowers handles GET /api/users/followers
// @Summary Identities following the caller
// @Tags follows
// @Produce json
// @Success 200 {array} models.Identity
// @Security BearerAuth
// @Router /users/followers [get]
func (s *Server) GetMyFollowers(c *fiber.Ctx) error {
	identities, err := s.followService.ListFollowers(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(identities)
}
