package server

import (
	"brewhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UpdateProfileRequest is the body of PUT /api/users/me.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Email       *string `json:"email"`
}

// GetMyProfile handles GET /api/users/me
// @Summary Current user profile
// @Tags users
// @Produce json
// @Success 200 {object} models.Identity
// @Failure 404 {object} models.ErrorResponse
// @Security BearerAuth
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	profile, err := s.userService.GetProfile(c.UserContext(), currentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// UpdateMyProfile handles PUT /api/users/me
// @Summary Update current user profile
// @Description Posts keep the author name they were created with.
// @Tags users
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} models.Identity
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Email already in use"
// @Security BearerAuth
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	profile, err := s.userService.UpdateProfile(c.UserContext(), service.UpdateProfileInput{
		UserID:      currentUserID(c),
		DisplayName: req.DisplayName,
		Email:       req.Email,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(profile)
}

// SearchUsers handles GET /api/users/search
// @Summary Search identities
// @Description Matches display name or email. The caller is never included.
// @Tags users
// @Produce json
// @Param q query string true "Search query"
// @Param limit query int false "Max results (default 20)"
// @Success 200 {array} models.IdentityWithFollow
// @Security BearerAuth
// @Router /users/search [get]
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit > maxPageSize {
		limit = maxPageSize
	}
	results, err := s.feedService.SearchIdentities(c.UserContext(), c.Query("q"), currentUserID(c), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(results)
}
