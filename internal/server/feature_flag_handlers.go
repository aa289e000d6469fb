package server

import "github.com/gofiber/fiber/v2"

// FeatureFlagsResponse lists the configured flag values and how they
// evaluate for the caller.
type FeatureFlagsResponse struct {
	Raw       map[string]string `json:"raw"`
	Evaluated map[string]bool   `json:"evaluated"`
}

// GetFeatureFlags handles GET /api/feature-flags
// @Summary Feature flags
// @Tags flags
// @Produce json
// @Success 200 {object} FeatureFlagsResponse
// @Security BearerAuth
// @Router /feature-flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(FeatureFlagsResponse{
		Raw:       s.featureFlags.Raw(),
		Evaluated: s.featureFlags.Snapshot(currentUserID(c)),
	})
}
