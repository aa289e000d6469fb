package server

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"brewhub/internal/models"
	"brewhub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten means a helper already sent a 400. Handlers return nil on it
// so the fiber ErrorHandler does not replace the response.
var errResponseWritten = errors.New("response already written")

const maxPageSize = 100

// Pagination is a parsed limit/offset pair.
type Pagination struct {
	Limit  int
	Offset int
}

// parsePagination reads ?limit and ?offset. Non-positive limits fall back to
// def and limits above maxPageSize are clamped.
func parsePagination(c *fiber.Ctx, def int) Pagination {
	p := Pagination{Limit: c.QueryInt("limit", def), Offset: c.QueryInt("offset", 0)}
	switch {
	case p.Limit <= 0:
		p.Limit = def
	case p.Limit > maxPageSize:
		p.Limit = maxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// parseID reads a positive integer route param. On failure it writes a 400
// naming the param ("Invalid comment ID" for :commentId).
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 64)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid "+paramLabel(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

var camelBoundary = regexp.MustCompile(`([a-z0-9])([A-Z])`)

// paramLabel turns a route param into words: id -> ID, userId -> user ID.
func paramLabel(param string) string {
	base, isID := strings.CutSuffix(param, "Id")
	if param == "id" {
		return "ID"
	}
	if !isID {
		return param
	}
	return strings.ToLower(camelBoundary.ReplaceAllString(base, "$1 $2")) + " ID"
}

// parseBody decodes the JSON body into dest, writing a 400 on failure.
func parseBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// queryUint reads an optional positive integer query param. Missing or malformed values yield 0.
func queryUint(c *fiber.Ctx, key string) uint {
	v, _ := strconv.ParseUint(c.Query(key), 10, 64)
	return uint(v)
}

func respondError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.HTTPStatus(err), err)
}

func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// caller snapshots the authenticated user from token claims. Tokens without a
// display name fall back to the stored profile.
func (s *Server) caller(c *fiber.Ctx) (service.Caller, error) {
	out := service.Caller{ID: currentUserID(c)}
	out.Name, _ = c.Locals("userName").(string)
	out.Email, _ = c.Locals("userEmail").(string)
	if strings.TrimSpace(out.Name) != "" {
		return out, nil
	}

	profile, err := s.userService.GetProfile(c.UserContext(), out.ID)
	if err != nil {
		return out, err
	}
	out.Name = profile.DisplayName
	if out.Email == "" {
		out.Email = profile.Email
	}
	return out, nil
}
