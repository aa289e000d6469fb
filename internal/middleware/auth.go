// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"errors"
	"strconv"
	"strings"

	"brewhub/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// Errors returned by ParseBearer and VerifyToken.
var (
	ErrMissingToken   = errors.New("authorization header required")
	ErrMalformedToken = errors.New("invalid authorization header format")
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrInvalidSubject = errors.New("invalid user ID in token")
)

// AccessClaims are the claims of a bearer token issued by the auth service.
type AccessClaims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Principal is the verified caller of a request.
type Principal struct {
	UserID uint
	Name   string
	Email  string
	Role   string
	JTI    string
}

// ParseBearer extracts the token from an "Authorization: Bearer <token>" header value.
func ParseBearer(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrMalformedToken
	}
	return parts[1], nil
}

// VerifyToken validates signature, expiry, issuer and audience and returns the caller.
func VerifyToken(cfg *config.Config, tokenString string) (*Principal, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	}
	if cfg.JWTIssuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.JWTIssuer))
	}
	if cfg.JWTAudience != "" {
		opts = append(opts, jwt.WithAudience(cfg.JWTAudience))
	}

	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return []byte(cfg.JWTSecret), nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	// Subject claim per RFC 7519 carries the numeric user id.
	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || userID == 0 {
		return nil, ErrInvalidSubject
	}

	return &Principal{
		UserID: uint(userID),
		Name:   claims.Name,
		Email:  claims.Email,
		Role:   claims.Role,
		JTI:    claims.ID,
	}, nil
}

// StorePrincipal puts the caller into Fiber locals for handlers downstream.
func StorePrincipal(c *fiber.Ctx, p *Principal) {
	c.Locals("userID", p.UserID)
	c.Locals("userName", p.Name)
	c.Locals("userEmail", p.Email)
	c.Locals("userRole", p.Role)
}
