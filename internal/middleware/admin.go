package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/otttrusted/storefront/internal/config"
	"github.com/otttrusted/storefront/internal/dto"
	"github.com/otttrusted/storefront/internal/models"
	"gorm.io/gorm"
)

// AdminRequired permits a request when any of these hold:
// 1. the X-Admin-Token header matches the configured operator token
// 2. the bearer JWT email is on the bootstrap admin list
// 3. the JWT subject's profile row carries role=admin
//
// The operator token stands on its own, so the JWT is verified here rather
// than by a preceding JWTProtected in the chain.
func AdminRequired(db *gorm.DB, cfg *config.Config) fiber.Handler {
	adminEmails := parseCSV(cfg.AdminEmails)

	return func(c *fiber.Ctx) error {
		if cfg.AdminToken != "" {
			header := c.Get("X-Admin-Token")
			if subtle.ConstantTimeCompare([]byte(header), []byte(cfg.AdminToken)) == 1 {
				return c.Next()
			}
		}

		claims, err := bearerClaims(c, cfg.JWTSecret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		email, _ := claims["email"].(string)
		if contains(adminEmails, email) {
			return c.Next()
		}

		if sub, _ := claims["sub"].(string); sub != "" {
			if userID, err := uuid.Parse(sub); err == nil {
				var profile models.Profile
				if err := db.First(&profile, "id = ?", userID).Error; err == nil {
					if profile.Role == models.RoleAdmin {
						return c.Next()
					}
				}
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Admin access required",
		})
	}
}

// bearerClaims verifies the Authorization bearer token with the shared HMAC
// secret and returns its claims.
func bearerClaims(c *fiber.Ctx, secret string) (jwt.MapClaims, error) {
	raw := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if raw == "" {
		return nil, errNoClaims
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, errNoClaims
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errNoClaims
	}
	return claims, nil
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if strings.EqualFold(item, val) {
			return true
		}
	}
	return false
}
