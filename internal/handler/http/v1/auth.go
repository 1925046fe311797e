package v1

import (
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shenikar/emergency_dispatch/internal/config"
	"github.com/shenikar/emergency_dispatch/internal/models"
	"github.com/sirupsen/logrus"
)

const (
	actorTokenHeader = "X-Actor-Token"
	actorContextKey  = "actor"
)

// APIKeyAuthMiddleware - middleware для аутентификации по API-ключу
func APIKeyAuthMiddleware(cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			// Проверяем также заголовок Authorization: Bearer
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				apiKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if apiKey == "" {
			log.Warn("API key missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}

		if !slices.Contains(cfg.APIKeys, apiKey) {
			log.Warn("Invalid API key provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		c.Next()
	}
}

// ActorClaims - утверждения токена участника, выданного внешним сервисом авторизации
type ActorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// ActorMiddleware достаёт пару (userId, role) из подписанного HS256 токена.
// Токен уже проверен внешним сервисом; здесь сверяется только подпись и срок.
func ActorMiddleware(cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(actorTokenHeader)
		if raw == "" {
			log.Warn("Actor token missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "actor token required"})
			return
		}

		actor, err := parseActorToken(raw, cfg.ActorTokenSecret)
		if err != nil {
			log.WithError(err).Warn("Invalid actor token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid actor token"})
			return
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

func parseActorToken(raw, secret string) (models.Actor, error) {
	if secret == "" {
		return models.Actor{}, errors.New("actor token secret is not configured")
	}

	claims := &ActorClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return models.Actor{}, err
	}

	actor := models.Actor{ID: claims.Subject, Role: models.Role(claims.Role)}
	if actor.ID == "" || !actor.Role.Valid() {
		return models.Actor{}, fmt.Errorf("token carries no valid subject/role pair")
	}
	return actor, nil
}

// actorFrom возвращает участника, положенного ActorMiddleware
func actorFrom(c *gin.Context) models.Actor {
	if v, ok := c.Get(actorContextKey); ok {
		if actor, ok := v.(models.Actor); ok {
			return actor
		}
	}
	return models.Actor{}
}

// requireRoles пропускает только перечисленные роли
func requireRoles(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := actorFrom(c)
		if !slices.Contains(roles, actor.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role is not permitted"})
			return
		}
		c.Next()
	}
}
