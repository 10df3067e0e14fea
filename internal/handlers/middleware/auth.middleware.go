package middleware

import (
	"context"
	"strings"

	"staykeeper/internal/constants"
	"staykeeper/internal/database"
	"staykeeper/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthContextKey is used to store auth info in context
type AuthContextKey string

const (
	GuestSessionKey      AuthContextKey = "guestSession"
	GuestSessionKeyFiber string         = "GuestSession" // Fiber context key (string)

	operatorScope = "operator"
)

// RequireGuestSession validates the signed guest token and loads the chat
// session it names. The session must exist and have passed identity
// verification before any upgrade endpoint is reachable.
func (m *Middleware) RequireGuestSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.Context()).Function("RequireGuestSession")

		claims, ok, resp := m.parseBearerToken(c, log)
		if !ok {
			return resp
		}

		sessionID, ok := claims["sessionId"].(float64)
		if !ok || sessionID <= 0 {
			log.Info("token missing session claim")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		session := m.loadVerifiedSession(c.Context(), int(sessionID))
		if session == nil {
			log.Info("session not found for token", "sessionID", int(sessionID))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Session not found",
			})
		}

		if !session.IsVerified {
			log.Info("unverified session attempted guest endpoint", "sessionID", session.ID)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Identity verification required",
			})
		}

		c.Locals(GuestSessionKeyFiber, session)

		ctx := context.WithValue(c.UserContext(), GuestSessionKey, session)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// RequireOperator validates a signed token carrying the operator scope.
// Operator tokens are issued out of band by the PMC's identity provider.
func (m *Middleware) RequireOperator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := logger.New("middleware").TraceFromContext(c.Context()).Function("RequireOperator")

		claims, ok, resp := m.parseBearerToken(c, log)
		if !ok {
			return resp
		}

		scope, _ := claims["scope"].(string)
		if scope != operatorScope {
			log.Info("token lacks operator scope", "scope", scope)
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Operator access required",
			})
		}

		return c.Next()
	}
}

func (m *Middleware) parseBearerToken(
	c *fiber.Ctx,
	log logger.Logger,
) (jwt.MapClaims, bool, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		log.Info("missing authorization header")
		return nil, false, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header required",
		})
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
		log.Info("invalid authorization header format")
		return nil, false, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid authorization header format",
		})
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenParts[1], claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(m.Config.GuestTokenSecret), nil
	})
	if err != nil || !token.Valid {
		log.Info("token validation failed")
		return nil, false, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token",
		})
	}

	return claims, true, nil
}

// loadVerifiedSession reads through the session cache: verified sessions are
// cached so repeat guest requests skip the database lookup. Only verified
// sessions are cached since unverified ones change state during onboarding.
func (m *Middleware) loadVerifiedSession(
	ctx context.Context,
	sessionID int,
) *models.ChatSession {
	log := m.log.Function("loadVerifiedSession")

	var cached models.ChatSession
	found, err := database.NewCacheBuilder(m.DB.Cache.Session, sessionID).
		WithHash(constants.GuestVerifyCachePrefix).
		WithContext(ctx).
		Get(&cached)
	if err != nil {
		log.Er("session cache read failed", err, "sessionID", sessionID)
	}
	if found {
		return &cached
	}

	session, err := m.sessionRepo.GetByID(ctx, sessionID)
	if err != nil || session == nil {
		return nil
	}

	if session.IsVerified {
		err = database.NewCacheBuilder(m.DB.Cache.Session, sessionID).
			WithHash(constants.GuestVerifyCachePrefix).
			WithStruct(session).
			WithTTL(constants.GuestVerifyExpiry).
			WithContext(ctx).
			Set()
		if err != nil {
			log.Er("session cache write failed", err, "sessionID", sessionID)
		}
	}

	return session
}

// GetGuestSession extracts the authenticated session from Fiber context
func GetGuestSession(c *fiber.Ctx) *models.ChatSession {
	session, ok := c.Locals(GuestSessionKeyFiber).(*models.ChatSession)
	if !ok {
		return nil
	}
	return session
}
