package middleware

import (
	"context"
	"encoding/json"
	"strings"

	"streamhub-backend/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	DefaultSessionCookie = "streamhub.sid"
	SessionRedisPrefix   = "session:"
)

// sessionUser is the shape stored under "user" in the session document.
type sessionUser struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type sessionData struct {
	User *sessionUser `json:"user"`
}

// ConnectSessions opens the Redis client holding sessions written by the identity service.
func ConnectSessions(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}

// SessionReader resolves the caller from the session cookie. Sessions are never
// written here; a missing or malformed session leaves the request anonymous.
func SessionReader(rdb *redis.Client, cookieName string) fiber.Handler {
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}
	return func(c *fiber.Ctx) error {
		sid := sessionID(c.Cookies(cookieName))
		if sid == "" || rdb == nil {
			return c.Next()
		}
		b, err := rdb.Get(c.UserContext(), SessionRedisPrefix+sid).Bytes()
		if err != nil {
			if err != redis.Nil {
				log.Warn().Err(err).Msg("Session lookup failed")
			}
			return c.Next()
		}
		if caller, ok := parseSession(b); ok {
			SetCaller(c, caller)
		}
		return c.Next()
	}
}

// sessionID accepts both "id" and the signed "s:id.signature" cookie forms.
func sessionID(raw string) string {
	if strings.HasPrefix(raw, "s:") {
		raw = strings.SplitN(raw[2:], ".", 2)[0]
	}
	return strings.TrimSpace(raw)
}

func parseSession(b []byte) (domain.Caller, bool) {
	var data sessionData
	if err := json.Unmarshal(b, &data); err != nil || data.User == nil {
		return domain.Caller{}, false
	}
	id, err := uuid.Parse(data.User.UserID)
	if err != nil {
		return domain.Caller{}, false
	}
	role := domain.ParseRole(data.User.Role)
	if role == "" {
		return domain.Caller{}, false
	}
	return domain.Caller{ID: id, Role: role}, true
}

// StoreSession writes a session document. Used by seeding and tests; the API never calls it.
func StoreSession(ctx context.Context, rdb *redis.Client, sid string, caller domain.Caller) error {
	b, err := json.Marshal(sessionData{User: &sessionUser{UserID: caller.ID.String(), Role: string(caller.Role)}})
	if err != nil {
		return err
	}
	return rdb.Set(ctx, SessionRedisPrefix+sid, b, 0).Err()
}
