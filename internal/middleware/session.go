package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	sessionCookie = "session"

	// Sessions live 30 days and are re-issued once older than 24 hours
	sessionTTL   = 30 * 24 * time.Hour
	refreshAfter = 24 * time.Hour
)

// SessionData is the authenticated state carried by the session token
type SessionData struct {
	UserID      string
	Login       string
	Email       string
	AccessToken string
	IssuedAt    time.Time
	ExpiresAt   time.Time
}

// SessionMiddleware validates the signed session cookie on every request
// and refreshes tokens older than a day with a fresh 30-day expiry.
func SessionMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessionFromCookie(c, secret)

		if session != nil && time.Since(session.IssuedAt) > refreshAfter {
			if err := SetSession(c, secret, session); err == nil {
				session.IssuedAt = time.Now()
				session.ExpiresAt = session.IssuedAt.Add(sessionTTL)
			}
		}

		c.Set("session", session)
		c.Next()
	}
}

// sessionFromCookie extracts and validates the session token. Anything
// wrong with the cookie (missing, tampered, expired) means signed out.
func sessionFromCookie(c *gin.Context, secret string) *SessionData {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil {
		return nil
	}

	token, err := jwt.Parse(cookie, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}

	session := &SessionData{}
	if sub, ok := claims["sub"].(string); ok {
		session.UserID = sub
	}
	if login, ok := claims["login"].(string); ok {
		session.Login = login
	}
	if email, ok := claims["email"].(string); ok {
		session.Email = email
	}
	if accessToken, ok := claims["access_token"].(string); ok {
		session.AccessToken = accessToken
	}
	if iat, ok := claims["iat"].(float64); ok {
		session.IssuedAt = time.Unix(int64(iat), 0)
	}
	if exp, ok := claims["exp"].(float64); ok {
		session.ExpiresAt = time.Unix(int64(exp), 0)
	}

	if session.UserID == "" {
		return nil
	}

	return session
}

// SetSession signs a new session token and sets the cookie
func SetSession(c *gin.Context, secret string, session *SessionData) error {
	now := time.Now()
	exp := now.Add(sessionTTL)

	claims := jwt.MapClaims{
		"sub":          session.UserID,
		"login":        session.Login,
		"email":        session.Email,
		"access_token": session.AccessToken,
		"iat":          now.Unix(),
		"nbf":          now.Unix(),
		"exp":          exp.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return err
	}

	c.SetCookie(sessionCookie, signed, int(sessionTTL.Seconds()), "/", "", false, true)
	return nil
}

// ClearSession removes the session cookie
func ClearSession(c *gin.Context) {
	c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
}

// GetSession retrieves session data from the request context
func GetSession(c *gin.Context) *SessionData {
	session, exists := c.Get("session")
	if !exists {
		return nil
	}

	if sessionData, ok := session.(*SessionData); ok {
		return sessionData
	}

	return nil
}
