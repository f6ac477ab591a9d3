package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the registered-claims subset this service checks, matching
// kaandesu-founders-toolkit-api's internal/auth.AuthClaims shape.
type AuthClaims struct {
	jwt.RegisteredClaims
}

// ParseToken validates tokenString against secret, accepting any HMAC
// signing method (IssueToken signs with HS256), and requires a non-empty
// subject, the same check the sibling service enforces.
func ParseToken(tokenString string, secret []byte) (*AuthClaims, error) {
	claims := &AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, errors.Join(err, jwt.ErrTokenNotValidYet)
	}
	if !token.Valid {
		return nil, jwt.ErrTokenNotValidYet
	}
	if claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidSubject
	}
	return claims, nil
}

// IssueToken mints a short-lived access token for subject, matching the
// GenerateAccessTokenString idiom.
func IssueToken(subject string, ttl time.Duration, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	})
	return token.SignedString(secret)
}

// RequireAuth is the gin middleware gating every /questions/* route (spec
// auth-required routes, ported from the sibling service's
// AuthenticateUser middleware.
func RequireAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		const prefix = "Bearer "
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, prefix) {
			Respond(c, http.StatusUnauthorized, "Authorization header missing", nil)
			c.Abort()
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(header, prefix))
		if tokenString == "" {
			Respond(c, http.StatusUnauthorized, "Token missing or invalid", nil)
			c.Abort()
			return
		}
		claims, err := ParseToken(tokenString, secret)
		if err != nil {
			Respond(c, http.StatusUnauthorized, err.Error(), nil)
			c.Abort()
			return
		}
		c.Set("subject", claims.Subject)
		c.Next()
	}
}
