package auth

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL matches the original session length of one week.
const DefaultTokenTTL = 168 * time.Hour

var (
	// ErrInvalidToken is returned for malformed, mis-signed or expired tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrMissingSecret is returned when an Issuer is constructed without a key.
	ErrMissingSecret = errors.New("signing secret is required")
)

// Issuer issues and verifies HS256 session tokens carrying a user id.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer constructs an Issuer. TTL values <= 0 fall back to DefaultTokenTTL.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl}, nil
}

// Issue signs a token whose subject is the user id, expiring after the
// configured TTL.
func (i *Issuer) Issue(userID int) (string, error) {
	return i.issueAt(userID, time.Now())
}

func (i *Issuer) issueAt(userID int, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify parses and validates a token and returns the embedded user id.
// Expiry is the only invalidation mechanism; there is no revocation list.
func (i *Issuer) Verify(tokenString string) (int, error) {
	claims := jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}
	userID, err := strconv.Atoi(strings.TrimSpace(claims.Subject))
	if err != nil || userID < 1 {
		return 0, ErrInvalidToken
	}
	return userID, nil
}
