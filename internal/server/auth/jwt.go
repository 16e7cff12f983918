// Package auth issues and parses the signed bearer tokens handed out on
// login. Tokens are HS256 JWTs; there is no server-side session state.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/learnhub/internal/common"
	"github.com/dmitrijs2005/learnhub/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// MinKeyLength is the shortest HS256 signing key accepted, in bytes.
const MinKeyLength = 32

// Claims is the payload of an issued token. The subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UserID parses the subject back into a user id.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// ClaimsFor projects u into the claim set of a token issued at now and valid
// for ttl. Issuer doubles as audience.
func ClaimsFor(u *models.User, issuer string, now time.Time, ttl time.Duration) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.ID, 10),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{issuer},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Name:  u.Username,
		Email: u.EmailAddress,
		Role:  u.RoleName,
	}
}

// Sign serializes claims as a compact HS256 JWS.
func Sign(claims Claims, key []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

// TokenIssuer holds the process-wide signing settings. It is safe for
// concurrent use; none of its fields change after construction.
type TokenIssuer struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer validates the signing settings. A failure here is a
// startup-time misconfiguration and wraps common.ErrConfiguration.
func NewTokenIssuer(key []byte, issuer string, expireDays int) (*TokenIssuer, error) {
	if len(key) < MinKeyLength {
		return nil, fmt.Errorf("%w: signing key must be at least %d bytes", common.ErrConfiguration, MinKeyLength)
	}
	if issuer == "" {
		return nil, fmt.Errorf("%w: token issuer is empty", common.ErrConfiguration)
	}
	if expireDays <= 0 {
		return nil, fmt.Errorf("%w: token lifetime must be positive, got %d days", common.ErrConfiguration, expireDays)
	}

	k := make([]byte, len(key))
	copy(k, key)

	return &TokenIssuer{
		key:    k,
		issuer: issuer,
		ttl:    time.Duration(expireDays) * 24 * time.Hour,
		now:    time.Now,
	}, nil
}

// Issue signs a token for u.
func (i *TokenIssuer) Issue(u *models.User) (string, error) {
	return Sign(ClaimsFor(u, i.issuer, i.now(), i.ttl), i.key)
}

// Parse verifies a token issued by i and returns its claims. Expired tokens
// yield common.ErrTokenExpired, anything else common.ErrInvalidToken.
func (i *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithAudience(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
