// Package auth mints and verifies the signed tokens of a session and hashes
// user passwords.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind tags a token as access or refresh. Each kind has its own secret and
// lifetime, and a token of one kind never verifies as the other.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims are the registered claims plus the token kind. Subject carries the
// user ID; ID (jti) is random so two tokens minted in the same second differ.
type Claims struct {
	jwt.RegisteredClaims
	Type Kind `json:"typ"`
}

// CodecConfig holds one secret and one TTL per token kind.
type CodecConfig struct {
	AccessSecret  []byte
	AccessTTL     time.Duration
	RefreshSecret []byte
	RefreshTTL    time.Duration
}

type signingKey struct {
	secret []byte
	ttl    time.Duration
}

// Codec issues and verifies HS256 tokens. It has no side effects and is safe
// for concurrent use.
type Codec struct {
	keys map[Kind]signingKey
	now  func() time.Time
}

func NewCodec(cfg CodecConfig) (*Codec, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("token secrets must not be empty")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}
	return &Codec{
		keys: map[Kind]signingKey{
			KindAccess:  {secret: cfg.AccessSecret, ttl: cfg.AccessTTL},
			KindRefresh: {secret: cfg.RefreshSecret, ttl: cfg.RefreshTTL},
		},
		now: time.Now,
	}, nil
}

// Issue returns a signed token of the given kind for subjectID.
func (c *Codec) Issue(subjectID string, kind Kind) (string, error) {
	key, ok := c.keys[kind]
	if !ok {
		return "", fmt.Errorf("unknown token kind %q", kind)
	}

	now := c.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(key.ttl)),
			ID:        uuid.NewString(),
		},
		Type: kind,
	})

	tokenString, err := token.SignedString(key.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks signature, algorithm, expiry and kind, and returns the
// subject. Expired tokens yield common.ErrTokenExpired; everything else
// wraps common.ErrInvalidToken.
func (c *Codec) Verify(tokenString string, kind Kind) (string, error) {
	key, ok := c.keys[kind]
	if !ok {
		return "", fmt.Errorf("%w: unknown kind %q", common.ErrInvalidToken, kind)
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return key.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if claims.Type != kind {
		return "", fmt.Errorf("%w: want %s token, got %q", common.ErrInvalidToken, kind, claims.Type)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: no subject", common.ErrInvalidToken)
	}

	return claims.Subject, nil
}
