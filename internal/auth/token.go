package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"ludus-server/internal/domain"
)

var (
	// ErrInvalidToken indicates a token that failed signature, issuer or shape checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired indicates a well-formed token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenCreation indicates signing failed, usually a misconfigured secret.
	ErrTokenCreation = errors.New("token creation failed")
)

// DefaultIssuer is the issuer claim stamped into and required from every token.
const DefaultIssuer = "api-v1-auth"

// DefaultTTL is the validity window of a minted token.
const DefaultTTL = 7 * 24 * time.Hour

// Config carries the signing parameters for a Codec.
type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Claims is the payload carried by a bearer token.
type Claims struct {
	UserID int64    `json:"id"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// Codec mints and verifies HS256 bearer tokens. It holds no mutable
// state and is safe for concurrent use.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec builds a Codec from config. Issuer and TTL fall back to the
// defaults when unset; the secret is mandatory.
func NewCodec(cfg *Config) (*Codec, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("token secret is required")
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{
		secret: []byte(cfg.Secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Mint signs a token for the given user carrying its id, email and
// role-derived authorities. Timestamps are UTC.
func (c *Codec) Mint(user *domain.User) (string, error) {
	now := c.now().UTC()

	authorities := domain.AuthoritiesFor(user.Role)
	roles := make([]string, len(authorities))
	for i, a := range authorities {
		roles[i] = string(a)
	}

	claims := Claims{
		UserID: user.ID,
		Email:  user.Email,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTokenCreation, err)
	}
	return signed, nil
}

// Verify parses and validates a token string: signature under the
// shared secret, pinned HS256 method, issuer equality and expiry
// against the current wall clock. Claims are only returned after all
// checks pass.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return c.now().UTC() }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: missing email claim", ErrInvalidToken)
	}
	return &claims, nil
}
