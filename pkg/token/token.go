package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Kind says what the token's identifier refers to.
type Kind string

const (
	KindEmail  Kind = "email"
	KindSerial Kind = "serialNumber"
)

var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// Claims is the verified payload of a form-link token.
type Claims struct {
	Identifier string
	Kind       Kind
	Nonce      string
	IssuedAt   time.Time
	ExpiresAt  time.Time
}

// Issuer mints and verifies the capability tokens embedded in
// verification links. Tokens are single-purpose and time-limited; they
// do NOT enforce single use - that is the record store's job.
type Issuer struct {
	secret []byte
	expiry time.Duration
}

func NewIssuer(secret string, expiry time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), expiry: expiry}
}

// Issue creates a signed token for the given identifier. The random
// nonce makes two tokens for the same identifier bitwise distinct.
func (i *Issuer) Issue(identifier string, kind Kind) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"identifier": identifier,
		"kind":       string(kind),
		"nonce":      uuid.New().String(),
		"iat":        now.Unix(),
		"exp":        now.Add(i.expiry).Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.secret)
}

// Verify parses and validates a token string. Returns ErrTokenExpired
// for tokens past their expiry and ErrTokenInvalid for anything else
// that fails validation.
func (i *Issuer) Verify(tokenString string) (*Claims, error) {
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !tok.Valid {
		return nil, ErrTokenInvalid
	}

	mapClaims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrTokenInvalid
	}

	identifier, ok := mapClaims["identifier"].(string)
	if !ok || identifier == "" {
		return nil, ErrTokenInvalid
	}
	kindStr, ok := mapClaims["kind"].(string)
	if !ok {
		return nil, ErrTokenInvalid
	}
	kind := Kind(kindStr)
	if kind != KindEmail && kind != KindSerial {
		return nil, ErrTokenInvalid
	}
	nonce, _ := mapClaims["nonce"].(string)

	claims := &Claims{
		Identifier: identifier,
		Kind:       kind,
		Nonce:      nonce,
	}
	if iat, err := mapClaims.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if exp, err := mapClaims.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}

	return claims, nil
}
