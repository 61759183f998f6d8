package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Signer is an interface for signing and verifying JWT tokens
type Signer interface {
	// Sign creates a signed JWT token from claims
	Sign(claims jwt.MapClaims) (string, error)

	// Verify parses and validates a JWT token, returning its claims
	Verify(raw string) (jwt.MapClaims, error)
}

// HMACsigner implements Signer using symmetric HMAC-SHA256
type HMACsigner struct {
	secret  []byte
	issuer  string
	nowFunc func() time.Time
}

type SignerOption func(*HMACsigner)

func WithSignerNowFunc(now func() time.Time) SignerOption {
	return func(h *HMACsigner) {
		h.nowFunc = now
	}
}

// NewHMACSigner creates a new HMAC signer with the given secret. Tokens it
// verifies must carry issuer as their "iss" claim.
func NewHMACSigner(secret []byte, issuer string, opts ...SignerOption) *HMACsigner {
	h := &HMACsigner{
		secret:  secret,
		issuer:  issuer,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *HMACsigner) Sign(claims jwt.MapClaims) (string, error) {
	claims["iss"] = h.issuer
	if _, ok := claims["iat"]; !ok {
		claims["iat"] = h.nowFunc().Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(h.secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign token with HMAC")
	}
	return signedToken, nil
}

func (h *HMACsigner) Verify(raw string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, h.getVerificationKey,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(h.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(h.nowFunc),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to verify HMAC token")
	}
	return claims, nil
}

func (h *HMACsigner) getVerificationKey(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return h.secret, nil
}
