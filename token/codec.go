package token

import (
	stderrors "errors"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/jrsteele09/go-auth-hub/internal/errors"
)

// KeySize is the length of the direct-encryption key (A128CBC-HS256 uses 256 bits).
const KeySize = 32

// SubrequestClaims is the private payload of a subrequest auth token.
type SubrequestClaims struct {
	NextURL      string `json:"nextUrl"`
	LoginSession string `json:"loginSession"`
}

// SubrequestToken is a decoded and validated subrequest auth token.
type SubrequestToken struct {
	SubrequestClaims
	IssuedAt time.Time
	Expiry   time.Time
}

// Codec encrypts subrequest auth tokens as compact JWEs (alg "dir", enc
// "A128CBC-HS256"), so the bound URL and session are not readable in transit.
type Codec struct {
	key     []byte
	nowFunc func() time.Time
}

type CodecOption func(*Codec)

func WithNowFunc(now func() time.Time) CodecOption {
	return func(c *Codec) {
		c.nowFunc = now
	}
}

func NewCodec(key []byte, opts ...CodecOption) (*Codec, error) {
	if len(key) != KeySize {
		return nil, errors.Wrapf(errors.ErrInternal, "[token NewCodec] key must be %d bytes, got %d", KeySize, len(key))
	}
	c := &Codec{key: key, nowFunc: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Codec) Encode(claims SubrequestClaims, issuer, audience string, ttl time.Duration) (string, error) {
	enc, err := jose.NewEncrypter(
		jose.A128CBC_HS256,
		jose.Recipient{Algorithm: jose.DIRECT, Key: c.key},
		(&jose.EncrypterOptions{}).WithType("JWT"),
	)
	if err != nil {
		return "", errors.Wrapf(err, "[token Encode] create encrypter")
	}

	now := c.nowFunc()
	registered := jwt.Claims{
		Issuer:   issuer,
		Audience: jwt.Audience{audience},
		IssuedAt: jwt.NewNumericDate(now),
		Expiry:   jwt.NewNumericDate(now.Add(ttl)),
	}
	raw, err := jwt.Encrypted(enc).Claims(registered).Claims(claims).Serialize()
	if err != nil {
		return "", errors.Wrapf(err, "[token Encode] serialize")
	}
	return raw, nil
}

// Decode decrypts raw and validates its time window, issuer and audience.
// Failures are ErrInvalidToken, ErrTokenExpired or ErrAudienceMismatch.
func (c *Codec) Decode(raw, issuer, audience string) (*SubrequestToken, error) {
	parsed, err := jwt.ParseEncrypted(raw,
		[]jose.KeyAlgorithm{jose.DIRECT},
		[]jose.ContentEncryption{jose.A128CBC_HS256},
	)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "parse: %v", err)
	}

	var registered jwt.Claims
	var claims SubrequestClaims
	if err := parsed.Claims(c.key, &registered, &claims); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "decrypt: %v", err)
	}

	err = registered.ValidateWithLeeway(jwt.Expected{
		Issuer:      issuer,
		AnyAudience: jwt.Audience{audience},
		Time:        c.nowFunc(),
	}, 0)
	switch {
	case err == nil:
	case stderrors.Is(err, jwt.ErrExpired):
		return nil, errors.ErrTokenExpired
	case stderrors.Is(err, jwt.ErrInvalidIssuer), stderrors.Is(err, jwt.ErrInvalidAudience):
		return nil, errors.ErrAudienceMismatch
	default:
		return nil, errors.Wrapf(errors.ErrInvalidToken, "claims: %v", err)
	}

	if registered.Expiry == nil || claims.NextURL == "" || claims.LoginSession == "" {
		return nil, errors.Wrapf(errors.ErrInvalidToken, "missing claims")
	}

	t := &SubrequestToken{
		SubrequestClaims: claims,
		Expiry:           registered.Expiry.Time(),
	}
	if registered.IssuedAt != nil {
		t.IssuedAt = registered.IssuedAt.Time()
	}
	return t, nil
}
