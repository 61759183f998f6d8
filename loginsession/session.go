package loginsession

import (
	"encoding/base64"
	"time"

	"github.com/jrsteele09/go-auth-hub/users"
)

// CookieName is the cookie carrying the encoded login token.
const CookieName = "login-token"

// TokenSize is the number of random bytes in a login token.
const TokenSize = 32

type LoginSession struct {
	ID        string
	Token     []byte // only populated on the value returned from Store.Create
	UserID    string
	Created   time.Time
	IPAddress string
}

// EncodedToken is the cookie representation of the session token.
func (s *LoginSession) EncodedToken() string {
	return EncodeToken(s.Token)
}

func (s *LoginSession) ExpiredAt(now time.Time, maxAge time.Duration) bool {
	return now.Sub(s.Created) > maxAge
}

func EncodeToken(token []byte) string {
	return base64.RawURLEncoding.EncodeToString(token)
}

func DecodeToken(encoded string) ([]byte, bool) {
	b, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(b) != TokenSize {
		return nil, false
	}
	return b, true
}

// SessionData is a validated session joined with its user.
type SessionData struct {
	User    *users.User
	Session *LoginSession
}

type SessionWithGrants struct {
	LoginSession
	Hosts []string
}

type Reason string

const (
	ReasonNotFound  Reason = "not found"
	ReasonExpired   Reason = "expired"
	ReasonMalformed Reason = "malformed token"
)

// LoginRequired is the non-error outcome of validating a missing or stale
// session: the caller should send the browser to the login page.
type LoginRequired struct {
	Reason Reason
}

func (l *LoginRequired) String() string {
	return "login required: " + string(l.Reason)
}
