package loginsession

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-hub/internal/errors"
	"github.com/jrsteele09/go-auth-hub/internal/obs"
)

const (
	DefaultMaxAge        = 100 * 24 * time.Hour
	DefaultSweepInterval = time.Hour
)

// Store issues and validates browser login sessions.
type Store struct {
	repo          Repo
	maxAge        time.Duration
	sweepInterval time.Duration
	nowFunc       func() time.Time
	sweeper       *Sweeper
}

type Option func(*Store)

func WithNowFunc(now func() time.Time) Option {
	return func(s *Store) {
		s.nowFunc = now
	}
}

func WithMaxAge(maxAge time.Duration) Option {
	return func(s *Store) {
		s.maxAge = maxAge
	}
}

func WithSweepInterval(interval time.Duration) Option {
	return func(s *Store) {
		s.sweepInterval = interval
	}
}

func NewStore(repo Repo, opts ...Option) *Store {
	s := &Store{
		repo:          repo,
		maxAge:        DefaultMaxAge,
		sweepInterval: DefaultSweepInterval,
		nowFunc:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sweeper = NewSweeper(repo, s.sweepInterval, s.maxAge, s.nowFunc)
	return s
}

func (s *Store) MaxAge() time.Duration {
	return s.maxAge
}

// Create starts a session for userID. The returned value is the only place
// the raw token is available.
func (s *Store) Create(ctx context.Context, userID, ip string) (*LoginSession, error) {
	s.sweeper.MaybeSweep(ctx)

	token := make([]byte, TokenSize)
	if _, err := rand.Read(token); err != nil {
		return nil, errors.Wrapf(err, "[loginsession Create] generate token")
	}
	session := &LoginSession{
		ID:        uuid.NewString(),
		Token:     token,
		UserID:    userID,
		Created:   s.nowFunc(),
		IPAddress: ip,
	}
	if err := s.repo.Insert(ctx, session); err != nil {
		return nil, errors.Wrapf(err, "[loginsession Create] insert")
	}
	obs.LoginSessionsCreated.Inc()
	return session, nil
}

// Validate resolves an encoded token. A missing, stale or malformed token
// yields a LoginRequired; only store failures are returned as errors.
func (s *Store) Validate(ctx context.Context, encodedToken string) (*SessionData, *LoginRequired, error) {
	s.sweeper.MaybeSweep(ctx)

	token, ok := DecodeToken(encodedToken)
	if !ok {
		return nil, &LoginRequired{Reason: ReasonMalformed}, nil
	}
	session, user, err := s.repo.GetByToken(ctx, token)
	if errors.Is(err, errors.ErrSessionNotFound) {
		return nil, &LoginRequired{Reason: ReasonNotFound}, nil
	}
	if err != nil {
		return nil, nil, errors.Wrapf(err, "[loginsession Validate] lookup")
	}
	if session.ExpiredAt(s.nowFunc(), s.maxAge) {
		return nil, &LoginRequired{Reason: ReasonExpired}, nil
	}
	return &SessionData{User: user, Session: session}, nil, nil
}

// IsActive reports whether a session id still names an unexpired session.
func (s *Store) IsActive(ctx context.Context, sessionID string) (bool, error) {
	session, err := s.repo.GetByID(ctx, sessionID)
	if errors.Is(err, errors.ErrSessionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "[loginsession IsActive] lookup")
	}
	return !session.ExpiredAt(s.nowFunc(), s.maxAge), nil
}

func (s *Store) ListWithGrants(ctx context.Context, userID string) ([]SessionWithGrants, error) {
	return s.repo.ListWithGrants(ctx, userID)
}

// End deletes one of userID's sessions. Sessions owned by other users are
// reported as not found.
func (s *Store) End(ctx context.Context, userID, sessionID string) error {
	deleted, err := s.repo.Delete(ctx, userID, sessionID)
	if err != nil {
		return errors.Wrapf(err, "[loginsession End] %s", sessionID)
	}
	if !deleted {
		return errors.Wrapf(errors.ErrSessionNotFound, "%s", sessionID)
	}
	return nil
}

func (s *Store) EndAllExcept(ctx context.Context, userID, keepSessionID string) (int64, error) {
	n, err := s.repo.DeleteAllExcept(ctx, userID, keepSessionID)
	if err != nil {
		return 0, errors.Wrapf(err, "[loginsession EndAllExcept] %s", userID)
	}
	return n, nil
}

// Logout deletes the session named by an encoded token, if any.
func (s *Store) Logout(ctx context.Context, encodedToken string) error {
	token, ok := DecodeToken(encodedToken)
	if !ok {
		return nil
	}
	if err := s.repo.DeleteByToken(ctx, token); err != nil {
		return errors.Wrapf(err, "[loginsession Logout] delete")
	}
	return nil
}
