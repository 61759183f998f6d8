package main

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-auth-hub/consent"
	"github.com/jrsteele09/go-auth-hub/forwardauth"
	"github.com/jrsteele09/go-auth-hub/grants"
	"github.com/jrsteele09/go-auth-hub/hosts"
	"github.com/jrsteele09/go-auth-hub/interaction"
	"github.com/jrsteele09/go-auth-hub/internal/config"
	"github.com/jrsteele09/go-auth-hub/internal/store/memory"
	"github.com/jrsteele09/go-auth-hub/internal/store/postgres"
	"github.com/jrsteele09/go-auth-hub/loginsession"
	"github.com/jrsteele09/go-auth-hub/secrets"
	"github.com/jrsteele09/go-auth-hub/server"
	"github.com/jrsteele09/go-auth-hub/token"
	"github.com/jrsteele09/go-auth-hub/users"
	"github.com/rs/zerolog/log"
)

const secretSize = 32

type repos struct {
	users    users.Repo
	sessions loginsession.Repo
	grants   grants.Repo
	hosts    hosts.Repo
	secrets  secrets.Repo
}

type app struct {
	server *server.Server
	close  func()
}

func buildApp(ctx context.Context, c config.Config) (*app, error) {
	r, health, closeFn, err := openStore(ctx, c)
	if err != nil {
		return nil, err
	}
	a, err := wire(ctx, c, r, health)
	if err != nil {
		closeFn()
		return nil, err
	}
	a.close = closeFn
	return a, nil
}

// openStore uses Postgres when a database URL is configured and an in-memory
// store otherwise.
func openStore(ctx context.Context, c config.Config) (repos, func(context.Context) error, func(), error) {
	if c.GetDatabaseURL() == "" {
		log.Warn().Msg("no database configured, state is kept in memory and lost on restart")
		m := memory.New()
		return repos{
			users:    m.Users(),
			sessions: m.Sessions(),
			grants:   m.Grants(),
			hosts:    m.Hosts(),
			secrets:  m.Secrets(),
		}, nil, func() {}, nil
	}

	if c.GetDBMigrate() {
		if err := postgres.Migrate(ctx, c.GetDatabaseURL()); err != nil {
			return repos{}, nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}
	db, err := postgres.New(ctx, postgres.Config{
		URL:               c.GetDatabaseURL(),
		MaxConns:          c.GetDBMaxConns(),
		MinConns:          c.GetDBMinConns(),
		MaxConnLifetime:   c.GetDBMaxConnLifetime(),
		MaxConnIdleTime:   c.GetDBMaxConnIdleTime(),
		HealthCheckPeriod: c.GetDBHealthCheckPeriod(),
		QueryTimeout:      c.GetDBQueryTimeout(),
	})
	if err != nil {
		return repos{}, nil, nil, fmt.Errorf("open database: %w", err)
	}
	s := postgres.NewStore(db)
	return repos{
		users:    s.Users(),
		sessions: s.Sessions(),
		grants:   s.Grants(),
		hosts:    s.Hosts(),
		secrets:  s.Secrets(),
	}, db.Ping, db.Close, nil
}

func wire(ctx context.Context, c config.Config, r repos, health func(context.Context) error) (*app, error) {
	secretStore := secrets.NewStore(r.secrets)
	tokenKey, err := secretStore.GetOrCreate(ctx, secrets.SubrequestTokenKey, secretSize)
	if err != nil {
		return nil, fmt.Errorf("subrequest token key: %w", err)
	}
	codec, err := token.NewCodec(tokenKey)
	if err != nil {
		return nil, fmt.Errorf("subrequest token codec: %w", err)
	}

	sessions := loginsession.NewStore(r.sessions,
		loginsession.WithMaxAge(c.GetMaxSessionAge()),
		loginsession.WithSweepInterval(c.GetSessionSweepInterval()),
	)
	grantStore := grants.NewStore(r.grants)
	allow := hosts.NewAllowList(r.hosts)

	faOpts := []forwardauth.Option{forwardauth.WithCookieSecure(c.GetCookieSecure())}
	if c.GetSubrequestLiveSessionCheck() {
		faOpts = append(faOpts, forwardauth.WithLiveSessionCheck(sessions))
	}
	fa := forwardauth.New(codec, c.GetSubrequestIssuer(), c.GetSubrequestCookieMaxAge(), faOpts...)

	deps := server.Deps{
		Users:       users.NewDirectory(r.users),
		Sessions:    sessions,
		Grants:      grantStore,
		Hosts:       allow,
		ForwardAuth: fa,
		Health:      health,
	}

	var gwOpts []consent.Option
	if adminURL := c.GetProviderAdminURL(); adminURL != "" {
		p := interaction.NewHTTPProvider(adminURL, c.GetProviderTimeout())
		deps.Provider = p
		gwOpts = append(gwOpts, consent.WithProvider(p))
		log.Info().Stringer("provider", p).Msg("OAuth2 provider login and consent enabled")
	}
	deps.Consent = consent.NewGateway(codec, allow, grantStore, c.GetSubrequestIssuer(), c.GetSubrequestTokenTTL(), gwOpts...)

	if c.GetUpstreamIssuer() != "" {
		stateKey, err := secretStore.GetOrCreate(ctx, secrets.UpstreamStateKey, secretSize)
		if err != nil {
			return nil, fmt.Errorf("upstream state key: %w", err)
		}
		up, err := server.NewUpstreamLogin(ctx, c, c.GetBaseURL(), token.NewHMACSigner(stateKey, c.GetBaseURL()))
		if err != nil {
			return nil, err
		}
		deps.Upstream = up
		log.Info().Str("issuer", c.GetUpstreamIssuer()).Msg("upstream OIDC login enabled")
	}

	s, err := server.New(ctx, c, deps)
	if err != nil {
		return nil, err
	}
	return &app{server: s}, nil
}
