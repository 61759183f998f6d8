package server

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/rs/zerolog/log"
)

// InitialiseSystem creates the administrator account on first boot.
func (s *Server) InitialiseSystem(ctx context.Context) error {
	generatedPassword, err := s.createSystemAdmin(ctx, s.config.GetSystemAdminUser(), s.config.GetSystemAdminPassword())
	if err != nil {
		return fmt.Errorf("[Server InitialiseSystem] failed to bootstrap system admin: %w", err)
	}

	if generatedPassword != "" {
		baseURL := s.config.GetBaseURL()
		log.Info().Msg("📋 System Configuration:")
		log.Info().Msgf("   Base URL:    %s", baseURL)
		log.Info().Msgf("   Issuer:      %s", s.config.GetSubrequestIssuer())
		log.Info().Msg("")
		log.Info().Msg("👤 Administrator Credentials:")
		log.Info().Msgf("   Username:    %s", s.config.GetSystemAdminUser())
		log.Info().Msgf("   Password:    %s", generatedPassword)
		log.Info().Msg("")
		log.Info().Msg("🔐 Reverse proxy endpoints:")
		log.Info().Msgf("   Auth request: %s%s", baseURL, RouteSubrequestAuth)
		log.Info().Msgf("   Consent:      %s%s", baseURL, RouteConsent)
		log.Info().Msg("")
	}
	return nil
}

// createSystemAdmin creates the administrator unless one exists. The password
// is generated when none is configured, and returned so it can be shown once.
func (s *Server) createSystemAdmin(ctx context.Context, username, defaultPassword string) (generatedPassword string, err error) {
	exists, err := s.deps.Users.AdminExists(ctx)
	if err != nil {
		return "", fmt.Errorf("[server createSystemAdmin] failed to look up administrators: %w", err)
	}
	if exists {
		return "", nil
	}

	generatedPassword = defaultPassword
	if generatedPassword == "" {
		passwordBytes := make([]byte, 16)
		if _, err := rand.Read(passwordBytes); err != nil {
			return "", fmt.Errorf("[server createSystemAdmin] failed to generate password: %w", err)
		}
		generatedPassword = base64.RawURLEncoding.EncodeToString(passwordBytes)
	}

	if _, err := s.deps.Users.Create(ctx, username, generatedPassword, true); err != nil {
		return "", fmt.Errorf("[server createSystemAdmin] failed to create administrator: %w", err)
	}
	return generatedPassword, nil
}
