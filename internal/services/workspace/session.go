package workspace

import (
	"context"
	"strings"

	"zonetrack/internal/apperr"
	"zonetrack/internal/models"
)

type LoginResult struct {
	Token  string      `json:"token"`
	Role   models.Role `json:"role"`
	UserID string      `json:"userId"`
}

var errBadCredentials = apperr.Unauthorized("Invalid email or password")

// Login checks credentials against the standalone user row and opens a
// session for the issued token.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apperr.Validation("email and password are required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if apperr.IsNotFound(err) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Matches(u.Password, password) {
		return nil, errBadCredentials
	}
	tok, claims, exp, err := s.issuer.Sign(u.ID, string(u.Role))
	if err != nil {
		return nil, apperr.Store("sign token", err)
	}
	if err := s.sessions.Create(ctx, &models.Session{JTI: claims.JWTID, UserID: u.ID, ExpiresAt: exp}); err != nil {
		return nil, err
	}
	s.record(ctx, "LOGIN", u.ClientID, u.ID, nil)
	return &LoginResult{Token: tok, Role: u.Role, UserID: u.ID}, nil
}

func (s *Service) Logout(ctx context.Context, jti string) error {
	if jti == "" {
		return apperr.Unauthorized("no session")
	}
	return s.sessions.Revoke(ctx, jti)
}

// Live implements auth.SessionChecker.
func (s *Service) Live(ctx context.Context, jti string) bool {
	_, err := s.sessions.Active(ctx, jti)
	return err == nil
}
