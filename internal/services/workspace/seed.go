package workspace

import (
	"context"
	"strings"

	"zonetrack/internal/apperr"
	"zonetrack/internal/models"
)

const DefaultClientName = "Default"

type SeedResult struct {
	ClientID      string
	AdminID       string
	ClientCreated bool
	AdminCreated  bool
}

// Seed makes sure a client named Default and an admin user with the given
// email exist. Running it again changes nothing.
func (s *Service) Seed(ctx context.Context, adminEmail, adminPassword string) (SeedResult, error) {
	var res SeedResult
	if strings.TrimSpace(adminEmail) == "" || adminPassword == "" {
		return res, apperr.Validation("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	clients, err := s.clients.List(ctx)
	if err != nil {
		return res, err
	}
	for _, c := range clients {
		if c.Name == DefaultClientName {
			res.ClientID = c.ID
			break
		}
	}
	if res.ClientID == "" {
		c, err := s.CreateClient(ctx, NewClient{Name: DefaultClientName})
		if err != nil {
			return res, err
		}
		res.ClientID, res.ClientCreated = c.ID, true
	}

	existing, err := s.users.GetByEmail(ctx, adminEmail)
	switch {
	case err == nil:
		res.AdminID = existing.ID
		return res, nil
	case !apperr.IsNotFound(err):
		return res, err
	}
	u, err := s.CreateUser(ctx, NewUser{
		FirstName: "Default",
		LastName:  "Admin",
		Email:     adminEmail,
		Password:  adminPassword,
		Role:      models.RoleAdmin,
		ClientID:  res.ClientID,
	})
	if u != nil {
		res.AdminID, res.AdminCreated = u.ID, true
	}
	return res, err
}
