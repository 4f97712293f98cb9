package workspace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"zonetrack/internal/apperr"
	"zonetrack/internal/models"
	"zonetrack/internal/patch"
)

// checkID rejects identifiers that could never match a stored entity.
func checkID(level, id string) error {
	if !models.ValidID(id) {
		return apperr.Validation("invalid %s id %q", level, id)
	}
	return nil
}

func checkIDs(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if err := checkID(pairs[i], pairs[i+1]); err != nil {
			return err
		}
	}
	return nil
}

type NewClient struct {
	Name      string            `json:"name"`
	Users     json.RawMessage   `json:"users,omitempty"`
	Locations []models.Location `json:"locations"`
	Jobs      []models.Job      `json:"jobs"`
}

type ClientPatch struct {
	Name      patch.Field[string]            `json:"name"`
	Users     json.RawMessage                `json:"users,omitempty"`
	Locations patch.Field[[]models.Location] `json:"locations"`
}

var errEmbeddedUsers = apperr.Validation("users are managed through /users endpoints")

// carriesUsers treats absent, null and [] alike.
func carriesUsers(raw json.RawMessage) bool {
	var us []json.RawMessage
	if err := json.Unmarshal(raw, &us); err != nil {
		return len(bytes.TrimSpace(raw)) > 0
	}
	return len(us) > 0
}

// freshLocations gives caller supplied subtrees server ids at every level.
func freshLocations(ls []models.Location) {
	for i := range ls {
		ls[i].FreshIDs()
	}
}

func (s *Service) CreateClient(ctx context.Context, in NewClient) (*models.Client, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Validation("name is required")
	}
	if carriesUsers(in.Users) {
		return nil, errEmbeddedUsers
	}
	freshLocations(in.Locations)
	for i := range in.Jobs {
		in.Jobs[i].FreshIDs()
	}
	c := &models.Client{Name: name, Locations: in.Locations, Jobs: in.Jobs}
	if err := s.clients.Create(ctx, c); err != nil {
		return nil, err
	}
	s.record(ctx, "CLIENT_CREATE", c.ID, "", map[string]any{"name": c.Name})
	return c, nil
}

func (s *Service) Client(ctx context.Context, id string) (*models.Client, error) {
	if err := checkID("client", id); err != nil {
		return nil, err
	}
	return s.clients.Get(ctx, id)
}

func (s *Service) Clients(ctx context.Context) ([]models.Client, error) {
	return s.clients.List(ctx)
}

func (s *Service) UpdateClient(ctx context.Context, id string, p ClientPatch) (*models.Client, error) {
	if err := checkID("client", id); err != nil {
		return nil, err
	}
	if carriesUsers(p.Users) {
		return nil, errEmbeddedUsers
	}
	if p.Name.Set && strings.TrimSpace(p.Name.Value) == "" {
		return nil, apperr.Validation("name cannot be empty")
	}
	if p.Locations.Set {
		freshLocations(p.Locations.Value)
	}
	c, err := s.clients.Mutate(ctx, id, func(c *models.Client) error {
		p.Name.Apply(&c.Name)
		p.Locations.Apply(&c.Locations)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.record(ctx, "CLIENT_UPDATE", id, "", nil)
	return c, nil
}

// DeleteClient removes the client document only. Standalone users that
// pointed at it are left in place.
func (s *Service) DeleteClient(ctx context.Context, id string) error {
	if err := checkID("client", id); err != nil {
		return err
	}
	if err := s.clients.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "CLIENT_DELETE", id, "", nil)
	return nil
}
