package workspace

import (
	"context"
	"strings"

	"zonetrack/internal/apperr"
	"zonetrack/internal/models"
	"zonetrack/internal/patch"
)

type NewUser struct {
	FirstName string        `json:"firstname"`
	LastName  string        `json:"lastname"`
	Email     string        `json:"email"`
	Password  string        `json:"password"`
	Role      models.Role   `json:"role"`
	Shifts    models.Shifts `json:"shifts"`
	ClientID  string        `json:"clientid"`
}

type UserPatch struct {
	FirstName patch.Field[string]        `json:"firstname"`
	LastName  patch.Field[string]        `json:"lastname"`
	Email     patch.Field[string]        `json:"email"`
	Password  patch.Field[string]        `json:"password"`
	Role      patch.Field[models.Role]   `json:"role"`
	Shifts    patch.Field[models.Shifts] `json:"shifts"`
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func (p UserPatch) validate() error {
	if p.Role.Set && !p.Role.Value.Valid() {
		return apperr.Validation("role must be one of employee, manager, admin")
	}
	if p.Shifts.Set {
		if err := p.Shifts.Value.Validate(); err != nil {
			return apperr.Validation("%s", err.Error())
		}
	}
	return nil
}

func (p UserPatch) applyTo(u *models.User) {
	p.FirstName.Apply(&u.FirstName)
	p.LastName.Apply(&u.LastName)
	if p.Email.Set {
		u.Email = normalizeEmail(p.Email.Value)
	}
	p.Role.Apply(&u.Role)
	p.Shifts.Apply(&u.Shifts)
}

// newHash returns the hash for a password carried by the patch, or "" when
// the password is absent or empty and must stay as stored.
func (s *Service) newHash(p UserPatch) (string, error) {
	if !p.Password.Set || p.Password.Value == "" {
		return "", nil
	}
	h, err := s.hasher.Hash(p.Password.Value)
	if err != nil {
		return "", apperr.Store("hash password", err)
	}
	return h, nil
}

func (s *Service) buildUser(in NewUser, clientID string) (*models.User, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" ||
		strings.TrimSpace(in.Email) == "" || in.Password == "" || in.Role == "" {
		return nil, apperr.Validation("firstname, lastname, email, password and role are required")
	}
	if !in.Role.Valid() {
		return nil, apperr.Validation("role must be one of employee, manager, admin")
	}
	shifts := in.Shifts
	if shifts == nil {
		shifts = models.DefaultShifts()
	} else if err := shifts.Validate(); err != nil {
		return nil, apperr.Validation("%s", err.Error())
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Store("hash password", err)
	}
	return &models.User{
		ID:        models.NewID(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     normalizeEmail(in.Email),
		Password:  hash,
		Role:      in.Role,
		Shifts:    shifts,
		ClientID:  clientID,
		Jobs:      []string{},
	}, nil
}

// AddClientUser embeds a new user in the client, then mirrors it into the
// users table. On *apperr.Partial the returned user is still valid.
func (s *Service) AddClientUser(ctx context.Context, clientID string, in NewUser) (*models.User, error) {
	if err := checkID("client", clientID); err != nil {
		return nil, err
	}
	u, err := s.buildUser(in, clientID)
	if err != nil {
		return nil, err
	}
	if _, err := s.clients.Mutate(ctx, clientID, func(c *models.Client) error {
		c.Users = append(c.Users, embeddedCopy(*u))
		return nil
	}); err != nil {
		return nil, err
	}
	s.record(ctx, "USER_CREATE", clientID, u.ID, map[string]any{"via": "client"})
	return u, s.mirror(ctx, "client user", Op{Kind: OpUserSync, ClientID: clientID, UserID: u.ID, User: u, PasswordHash: u.Password})
}

func (s *Service) UpdateClientUser(ctx context.Context, clientID, userID string, p UserPatch) (*models.User, error) {
	if err := checkIDs("client", clientID, "user", userID); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	hash, err := s.newHash(p)
	if err != nil {
		return nil, err
	}
	var updated models.User
	if _, err := s.clients.Mutate(ctx, clientID, func(c *models.Client) error {
		u, err := c.User(userID)
		if err != nil {
			return err
		}
		p.applyTo(u)
		updated = *u
		return nil
	}); err != nil {
		return nil, err
	}
	s.record(ctx, "USER_UPDATE", clientID, userID, map[string]any{"via": "client"})
	return &updated, s.mirror(ctx, "client user", Op{Kind: OpUserSync, ClientID: clientID, UserID: userID, User: &updated, PasswordHash: hash})
}

func (s *Service) DeleteClientUser(ctx context.Context, clientID, userID string) error {
	if err := checkIDs("client", clientID, "user", userID); err != nil {
		return err
	}
	if _, err := s.clients.Mutate(ctx, clientID, func(c *models.Client) error {
		return c.RemoveUser(userID)
	}); err != nil {
		return err
	}
	s.record(ctx, "USER_DELETE", clientID, userID, map[string]any{"via": "client"})
	return s.mirror(ctx, "client user", Op{Kind: OpUserDelete, ClientID: clientID, UserID: userID})
}

// CreateUser inserts the standalone row first and then embeds the copy in
// the owning client, which must exist.
func (s *Service) CreateUser(ctx context.Context, in NewUser) (*models.User, error) {
	if in.ClientID == "" {
		return nil, apperr.Validation("clientid is required")
	}
	if err := checkID("client", in.ClientID); err != nil {
		return nil, err
	}
	u, err := s.buildUser(in, in.ClientID)
	if err != nil {
		return nil, err
	}
	if _, err := s.clients.Get(ctx, in.ClientID); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.record(ctx, "USER_CREATE", u.ClientID, u.ID, map[string]any{"via": "users"})
	return u, s.mirror(ctx, "user", Op{Kind: OpClientUserSync, ClientID: u.ClientID, UserID: u.ID, User: u})
}

func (s *Service) Users(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *Service) User(ctx context.Context, id string) (*models.User, error) {
	if err := checkID("user", id); err != nil {
		return nil, err
	}
	return s.users.Get(ctx, id)
}

func (s *Service) UpdateUser(ctx context.Context, id string, p UserPatch) (*models.User, error) {
	if err := checkID("user", id); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	hash, err := s.newHash(p)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.applyTo(u)
	if hash != "" {
		u.Password = hash
	}
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.record(ctx, "USER_UPDATE", u.ClientID, id, map[string]any{"via": "users"})
	if u.ClientID == "" {
		return u, nil
	}
	return u, s.mirror(ctx, "user", Op{Kind: OpClientUserSync, ClientID: u.ClientID, UserID: id, User: u})
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := checkID("user", id); err != nil {
		return err
	}
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, "USER_DELETE", u.ClientID, id, map[string]any{"via": "users"})
	if u.ClientID == "" {
		return nil
	}
	return s.mirror(ctx, "user", Op{Kind: OpClientUserRemove, ClientID: u.ClientID, UserID: id})
}
