// Package workspace implements the client document operations: identifier
// addressed create/update/delete at every nesting level, the dual write that
// keeps embedded and standalone users in step, and job assignment.
//
// Each operation that touches more than one stored document is split into a
// primary write and a secondary write. Only the primary write decides whether
// the request failed. A secondary write that still fails after the configured
// attempts is queued for reconciliation and surfaced as *apperr.Partial.
package workspace

import (
	"context"

	"go.uber.org/zap"

	"zonetrack/internal/auth"
	"zonetrack/internal/models"
	"zonetrack/internal/qr"
)

type ClientStore interface {
	Create(ctx context.Context, c *models.Client) error
	Get(ctx context.Context, id string) (*models.Client, error)
	List(ctx context.Context) ([]models.Client, error)
	Delete(ctx context.Context, id string) error
	Mutate(ctx context.Context, id string, fn func(*models.Client) error) (*models.Client, error)
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, u *models.User) error
	Upsert(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, id string) error
	AddJob(ctx context.Context, userID, jobID string) error
}

type PendingStore interface {
	Enqueue(ctx context.Context, pw *models.PendingWrite) error
	Open(ctx context.Context, limit int) ([]models.PendingWrite, error)
	MarkResolved(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, cause error) error
}

type AuditStore interface {
	Record(ctx context.Context, entry *models.AuditLog) error
	Recent(ctx context.Context, clientID string, limit int) ([]models.AuditLog, error)
}

type SessionStore interface {
	Create(ctx context.Context, s *models.Session) error
	Active(ctx context.Context, jti string) (*models.Session, error)
	Revoke(ctx context.Context, jti string) error
}

type Deps struct {
	Clients  ClientStore
	Users    UserStore
	Pending  PendingStore
	Audit    AuditStore
	Sessions SessionStore
	Hasher   auth.Hasher
	Issuer   *auth.Issuer
	QR       qr.Generator
	// Attempts bounds inline tries of a secondary write before it is queued.
	Attempts int
	Log      *zap.SugaredLogger
}

type Service struct {
	clients  ClientStore
	users    UserStore
	pending  PendingStore
	audit    AuditStore
	sessions SessionStore
	hasher   auth.Hasher
	issuer   *auth.Issuer
	qr       qr.Generator
	attempts int
	lg       *zap.SugaredLogger
}

func New(d Deps) *Service {
	s := &Service{
		clients:  d.Clients,
		users:    d.Users,
		pending:  d.Pending,
		audit:    d.Audit,
		sessions: d.Sessions,
		hasher:   d.Hasher,
		issuer:   d.Issuer,
		qr:       d.QR,
		attempts: d.Attempts,
		lg:       d.Log,
	}
	if s.attempts < 1 {
		s.attempts = 1
	}
	if s.qr == nil {
		s.qr = qr.PNG{}
	}
	if s.lg == nil {
		s.lg = zap.NewNop().Sugar()
	}
	return s
}

// record writes an audit entry. Failures are logged, never returned.
func (s *Service) record(ctx context.Context, action, clientID, userID string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	if actor := auth.Subject(ctx); actor != "" {
		if meta == nil {
			meta = map[string]any{}
		}
		meta["actor"] = actor
	}
	entry := &models.AuditLog{Action: action, Metadata: models.MustJSONB(meta)}
	if clientID != "" {
		entry.ClientID = &clientID
	}
	if userID != "" {
		entry.UserID = &userID
	}
	if err := s.audit.Record(ctx, entry); err != nil {
		s.lg.Warnw("audit write failed", "action", action, "client_id", clientID, "error", err)
	}
}

func (s *Service) AuditLog(ctx context.Context, clientID string, limit int) ([]models.AuditLog, error) {
	if clientID != "" {
		if err := checkID("client", clientID); err != nil {
			return nil, err
		}
	}
	return s.audit.Recent(ctx, clientID, limit)
}
