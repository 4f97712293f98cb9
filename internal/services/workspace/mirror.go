package workspace

import (
	"context"
	"encoding/json"
	"errors"

	"zonetrack/internal/apperr"
	"zonetrack/internal/models"
)

type OpKind string

const (
	// OpUserSync makes the standalone row match User, creating it if needed.
	OpUserSync OpKind = "user.sync"
	// OpUserDelete removes the standalone row; an absent row is success.
	OpUserDelete OpKind = "user.delete"
	// OpClientUserSync makes the embedded copy inside ClientID match User.
	OpClientUserSync OpKind = "client.user.sync"
	// OpClientUserRemove pulls the embedded copy; an absent copy is success.
	OpClientUserRemove OpKind = "client.user.remove"
	// OpUserJobAssign adds JobID to the standalone row's job list.
	OpUserJobAssign OpKind = "user.job.assign"
)

// Op is a secondary write. Every kind is safe to apply more than once.
type Op struct {
	Kind     OpKind       `json:"kind"`
	ClientID string       `json:"clientId,omitempty"`
	UserID   string       `json:"userId,omitempty"`
	JobID    string       `json:"jobId,omitempty"`
	User     *models.User `json:"user,omitempty"`
	// PasswordHash travels beside User because User never serialises it.
	PasswordHash string `json:"passwordHash,omitempty"`
}

func (op Op) pending() *models.PendingWrite {
	return &models.PendingWrite{
		Kind:     string(op.Kind),
		ClientID: op.ClientID,
		UserID:   op.UserID,
		Payload:  models.MustJSONB(op),
	}
}

func (s *Service) apply(ctx context.Context, op Op) error {
	if (op.Kind == OpUserSync || op.Kind == OpClientUserSync) && op.User == nil {
		return apperr.Validation("op %s carries no user", op.Kind)
	}
	switch op.Kind {
	case OpUserSync:
		return s.syncStandalone(ctx, op)
	case OpUserDelete:
		if err := s.users.Delete(ctx, op.UserID); err != nil && !apperr.IsNotFound(err) {
			return err
		}
		return nil
	case OpClientUserSync:
		_, err := s.clients.Mutate(ctx, op.ClientID, func(c *models.Client) error {
			emb := embeddedCopy(*op.User)
			if u, err := c.User(op.UserID); err == nil {
				emb.Jobs = u.Jobs
				*u = emb
				return nil
			}
			c.Users = append(c.Users, emb)
			return nil
		})
		return err
	case OpClientUserRemove:
		_, err := s.clients.Mutate(ctx, op.ClientID, func(c *models.Client) error {
			if err := c.RemoveUser(op.UserID); err != nil && !apperr.IsNotFound(err) {
				return err
			}
			return nil
		})
		if apperr.IsNotFound(err) {
			return nil
		}
		return err
	case OpUserJobAssign:
		return s.users.AddJob(ctx, op.UserID, op.JobID)
	}
	return apperr.Validation("unknown op kind %q", op.Kind)
}

// syncStandalone copies the mutable fields onto the existing row, keeping its
// job list and, when no new hash is carried, its password. A missing row is
// recreated only when the op carries a hash.
func (s *Service) syncStandalone(ctx context.Context, op Op) error {
	want := *op.User
	cur, err := s.users.Get(ctx, op.UserID)
	switch {
	case err == nil:
		cur.FirstName = want.FirstName
		cur.LastName = want.LastName
		cur.Email = want.Email
		cur.Role = want.Role
		cur.Shifts = want.Shifts
		cur.ClientID = want.ClientID
		if op.PasswordHash != "" {
			cur.Password = op.PasswordHash
		}
		return s.users.Update(ctx, cur)
	case apperr.IsNotFound(err) && op.PasswordHash == "":
		return apperr.NotFound("user %s not found and no password to recreate it", op.UserID)
	case apperr.IsNotFound(err):
		want.Password = op.PasswordHash
		return s.users.Upsert(ctx, &want)
	default:
		return err
	}
}

// embeddedCopy strips the fields the client document does not carry.
func embeddedCopy(u models.User) models.User {
	u.Password = ""
	if u.Jobs == nil {
		u.Jobs = []string{}
	}
	return u
}

// mirror runs the secondary write of a dual write. A not-found result is
// returned at once since replaying it cannot help; other failures are
// retried and then queued.
func (s *Service) mirror(ctx context.Context, primary string, op Op) error {
	var err error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if err = s.apply(ctx, op); err == nil {
			return nil
		}
		if apperr.IsNotFound(err) {
			break
		}
		s.lg.Warnw("secondary write failed", "op", op.Kind, "attempt", attempt, "client_id", op.ClientID, "user_id", op.UserID, "error", err)
	}
	partial := &apperr.Partial{Primary: primary, Failed: string(op.Kind), Err: err}
	if !apperr.IsNotFound(err) && s.pending != nil {
		pw := op.pending()
		pw.Attempts = s.attempts
		pw.LastError = err.Error()
		if qerr := s.pending.Enqueue(ctx, pw); qerr != nil {
			s.lg.Errorw("repair queue write failed", "op", op.Kind, "client_id", op.ClientID, "user_id", op.UserID, "error", qerr)
		} else {
			partial.QueueID = pw.ID
		}
	}
	s.lg.Warnw("partial write", "primary", primary, "op", op.Kind, "queue_id", partial.QueueID, "error", err)
	s.record(ctx, "PARTIAL_WRITE", op.ClientID, op.UserID, map[string]any{
		"primary": primary, "failed": op.Kind, "queue_id": partial.QueueID, "error": err.Error(),
	})
	return partial
}

type ReconcileReport struct {
	Attempted int `json:"attempted"`
	Resolved  int `json:"resolved"`
	Failed    int `json:"failed"`
}

// Reconcile replays queued secondary writes once each.
func (s *Service) Reconcile(ctx context.Context, limit int) (ReconcileReport, error) {
	var rep ReconcileReport
	open, err := s.pending.Open(ctx, limit)
	if err != nil {
		return rep, err
	}
	for _, pw := range open {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rep.Attempted++
		var op Op
		err := json.Unmarshal(pw.Payload, &op)
		if err == nil {
			err = s.apply(ctx, op)
		}
		if err != nil && !apperr.IsNotFound(err) {
			rep.Failed++
			if merr := s.pending.MarkFailed(ctx, pw.ID, err); merr != nil {
				return rep, errors.Join(err, merr)
			}
			continue
		}
		if err != nil {
			s.lg.Infow("repair target gone", "queue_id", pw.ID, "op", pw.Kind, "error", err)
		}
		rep.Resolved++
		if err := s.pending.MarkResolved(ctx, pw.ID); err != nil {
			return rep, err
		}
	}
	if rep.Attempted > 0 {
		s.record(ctx, "RECONCILE", "", "", map[string]any{"attempted": rep.Attempted, "resolved": rep.Resolved, "failed": rep.Failed})
	}
	return rep, nil
}

func (s *Service) PendingWrites(ctx context.Context, limit int) ([]models.PendingWrite, error) {
	return s.pending.Open(ctx, limit)
}
