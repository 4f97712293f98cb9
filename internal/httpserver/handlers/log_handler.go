package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"zonetrack/internal/services/workspace"
)

// AuditLog lists recent audit entries, optionally for one client.
func AuditLog(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logs, err := svc.AuditLog(r.Context(), r.URL.Query().Get("client_id"), queryLimit(r))
		if err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondJSON(w, http.StatusOK, logs)
	}
}

func PendingWrites(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		open, err := svc.PendingWrites(r.Context(), queryLimit(r))
		if err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondJSON(w, http.StatusOK, open)
	}
}

func Reconcile(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, err := svc.Reconcile(r.Context(), queryLimit(r))
		if err != nil {
			respondError(w, lg, r, err)
			return
		}
		lg.Infow("reconcile run", "attempted", rep.Attempted, "resolved", rep.Resolved, "failed", rep.Failed)
		respondJSON(w, http.StatusOK, rep)
	}
}
