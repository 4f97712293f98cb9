package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"zonetrack/internal/services/workspace"
)

func CreateClient(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req workspace.NewClient
		if err := decode(r, &req); err != nil {
			respondError(w, lg, r, err)
			return
		}
		c, err := svc.CreateClient(r.Context(), req)
		if err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, map[string]any{"message": "Client created successfully", "id": c.ID})
	}
}

func ListClients(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cs, err := svc.Clients(r.Context())
		if err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondJSON(w, http.StatusOK, cs)
	}
}

func GetClient(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.Client(r.Context(), param(r, "clientId"))
		if err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondJSON(w, http.StatusOK, c)
	}
}

func UpdateClient(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req workspace.ClientPatch
		if err := decode(r, &req); err != nil {
			respondError(w, lg, r, err)
			return
		}
		c, err := svc.UpdateClient(r.Context(), param(r, "clientId"), req)
		if err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]any{"message": "Client updated successfully", "client": c})
	}
}

func DeleteClient(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteClient(r.Context(), param(r, "clientId")); err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondMessage(w, http.StatusOK, "Client deleted successfully")
	}
}
