package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"zonetrack/internal/services/workspace"
)

// Client-scoped user routes. The embedded copy is the primary write.

func CreateClientUser(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req workspace.NewUser
		if err := decode(r, &req); err != nil {
			respondError(w, lg, r, err)
			return
		}
		u, err := svc.AddClientUser(r.Context(), param(r, "clientId"), req)
		if u == nil {
			respondError(w, lg, r, err)
			return
		}
		respondResult(w, lg, r, http.StatusCreated, map[string]any{"message": "User created successfully", "user": u}, err)
	}
}

func UpdateClientUser(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req workspace.UserPatch
		if err := decode(r, &req); err != nil {
			respondError(w, lg, r, err)
			return
		}
		u, err := svc.UpdateClientUser(r.Context(), param(r, "clientId"), param(r, "userId"), req)
		if u == nil {
			respondError(w, lg, r, err)
			return
		}
		respondResult(w, lg, r, http.StatusOK, map[string]any{"message": "User updated successfully", "user": u}, err)
	}
}

func DeleteClientUser(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.DeleteClientUser(r.Context(), param(r, "clientId"), param(r, "userId"))
		respondResult(w, lg, r, http.StatusOK, map[string]any{"message": "User deleted successfully"}, err)
	}
}

// Standalone user routes. The users table is the primary write.

func CreateUser(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req workspace.NewUser
		if err := decode(r, &req); err != nil {
			respondError(w, lg, r, err)
			return
		}
		u, err := svc.CreateUser(r.Context(), req)
		if u == nil {
			respondError(w, lg, r, err)
			return
		}
		respondResult(w, lg, r, http.StatusCreated, map[string]any{"message": "User created successfully", "user": u}, err)
	}
}

func ListUsers(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		us, err := svc.Users(r.Context())
		if err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondJSON(w, http.StatusOK, us)
	}
}

func GetUser(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := svc.User(r.Context(), param(r, "userId"))
		if err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondJSON(w, http.StatusOK, u)
	}
}

func UpdateUser(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req workspace.UserPatch
		if err := decode(r, &req); err != nil {
			respondError(w, lg, r, err)
			return
		}
		u, err := svc.UpdateUser(r.Context(), param(r, "userId"), req)
		if u == nil {
			respondError(w, lg, r, err)
			return
		}
		respondResult(w, lg, r, http.StatusOK, map[string]any{"message": "User updated successfully", "user": u}, err)
	}
}

func DeleteUser(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.DeleteUser(r.Context(), param(r, "userId"))
		respondResult(w, lg, r, http.StatusOK, map[string]any{"message": "User deleted successfully"}, err)
	}
}
