package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"zonetrack/internal/auth"
	"zonetrack/internal/services/workspace"
)

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := decode(r, &req); err != nil {
			respondError(w, lg, r, err)
			return
		}
		res, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondJSON(w, http.StatusOK, res)
	}
}

func Logout(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context(), auth.FromContext(r.Context()).JWTID); err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondMessage(w, http.StatusOK, "Logged out")
	}
}
