package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"zonetrack/internal/services/workspace"
)

func CreateLocation(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req workspace.LocationInput
		if err := decode(r, &req); err != nil {
			respondError(w, lg, r, err)
			return
		}
		loc, err := svc.AddLocation(r.Context(), param(r, "clientId"), req)
		if err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, loc)
	}
}

func UpdateLocation(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req workspace.LocationInput
		if err := decode(r, &req); err != nil {
			respondError(w, lg, r, err)
			return
		}
		loc, err := svc.UpdateLocation(r.Context(), param(r, "clientId"), param(r, "locationId"), req)
		if err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondJSON(w, http.StatusOK, loc)
	}
}

func DeleteLocation(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteLocation(r.Context(), param(r, "clientId"), param(r, "locationId")); err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondMessage(w, http.StatusOK, "Location deleted successfully")
	}
}

func CreateZone(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req workspace.ZoneInput
		if err := decode(r, &req); err != nil {
			respondError(w, lg, r, err)
			return
		}
		z, err := svc.AddZone(r.Context(), param(r, "clientId"), param(r, "locationId"), req)
		if err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondJSON(w, http.StatusCreated, z)
	}
}

func UpdateZone(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req workspace.ZoneInput
		if err := decode(r, &req); err != nil {
			respondError(w, lg, r, err)
			return
		}
		z, err := svc.UpdateZone(r.Context(), param(r, "clientId"), param(r, "locationId"), param(r, "zoneId"), req)
		if err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondJSON(w, http.StatusOK, z)
	}
}

func DeleteZone(svc *workspace.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.DeleteZone(r.Context(), param(r, "clientId"), param(r, "locationId"), param(r, "zoneId")); err != nil {
			respondError(w, lg, r, err)
			return
		}
		respondMessage(w, http.StatusOK, "Zone deleted successfully")
	}
}
